package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
	"github.com/TatiTo-bot/Proyecto-sena-circular/notifications"
)

// NotificacionHandler dispara los avisos por correo a instructores.
type NotificacionHandler struct {
	cfg *config.Config
}

func NewNotificacionHandler(cfg *config.Config) *NotificacionHandler {
	return &NotificacionHandler{cfg: cfg}
}

// POST /fichas/:numero/recordatorio  { email, fecha_limite? }
// Recuerda al instructor de la ficha subir sus inasistencias. Sin
// fecha_limite explícita se usa la fecha fin de la ficha, o una semana
// desde hoy si la ficha no tiene fecha fin.
func (h *NotificacionHandler) RecordatorioInstructor(c echo.Context) error {
	var req struct {
		Email       string `json:"email"`
		FechaLimite string `json:"fecha_limite"` // YYYY-MM-DD, opcional
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if !aprReEmail.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "EMAIL_INVALIDO"})
	}

	var f models.Ficha
	err := database.DB.Where("numero = ?", c.Param("numero")).First(&f).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "FICHA_NO_EXISTE"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	fechaLimite := time.Now().UTC().AddDate(0, 0, 7)
	if f.FechaFin != nil {
		fechaLimite = *f.FechaFin
	}
	if s := strings.TrimSpace(req.FechaLimite); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "FECHA_INVALIDA"})
		}
		fechaLimite = t
	}

	if err := notifications.AvisoInstructor(h.cfg, req.Email, f.Instructor, f.Numero, fechaLimite); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"enviado": true, "email": req.Email})
}
