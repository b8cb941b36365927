package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

type ActaHandler struct{}

func NewActaHandler() *ActaHandler { return &ActaHandler{} }

// GET /actas?ficha=&page=&size=
func (h *ActaHandler) List(c echo.Context) error {
	ficha := strings.TrimSpace(c.QueryParam("ficha"))
	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	tx := database.DB.Model(&models.ActaComite{})
	if ficha != "" {
		tx = tx.Where("ficha_numero = ?", ficha)
	}

	var total int64
	tx.Count(&total)

	var rows []models.ActaComite
	if err := tx.Order("fecha DESC, id DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items": rows,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// POST /actas
func (h *ActaHandler) Create(c echo.Context) error {
	var req struct {
		Ficha     string `json:"ficha"`
		Fecha     string `json:"fecha"` // YYYY-MM-DD, vacío = hoy
		Contenido string `json:"contenido"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Contenido = strings.TrimSpace(req.Contenido)
	if req.Contenido == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	fecha := time.Now().UTC()
	if s := strings.TrimSpace(req.Fecha); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "FECHA_INVALIDA"})
		}
		fecha = t
	}

	creadoPor, _ := c.Get("name").(string)
	acta := models.ActaComite{
		Fecha:     fecha,
		Contenido: req.Contenido,
		CreadoPor: creadoPor,
	}
	if f := strings.TrimSpace(req.Ficha); f != "" {
		var ficha models.Ficha
		if err := database.DB.Where("numero = ?", f).First(&ficha).Error; err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "FICHA_NO_EXISTE"})
		}
		acta.FichaNumero = &ficha.Numero
	}

	if err := database.DB.Create(&acta).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, acta)
}
