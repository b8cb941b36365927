package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

type InasistenciaHandler struct{}

func NewInasistenciaHandler() *InasistenciaHandler { return &InasistenciaHandler{} }

// GET /inasistencias?ficha=&documento=&desde=&hasta=&justificada=&page=&size=
func (h *InasistenciaHandler) List(c echo.Context) error {
	ficha := strings.TrimSpace(c.QueryParam("ficha"))
	documento := strings.TrimSpace(c.QueryParam("documento"))
	desde := strings.TrimSpace(c.QueryParam("desde"))
	hasta := strings.TrimSpace(c.QueryParam("hasta"))
	justificada := strings.TrimSpace(c.QueryParam("justificada"))

	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 50)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}

	tx := database.DB.Model(&models.Inasistencia{})
	if ficha != "" {
		tx = tx.Where("ficha_numero = ?", ficha)
	}
	if documento != "" {
		tx = tx.Where("aprendiz_documento = ?", documento)
	}
	if desde != "" {
		tx = tx.Where("fecha >= ?", desde)
	}
	if hasta != "" {
		tx = tx.Where("fecha <= ?", hasta)
	}
	switch justificada {
	case "true", "1", "si":
		tx = tx.Where("justificada = ?", true)
	case "false", "0", "no":
		tx = tx.Where("justificada = ?", false)
	}

	var total int64
	tx.Count(&total)

	var rows []models.Inasistencia
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

// POST /inasistencias
func (h *InasistenciaHandler) Create(c echo.Context) error {
	var req struct {
		Documento   string `json:"documento"`
		Ficha       string `json:"ficha"`
		Fecha       string `json:"fecha"` // YYYY-MM-DD
		Justificada bool   `json:"justificada"`
		Motivo      string `json:"motivo"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Documento = strings.TrimSpace(req.Documento)
	req.Ficha = strings.TrimSpace(req.Ficha)
	if req.Documento == "" || req.Ficha == "" || req.Fecha == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	fecha, err := time.Parse("2006-01-02", strings.TrimSpace(req.Fecha))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "FECHA_INVALIDA"})
	}

	var aprendiz models.Aprendiz
	if err := database.DB.Where("documento = ?", req.Documento).First(&aprendiz).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "APRENDIZ_NO_EXISTE"})
	}
	var ficha models.Ficha
	if err := database.DB.Where("numero = ?", req.Ficha).First(&ficha).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "FICHA_NO_EXISTE"})
	}

	reportadoPor, _ := c.Get("name").(string)
	in := models.Inasistencia{
		AprendizDocumento: aprendiz.Documento,
		FichaNumero:       ficha.Numero,
		Fecha:             fecha.UTC(),
		Justificada:       req.Justificada,
		Motivo:            strings.TrimSpace(req.Motivo),
		ReportadoPor:      reportadoPor,
	}
	if err := database.DB.Create(&in).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, in)
}
