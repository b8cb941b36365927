package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TatiTo-bot/Proyecto-sena-circular/circular"
	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

// CasosHandler sirve las vistas de seguimiento del comité: por certificar,
// vencidos por nivel de urgencia y el reporte consolidado Circular 120.
type CasosHandler struct {
	cfg *config.Config
}

func NewCasosHandler(cfg *config.Config) *CasosHandler { return &CasosHandler{cfg: cfg} }

func (h *CasosHandler) umbrales() circular.Umbrales {
	return circular.Umbrales{
		ModeradoDias: h.cfg.AlertaModeradaDias,
		UrgenteDias:  h.cfg.AlertaUrgenteDias,
	}
}

// GET /casos/por-certificar
func (h *CasosHandler) PorCertificar(c echo.Context) error {
	var rows []models.Aprendiz
	if err := database.DB.Preload("Ficha").
		Where("estado_formacion = ?", models.EstadoPorCertificar).
		Order("fecha_fin_productiva ASC").
		Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"aprendices": rows,
		"total":      len(rows),
	})
}

// GET /casos/vencidos — agrupa por urgencia con los umbrales configurados.
func (h *CasosHandler) Vencidos(c echo.Context) error {
	hoy := time.Now().UTC()

	var rows []models.Aprendiz
	if err := database.DB.Preload("Ficha").
		Joins("LEFT JOIN fichas ON fichas.numero = aprendices.ficha_numero").
		Where("(fichas.fecha_fin < ? OR fecha_fin_productiva < ?)", hoy, hoy).
		Where("estado_formacion NOT IN ?", []string{models.EstadoCertificado, models.EstadoCancelado}).
		Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	v := circular.ClasificarVencidos(rows, hoy, h.umbrales())
	return c.JSON(http.StatusOK, map[string]any{
		"urgentes":  v.Urgentes,
		"moderados": v.Moderados,
		"recientes": v.Recientes,
		"total":     v.Total(),
	})
}

// GET /reportes/circular120 — insumo del acta de comité.
func (h *CasosHandler) ReporteCircular120(c echo.Context) error {
	hoy := time.Now().UTC().Truncate(24 * time.Hour)

	var porCertificar []models.Aprendiz
	database.DB.Preload("Ficha").
		Where("estado_formacion = ?", models.EstadoPorCertificar).
		Find(&porCertificar)

	var productivaVencida []models.Aprendiz
	database.DB.Preload("Ficha").
		Where("estado_formacion = ? AND fecha_fin_productiva < ?", models.EstadoEtapaProductiva, hoy).
		Find(&productivaVencida)

	var fichaVencida []models.Aprendiz
	database.DB.Preload("Ficha").
		Joins("JOIN fichas ON fichas.numero = aprendices.ficha_numero").
		Where("fichas.fecha_fin < ? AND estado_formacion <> ?", hoy, models.EstadoCertificado).
		Find(&fichaVencida)

	return c.JSON(http.StatusOK, map[string]any{
		"por_certificar":     porCertificar,
		"productiva_vencida": productivaVencida,
		"ficha_vencida":      fichaVencida,
		"fecha_generacion":   hoy.Format("2006-01-02"),
	})
}
