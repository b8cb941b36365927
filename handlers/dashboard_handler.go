package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

type DashboardHandler struct {
	cfg *config.Config
}

func NewDashboardHandler(cfg *config.Config) *DashboardHandler { return &DashboardHandler{cfg: cfg} }

// GET /dashboard — los contadores de la Circular 120:
// por certificar, etapa productiva vencida, ficha finalizada sin certificar,
// casos urgentes y distribución por estado.
func (h *DashboardHandler) Resumen(c echo.Context) error {
	hoy := time.Now().UTC().Truncate(24 * time.Hour)
	limiteUrgente := hoy.AddDate(0, 0, -h.cfg.AlertaModeradaDias)

	var totalAprendices, totalFichas, totalInasistencias int64
	database.DB.Model(&models.Aprendiz{}).Count(&totalAprendices)
	database.DB.Model(&models.Ficha{}).Count(&totalFichas)
	database.DB.Model(&models.Inasistencia{}).Count(&totalInasistencias)

	var porCertificar int64
	database.DB.Model(&models.Aprendiz{}).
		Where("estado_formacion = ?", models.EstadoPorCertificar).
		Count(&porCertificar)

	var productivaVencida int64
	database.DB.Model(&models.Aprendiz{}).
		Where("estado_formacion = ? AND fecha_fin_productiva < ?", models.EstadoEtapaProductiva, hoy).
		Count(&productivaVencida)

	var fichaVencida int64
	database.DB.Model(&models.Aprendiz{}).
		Joins("JOIN fichas ON fichas.numero = aprendices.ficha_numero").
		Where("fichas.fecha_fin < ? AND estado_formacion <> ?", hoy, models.EstadoCertificado).
		Count(&fichaVencida)

	var casosUrgentes []models.Aprendiz
	database.DB.Preload("Ficha").
		Joins("LEFT JOIN fichas ON fichas.numero = aprendices.ficha_numero").
		Where("(fichas.fecha_fin < ? OR fecha_fin_productiva < ?)", limiteUrgente, limiteUrgente).
		Where("estado_formacion NOT IN ?", []string{models.EstadoCertificado, models.EstadoCancelado}).
		Find(&casosUrgentes)

	type estadoCount struct {
		EstadoFormacion string `json:"estado_formacion"`
		Total           int64  `json:"total"`
	}
	var porEstado []estadoCount
	database.DB.Model(&models.Aprendiz{}).
		Select("estado_formacion, COUNT(documento) AS total").
		Group("estado_formacion").Scan(&porEstado)

	lista := casosUrgentes
	if len(lista) > 10 {
		lista = lista[:10]
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total_aprendices":    totalAprendices,
		"total_fichas":        totalFichas,
		"total_inasistencias": totalInasistencias,
		"por_certificar":      porCertificar,
		"productiva_vencida":  productivaVencida,
		"ficha_vencida":       fichaVencida,
		"casos_urgentes":      len(casosUrgentes),
		"por_estado":          porEstado,
		"lista_urgentes":      lista,
		"hoy":                 hoy.Format("2006-01-02"),
	})
}
