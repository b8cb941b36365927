package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

type FichaHandler struct{}

func NewFichaHandler() *FichaHandler { return &FichaHandler{} }

var fichaReNumero = regexp.MustCompile(`^[0-9A-Za-z\-]{1,50}$`)

type fichaPayload struct {
	Numero      string `json:"numero"`
	Programa    string `json:"programa"`
	Instructor  string `json:"instructor"`
	FechaInicio string `json:"fecha_inicio"` // YYYY-MM-DD o vacío
	FechaFin    string `json:"fecha_fin"`    // idem
}

func (p *fichaPayload) normalize() {
	p.Numero = strings.TrimSpace(p.Numero)
	p.Programa = strings.TrimSpace(p.Programa)
	p.Instructor = strings.TrimSpace(p.Instructor)
	p.FechaInicio = strings.TrimSpace(p.FechaInicio)
	p.FechaFin = strings.TrimSpace(p.FechaFin)
}

func validateFicha(p *fichaPayload) map[string]string {
	errs := map[string]string{}
	if !fichaReNumero.MatchString(p.Numero) {
		errs["numero"] = "número de ficha inválido"
	}
	for campo, v := range map[string]string{"fecha_inicio": p.FechaInicio, "fecha_fin": p.FechaFin} {
		if v != "" {
			if _, err := time.Parse("2006-01-02", v); err != nil {
				errs[campo] = "fecha debe ser YYYY-MM-DD o vacía"
			}
		}
	}
	return errs
}

// GET /fichas?page=&size=
// Incluye los contadores del tablero de fichas.
func (h *FichaHandler) List(c echo.Context) error {
	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var rows []models.Ficha
	if err := database.DB.Order("fecha_inicio DESC").
		Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	hoy := time.Now().UTC().Truncate(24 * time.Hour)
	var totalFichas, totalAprendices, activas, vencidas int64
	database.DB.Model(&models.Ficha{}).Count(&totalFichas)
	database.DB.Model(&models.Aprendiz{}).Count(&totalAprendices)
	database.DB.Model(&models.Ficha{}).Where("fecha_fin >= ?", hoy).Count(&activas)
	database.DB.Model(&models.Ficha{}).Where("fecha_fin < ?", hoy).Count(&vencidas)

	return c.JSON(http.StatusOK, map[string]any{
		"items":            rows,
		"page":             page,
		"size":             size,
		"total_fichas":     totalFichas,
		"total_aprendices": totalAprendices,
		"fichas_activas":   activas,
		"fichas_vencidas":  vencidas,
	})
}

// GET /fichas/:numero — detalle con estadísticas de la ficha.
func (h *FichaHandler) Get(c echo.Context) error {
	var f models.Ficha
	err := database.DB.Where("numero = ?", c.Param("numero")).First(&f).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var totalAprendices, certificados, inasistencias int64
	database.DB.Model(&models.Aprendiz{}).Where("ficha_numero = ?", f.Numero).Count(&totalAprendices)
	database.DB.Model(&models.Aprendiz{}).
		Where("ficha_numero = ? AND estado_formacion = ?", f.Numero, models.EstadoCertificado).
		Count(&certificados)
	database.DB.Model(&models.Inasistencia{}).Where("ficha_numero = ?", f.Numero).Count(&inasistencias)

	var activos int64
	database.DB.Model(&models.Aprendiz{}).
		Where("ficha_numero = ? AND estado_formacion NOT IN ?", f.Numero,
			[]string{models.EstadoCancelado, models.EstadoDesertado, models.EstadoCertificado}).
		Count(&activos)

	type estadoCount struct {
		EstadoFormacion string `json:"estado_formacion"`
		Total           int64  `json:"total"`
	}
	var porEstado []estadoCount
	database.DB.Model(&models.Aprendiz{}).
		Select("estado_formacion, COUNT(documento) AS total").
		Where("ficha_numero = ?", f.Numero).
		Group("estado_formacion").Scan(&porEstado)

	return c.JSON(http.StatusOK, map[string]any{
		"ficha":               f,
		"total_aprendices":    totalAprendices,
		"aprendices_activos":  activos,
		"certificados":        certificados,
		"total_inasistencias": inasistencias,
		"por_estado":          porEstado,
	})
}

// POST /fichas
func (h *FichaHandler) Create(c echo.Context) error {
	var p fichaPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateFicha(&p); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}

	var dup models.Ficha
	if err := database.DB.Where("numero = ?", p.Numero).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "FICHA_DUPLICADA"})
	}

	f := models.Ficha{
		Numero:      p.Numero,
		Programa:    p.Programa,
		Instructor:  p.Instructor,
		FechaInicio: parseFechaOpt(p.FechaInicio),
		FechaFin:    parseFechaOpt(p.FechaFin),
	}
	if err := database.DB.Create(&f).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, f)
}

// PUT /fichas/:numero
func (h *FichaHandler) Update(c echo.Context) error {
	var f models.Ficha
	err := database.DB.Where("numero = ?", c.Param("numero")).First(&f).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var p fichaPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Numero = f.Numero
	p.normalize()
	if errs := validateFicha(&p); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}

	f.Programa = p.Programa
	f.Instructor = p.Instructor
	f.FechaInicio = parseFechaOpt(p.FechaInicio)
	f.FechaFin = parseFechaOpt(p.FechaFin)
	if err := database.DB.Save(&f).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, f)
}
