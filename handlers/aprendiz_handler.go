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

type AprendizHandler struct{}

func NewAprendizHandler() *AprendizHandler { return &AprendizHandler{} }

// ===== Reglas de validación =====
var (
	aprReDoc    = regexp.MustCompile(`^[0-9A-Za-z\-]{3,30}$`)
	aprReNombre = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚÜÑáéíóúüñ\s\.]{1,150}$`)
	aprReEmail  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	aprReTel    = regexp.MustCompile(`^[0-9\+\- ]{7,30}$`)
)

type aprendizPayload struct {
	Documento          string `json:"documento"`
	Nombre             string `json:"nombre"`
	Apellido           string `json:"apellido"`
	Email              string `json:"email"`
	Telefono           string `json:"telefono"`
	EstadoFormacion    string `json:"estado_formacion"`
	FechaInicio        string `json:"fecha_inicio"`         // YYYY-MM-DD o vacío
	FechaFinal         string `json:"fecha_final"`          // idem
	FechaFinLectiva    string `json:"fecha_fin_lectiva"`    // idem
	FechaFinProductiva string `json:"fecha_fin_productiva"` // idem
	FichaNumero        string `json:"ficha_numero"`
	Observaciones      string `json:"observaciones"`
}

func (p *aprendizPayload) normalize() {
	trim := strings.TrimSpace
	p.Documento = trim(p.Documento)
	p.Nombre = strings.Join(strings.Fields(p.Nombre), " ")
	p.Apellido = strings.Join(strings.Fields(p.Apellido), " ")
	p.Email = trim(p.Email)
	p.Telefono = trim(p.Telefono)
	p.EstadoFormacion = trim(p.EstadoFormacion)
	p.FechaInicio = trim(p.FechaInicio)
	p.FechaFinal = trim(p.FechaFinal)
	p.FechaFinLectiva = trim(p.FechaFinLectiva)
	p.FechaFinProductiva = trim(p.FechaFinProductiva)
	p.FichaNumero = trim(p.FichaNumero)
	p.Observaciones = trim(p.Observaciones)
}

func validateAprendiz(p *aprendizPayload) map[string]string {
	errs := map[string]string{}

	if !aprReDoc.MatchString(p.Documento) {
		errs["documento"] = "documento inválido (3-30 caracteres alfanuméricos)"
	}
	if p.Nombre == "" || !aprReNombre.MatchString(p.Nombre) {
		errs["nombre"] = "nombre requerido, solo letras"
	}
	if p.Apellido != "" && !aprReNombre.MatchString(p.Apellido) {
		errs["apellido"] = "apellido solo letras"
	}
	if p.Email != "" && !aprReEmail.MatchString(p.Email) {
		errs["email"] = "correo inválido"
	}
	if p.Telefono != "" && !aprReTel.MatchString(p.Telefono) {
		errs["telefono"] = "teléfono inválido"
	}
	if p.EstadoFormacion != "" && !models.EstadoValido(p.EstadoFormacion) {
		errs["estado_formacion"] = "estado de formación no reconocido"
	}
	for campo, v := range map[string]string{
		"fecha_inicio":         p.FechaInicio,
		"fecha_final":          p.FechaFinal,
		"fecha_fin_lectiva":    p.FechaFinLectiva,
		"fecha_fin_productiva": p.FechaFinProductiva,
	} {
		if v != "" {
			if _, err := time.Parse("2006-01-02", v); err != nil {
				errs[campo] = "fecha debe ser YYYY-MM-DD o vacía"
			}
		}
	}
	return errs
}

func parseFechaOpt(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// GET /aprendices?estado=&ficha=&q=&page=&size=
func (h *AprendizHandler) List(c echo.Context) error {
	estado := strings.TrimSpace(c.QueryParam("estado"))
	ficha := strings.TrimSpace(c.QueryParam("ficha"))
	q := strings.TrimSpace(c.QueryParam("q"))

	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 50)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}

	tx := database.DB.Model(&models.Aprendiz{}).Preload("Ficha")
	if estado != "" {
		tx = tx.Where("estado_formacion = ?", estado)
	}
	if ficha != "" {
		tx = tx.Where("ficha_numero = ?", ficha)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(documento) LIKE ? OR LOWER(nombre) LIKE ? OR LOWER(apellido) LIKE ?", like, like, like)
	}

	var total int64
	tx.Count(&total)

	var rows []models.Aprendiz
	if err := tx.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items": rows,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// GET /aprendices/:documento
func (h *AprendizHandler) Get(c echo.Context) error {
	var a models.Aprendiz
	err := database.DB.Preload("Ficha").Where("documento = ?", c.Param("documento")).First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, a)
}

// POST /aprendices
func (h *AprendizHandler) Create(c echo.Context) error {
	var p aprendizPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateAprendiz(&p); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}

	var dup models.Aprendiz
	if err := database.DB.Where("documento = ?", p.Documento).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "DOCUMENTO_DUPLICADO"})
	}

	a := models.Aprendiz{
		Documento:          p.Documento,
		Nombre:             p.Nombre,
		Apellido:           p.Apellido,
		EstadoFormacion:    p.EstadoFormacion,
		FechaInicio:        parseFechaOpt(p.FechaInicio),
		FechaFinal:         parseFechaOpt(p.FechaFinal),
		FechaFinLectiva:    parseFechaOpt(p.FechaFinLectiva),
		FechaFinProductiva: parseFechaOpt(p.FechaFinProductiva),
		Observaciones:      p.Observaciones,
	}
	if a.EstadoFormacion == "" {
		a.EstadoFormacion = models.EstadoEnFormacion
	}
	if p.Email != "" {
		a.Email = &p.Email
	}
	if p.Telefono != "" {
		a.Telefono = &p.Telefono
	}
	if p.FichaNumero != "" {
		a.FichaNumero = &p.FichaNumero
	}

	if err := database.DB.Create(&a).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, a)
}

// PUT /aprendices/:documento — el documento es inmutable, el resto se
// actualiza completo.
func (h *AprendizHandler) Update(c echo.Context) error {
	var a models.Aprendiz
	err := database.DB.Where("documento = ?", c.Param("documento")).First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var p aprendizPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.Documento = a.Documento
	p.normalize()
	if errs := validateAprendiz(&p); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
	}

	a.Nombre = p.Nombre
	a.Apellido = p.Apellido
	a.EstadoFormacion = p.EstadoFormacion
	if a.EstadoFormacion == "" {
		a.EstadoFormacion = models.EstadoEnFormacion
	}
	a.FechaInicio = parseFechaOpt(p.FechaInicio)
	a.FechaFinal = parseFechaOpt(p.FechaFinal)
	a.FechaFinLectiva = parseFechaOpt(p.FechaFinLectiva)
	a.FechaFinProductiva = parseFechaOpt(p.FechaFinProductiva)
	a.Observaciones = p.Observaciones
	a.Email, a.Telefono, a.FichaNumero = nil, nil, nil
	if p.Email != "" {
		a.Email = &p.Email
	}
	if p.Telefono != "" {
		a.Telefono = &p.Telefono
	}
	if p.FichaNumero != "" {
		a.FichaNumero = &p.FichaNumero
	}

	if err := database.DB.Save(&a).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, a)
}

// POST /aprendices/:documento/certificar
func (h *AprendizHandler) Certificar(c echo.Context) error {
	return h.cambiarEstado(c, models.EstadoCertificado)
}

// POST /aprendices/:documento/cancelar
func (h *AprendizHandler) Cancelar(c echo.Context) error {
	return h.cambiarEstado(c, models.EstadoCancelado)
}

// No hay borrado de aprendices: la salida del programa se modela con
// transiciones de estado.
func (h *AprendizHandler) cambiarEstado(c echo.Context, estado string) error {
	var a models.Aprendiz
	err := database.DB.Where("documento = ?", c.Param("documento")).First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if err := database.DB.Model(&a).Update("estado_formacion", estado).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	a.EstadoFormacion = estado
	return c.JSON(http.StatusOK, a)
}
