package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/middlewares"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

// Base en memoria con nombre propio por prueba, compartida entre las
// conexiones del pool. Sustituye el DB global mientras dura la prueba.
func setupDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AlertaModeradaDias: 30,
		AlertaUrgenteDias:  60,
		UploadDir:          t.TempDir(),
	}
}

func jsonRequest(method, target string, payload any) *http.Request {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ===== Auth =====

func seedUser(t *testing.T, username, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Name:         "Usuario " + username,
	}).Error)
}

func TestLogin(t *testing.T) {
	setupDB(t)
	cfg := testConfig(t)
	seedUser(t, "coord", "clave123", "coordinador")

	e := echo.New()
	h := NewAuthHandler(cfg)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login",
		map[string]string{"username": "coord", "password": "clave123"}), rec)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "coordinador", body["role"])

	// El token emitido pasa la validación del middleware.
	token, ok := body["token"].(string)
	require.True(t, ok)
	var claims middlewares.Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "coordinador", claims.Role)
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	setupDB(t)
	cfg := testConfig(t)
	seedUser(t, "coord", "clave123", "coordinador")

	e := echo.New()
	h := NewAuthHandler(cfg)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login",
		map[string]string{"username": "coord", "password": "otra"}), rec)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/auth/login",
		map[string]string{"username": "nadie", "password": "x"}), rec)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthYRol(t *testing.T) {
	e := echo.New()
	secret := "s3cr3t"

	claims := middlewares.Claims{
		Sub: 1, Role: "instructor", Name: "Pepe",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	// Token válido pasa y deja los claims en contexto.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, middlewares.RequireAuth(secret)(func(c echo.Context) error {
		assert.Equal(t, "instructor", c.Get("role"))
		assert.Equal(t, "Pepe", c.Get("name"))
		return next(c)
	})(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Sin encabezado → 401.
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	err = middlewares.RequireAuth(secret)(next)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	// Rol no permitido → 403.
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("role", "instructor")
	err = middlewares.RequireRole("coordinador")(next)(c)
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)

	// Rol permitido pasa.
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set("role", "coordinador")
	require.NoError(t, middlewares.RequireRole("instructor", "coordinador")(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ===== Aprendices =====

func TestAprendizCreate(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAprendizHandler()

	payload := map[string]any{
		"documento":        "1001001001",
		"nombre":           "Ana María",
		"apellido":         "Rojas",
		"email":            "ana@ejemplo.co",
		"estado_formacion": "EN_FORMACION",
		"fecha_inicio":     "2023-01-15",
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/aprendices", payload), rec)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var a models.Aprendiz
	require.NoError(t, database.DB.Where("documento = ?", "1001001001").First(&a).Error)
	assert.Equal(t, "Ana María", a.Nombre)
	require.NotNil(t, a.FechaInicio)

	// Documento repetido → 409.
	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/aprendices", payload), rec)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAprendizCreateInvalido(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAprendizHandler()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/aprendices", map[string]any{
		"documento":        "x",
		"nombre":           "Ana123",
		"email":            "no-es-correo",
		"estado_formacion": "GRADUADO",
		"fecha_inicio":     "15/01/2023",
	}), rec)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	for _, campo := range []string{"documento", "nombre", "email", "estado_formacion", "fecha_inicio"} {
		assert.Contains(t, errs, campo)
	}
}

func TestAprendizListFiltros(t *testing.T) {
	setupDB(t)
	ficha := "F001"
	require.NoError(t, database.DB.Create(&models.Ficha{Numero: ficha}).Error)
	require.NoError(t, database.DB.Create(&models.Aprendiz{
		Documento: "1", Nombre: "Ana", EstadoFormacion: models.EstadoEnFormacion, FichaNumero: &ficha,
	}).Error)
	require.NoError(t, database.DB.Create(&models.Aprendiz{
		Documento: "2", Nombre: "Luis", EstadoFormacion: models.EstadoCertificado,
	}).Error)

	e := echo.New()
	h := NewAprendizHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/aprendices?estado=EN_FORMACION", nil)
	require.NoError(t, h.List(e.NewContext(req, rec)))
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["total"])

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/aprendices?q=lui", nil)
	require.NoError(t, h.List(e.NewContext(req, rec)))
	body = decodeBody(t, rec)
	assert.EqualValues(t, 1, body["total"])
}

func TestAprendizCertificar(t *testing.T) {
	setupDB(t)
	require.NoError(t, database.DB.Create(&models.Aprendiz{
		Documento: "77", Nombre: "Rosa", EstadoFormacion: models.EstadoPorCertificar,
	}).Error)

	e := echo.New()
	h := NewAprendizHandler()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.SetParamNames("documento")
	c.SetParamValues("77")
	require.NoError(t, h.Certificar(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var a models.Aprendiz
	require.NoError(t, database.DB.Where("documento = ?", "77").First(&a).Error)
	assert.Equal(t, models.EstadoCertificado, a.EstadoFormacion)

	// No existe → 404.
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.SetParamNames("documento")
	c.SetParamValues("no-existe")
	require.NoError(t, h.Certificar(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInasistenciaListRangoFechas(t *testing.T) {
	setupDB(t)
	ficha := "F1"
	require.NoError(t, database.DB.Create(&models.Ficha{Numero: ficha}).Error)
	require.NoError(t, database.DB.Create(&models.Aprendiz{
		Documento: "1", Nombre: "Ana", EstadoFormacion: models.EstadoEnFormacion, FichaNumero: &ficha,
	}).Error)
	for _, d := range []string{"2024-03-01", "2024-03-10", "2024-03-20"} {
		fecha, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		require.NoError(t, database.DB.Create(&models.Inasistencia{
			AprendizDocumento: "1", FichaNumero: ficha, Fecha: fecha,
		}).Error)
	}

	e := echo.New()
	h := NewInasistenciaHandler()
	totalPara := func(query string) any {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/inasistencias?"+query, nil)
		require.NoError(t, h.List(e.NewContext(req, rec)))
		return decodeBody(t, rec)["total"]
	}

	// Cada cota aplica por sí sola, no solo cuando vienen las dos.
	assert.EqualValues(t, 2, totalPara("desde=2024-03-05"))
	assert.EqualValues(t, 2, totalPara("hasta=2024-03-15"))
	assert.EqualValues(t, 1, totalPara("desde=2024-03-05&hasta=2024-03-15"))
	assert.EqualValues(t, 3, totalPara(""))
}

// ===== Upload =====

func xlsxBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("archivo", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadInasistencias(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewUploadHandler(testConfig(t))

	content := xlsxBytes(t, [][]any{
		{"documento", "ficha", "fecha", "motivo"},
		{"12345", "F001", "2024-03-01", "Enfermedad"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(multipartUpload(t, "consolidado.xlsx", content, nil), rec)
	c.Set("name", "Coordinación")
	require.NoError(t, h.Upload(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var n int64
	database.DB.Model(&models.Inasistencia{}).Count(&n)
	assert.EqualValues(t, 1, n)

	var in models.Inasistencia
	require.NoError(t, database.DB.First(&in).Error)
	assert.Equal(t, "Coordinación", in.ReportadoPor)
}

func TestUploadFichaDestino(t *testing.T) {
	setupDB(t)
	require.NoError(t, database.DB.Create(&models.Ficha{Numero: "F777"}).Error)

	e := echo.New()
	h := NewUploadHandler(testConfig(t))

	content := xlsxBytes(t, [][]any{
		{"documento", "nombres", "apellidos"},
		{"111", "Ana", "Rojas"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(multipartUpload(t, "listado.xlsx", content, map[string]string{"tipo": "aprendices"}), rec)
	c.SetParamNames("numero")
	c.SetParamValues("F777")
	require.NoError(t, h.UploadFicha(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var a models.Aprendiz
	require.NoError(t, database.DB.Where("documento = ?", "111").First(&a).Error)
	require.NotNil(t, a.FichaNumero)
	assert.Equal(t, "F777", *a.FichaNumero)
}

func TestUploadFichaNoExiste(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewUploadHandler(testConfig(t))

	rec := httptest.NewRecorder()
	c := e.NewContext(multipartUpload(t, "x.xlsx", xlsxBytes(t, [][]any{{"documento"}}), nil), rec)
	c.SetParamNames("numero")
	c.SetParamValues("F404")
	require.NoError(t, h.UploadFicha(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadValidaciones(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewUploadHandler(testConfig(t))

	// Extensión no permitida.
	rec := httptest.NewRecorder()
	c := e.NewContext(multipartUpload(t, "datos.csv", []byte("a,b"), nil), rec)
	require.NoError(t, h.Upload(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Sin archivo.
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Upload(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Columnas irreconocibles → 422 con el detalle.
	content := xlsxBytes(t, [][]any{{"col1", "col2"}, {"a", "b"}})
	rec = httptest.NewRecorder()
	require.NoError(t, h.Upload(e.NewContext(multipartUpload(t, "raro.xlsx", content, nil), rec)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ===== Recordatorio instructor =====

func TestRecordatorioInstructorValidaciones(t *testing.T) {
	setupDB(t)
	fin := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, database.DB.Create(&models.Ficha{
		Numero: "F9", Instructor: "María", FechaFin: &fin,
	}).Error)

	e := echo.New()
	h := NewNotificacionHandler(testConfig(t)) // sin SMTP configurado

	// Email inválido → 400.
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", map[string]string{"email": "no-es-correo"}), rec)
	c.SetParamNames("numero")
	c.SetParamValues("F9")
	require.NoError(t, h.RecordatorioInstructor(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Ficha inexistente → 404.
	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/", map[string]string{"email": "m@x.co"}), rec)
	c.SetParamNames("numero")
	c.SetParamValues("F404")
	require.NoError(t, h.RecordatorioInstructor(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// SMTP sin configurar → 502 (el aviso mismo se prueba en notifications).
	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/", map[string]string{"email": "m@x.co"}), rec)
	c.SetParamNames("numero")
	c.SetParamValues("F9")
	require.NoError(t, h.RecordatorioInstructor(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// ===== Dashboard =====

func TestDashboardResumen(t *testing.T) {
	setupDB(t)
	hoy := time.Now().UTC()
	vencida := hoy.AddDate(0, 0, -45)
	vigente := hoy.AddDate(0, 0, 30)

	require.NoError(t, database.DB.Create(&models.Ficha{Numero: "F1", FechaFin: &vencida}).Error)
	require.NoError(t, database.DB.Create(&models.Ficha{Numero: "F2", FechaFin: &vigente}).Error)

	f1, f2 := "F1", "F2"
	aprendices := []models.Aprendiz{
		{Documento: "1", Nombre: "A", EstadoFormacion: models.EstadoPorCertificar, FichaNumero: &f2},
		{Documento: "2", Nombre: "B", EstadoFormacion: models.EstadoEtapaProductiva, FechaFinProductiva: &vencida},
		{Documento: "3", Nombre: "C", EstadoFormacion: models.EstadoEnFormacion, FichaNumero: &f1},
		{Documento: "4", Nombre: "D", EstadoFormacion: models.EstadoCertificado, FichaNumero: &f1},
	}
	for i := range aprendices {
		require.NoError(t, database.DB.Create(&aprendices[i]).Error)
	}

	e := echo.New()
	h := NewDashboardHandler(testConfig(t))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), rec)
	require.NoError(t, h.Resumen(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 4, body["total_aprendices"])
	assert.EqualValues(t, 2, body["total_fichas"])
	assert.EqualValues(t, 1, body["por_certificar"])
	assert.EqualValues(t, 1, body["productiva_vencida"])
	// F1 venció: el aprendiz en formación cuenta, el certificado no.
	assert.EqualValues(t, 1, body["ficha_vencida"])
	// Vencidos hace más de 30 días: el de productiva y el de la ficha F1.
	assert.EqualValues(t, 2, body["casos_urgentes"])
}
