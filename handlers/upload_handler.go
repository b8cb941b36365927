package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/importer"
	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

// UploadHandler recibe archivos Excel y los entrega al motor de importación.
// El handler solo valida y persiste el archivo temporal; toda la
// interpretación vive en el paquete importer.
type UploadHandler struct {
	cfg *config.Config
}

func NewUploadHandler(cfg *config.Config) *UploadHandler { return &UploadHandler{cfg: cfg} }

// POST /upload  (multipart: archivo, sobrescribir, tipo)
// Importación global: el archivo debe traer columna de ficha.
func (h *UploadHandler) Upload(c echo.Context) error {
	return h.process(c, "")
}

// POST /fichas/:numero/upload — importación dirigida a una ficha existente.
func (h *UploadHandler) UploadFicha(c echo.Context) error {
	numero := c.Param("numero")
	var f models.Ficha
	if err := database.DB.Where("numero = ?", numero).First(&f).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "FICHA_NO_EXISTE"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return h.process(c, f.Numero)
}

func (h *UploadHandler) process(c echo.Context, fichaDestino string) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "ARCHIVO_REQUERIDO"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".xls" && ext != ".xlsx" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "SOLO_XLS_XLSX"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	defer src.Close()

	tmpDir := filepath.Join(h.cfg.UploadDir, "temp_uploads")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	tmpPath := filepath.Join(tmpDir, filepath.Base(fh.Filename))
	dst, err := os.Create(tmpPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	dst.Close()
	defer os.Remove(tmpPath)

	reportadoPor, _ := c.Get("name").(string)
	opts := importer.Options{
		Sobrescribir: parseBoolForm(c.FormValue("sobrescribir")),
		FichaDestino: fichaDestino,
		ReportadoPor: reportadoPor,
	}
	// tipo fuerza un dataset; "mixto" o vacío dejan la autodetección.
	switch strings.ToLower(strings.TrimSpace(c.FormValue("tipo"))) {
	case "inasistencias":
		opts.Datasets = []importer.Dataset{importer.DatasetInasistencias}
	case "juicios":
		opts.Datasets = []importer.Dataset{importer.DatasetJuicios}
	case "aprendices":
		opts.Datasets = []importer.Dataset{importer.DatasetAprendices}
	}

	rep, err := importer.New(database.DB).Ingest(tmpPath, opts)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	fr := rep.Archivos[0]
	status := http.StatusOK
	if !fr.OK() && len(fr.Datasets) == 0 {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, map[string]any{
		"archivo":  fr.Archivo,
		"datasets": fr.Datasets,
		"errores":  fr.Errores,
		"total":    rep.Total,
	})
}

func parseBoolForm(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "si", "sí", "on":
		return true
	}
	return false
}
