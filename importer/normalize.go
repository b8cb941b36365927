package importer

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

// Formatos de fecha aceptados en celdas de texto. Solo formatos no ambiguos:
// ISO y día/mes/año (formato local de los reportes).
var fechaLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseFecha normaliza una celda a fecha (medianoche UTC) o nil.
// Acepta celdas vacías, texto en los formatos de fechaLayouts y seriales
// numéricos de Excel. Nunca falla: lo que no se entiende queda en nil y el
// llamador decide omitir la fila.
func ParseFecha(cell string) *time.Time {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	// Serial de Excel: días desde 1899-12-30.
	if n, err := strconv.ParseFloat(s, 64); err == nil && n > serialFechaMin && n < serialFechaMax {
		d := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(n))
		return &d
	}
	return nil
}

// Rango de seriales que se aceptan como fecha, aproximadamente 1954 a 2077.
// Un número fuera del rango es casi seguro un documento de identidad o un
// código, no una fecha.
const (
	serialFechaMin = 20000
	serialFechaMax = 65000
)

// ParseJustificada interpreta el campo "justificada" de una inasistencia.
// Cualquier cosa fuera de la lista (incluido vacío) cuenta como no justificada.
func ParseJustificada(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "si", "sí", "yes", "true", "1", "justificada":
		return true
	}
	return false
}

// NormalizeJuicio clasifica el texto libre de un juicio evaluativo.
//
// Precedencia: primero las frases de rechazo explícitas ("no aprob",
// "no apto", "rechaz"), luego las de aprobación, y por último un "no"
// suelto. El consolidado histórico evaluaba la aprobación primero, con lo
// cual "no aprobado" quedaba como APROBADO por contener "aprob"; aquí se
// corrige ese orden y las pruebas fijan el comportamiento nuevo.
func NormalizeJuicio(cell string) string {
	e := strings.ToLower(strings.TrimSpace(cell))
	if e == "" {
		return models.JuicioPendiente
	}
	switch {
	case strings.Contains(e, "no aprob"), strings.Contains(e, "no apto"), strings.Contains(e, "rechaz"):
		return models.JuicioNoAprobado
	case strings.Contains(e, "aprob"), strings.Contains(e, "apto"), strings.Contains(e, "satisfactorio"):
		return models.JuicioAprobado
	case strings.Contains(e, "no"):
		return models.JuicioNoAprobado
	}
	return models.JuicioPendiente
}

// Variantes de texto libre que llegan en listados de aprendices.
var estadoFormacionMap = map[string]string{
	"en formacion":      models.EstadoEnFormacion,
	"en formación":      models.EstadoEnFormacion,
	"formacion":         models.EstadoEnFormacion,
	"productiva":        models.EstadoEtapaProductiva,
	"etapa productiva":  models.EstadoEtapaProductiva,
	"por certificar":    models.EstadoPorCertificar,
	"certificado":       models.EstadoCertificado,
	"cancelado":         models.EstadoCancelado,
	"desertado":         models.EstadoDesertado,
	"retiro voluntario": models.EstadoDesertado,
	"aplazado":          models.EstadoAplazado,
	"reingresado":       models.EstadoReingresado,
}

// NormalizeEstadoFormacion lleva el estado de un listado al valor canónico.
// Si no se reconoce y tampoco es un valor canónico, se asume EN_FORMACION.
func NormalizeEstadoFormacion(cell string) string {
	s := strings.TrimSpace(cell)
	if s == "" {
		return models.EstadoEnFormacion
	}
	if v, ok := estadoFormacionMap[strings.ToLower(s)]; ok {
		return v
	}
	up := strings.ToUpper(strings.ReplaceAll(s, " ", "_"))
	if models.EstadoValido(up) {
		return up
	}
	return models.EstadoEnFormacion
}

// truncate limita motivos/observaciones a un largo acotado, sin partir runas.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
