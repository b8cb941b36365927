// Package circular implementa la clasificación de vencimientos de la
// Circular 120: cuántos días lleva vencido un aprendiz y con qué nivel de
// urgencia debe tratarlo el comité.
package circular

import (
	"time"

	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

// Niveles de alerta usados en tableros y reportes.
const (
	AlertaNinguna  = "success"
	AlertaModerada = "warning"
	AlertaUrgente  = "danger"
)

// Umbrales define los cortes de días vencidos para cada nivel. Las dos
// versiones históricas del tablero no coincidían en los cortes, así que
// vienen de configuración en vez de estar quemados.
type Umbrales struct {
	ModeradoDias int
	UrgenteDias  int
}

// UmbralesPorDefecto son los cortes de la vista de casos vencidos (30/60).
var UmbralesPorDefecto = Umbrales{ModeradoDias: 30, UrgenteDias: 60}

// DiasVencido calcula los días de atraso de un aprendiz a la fecha hoy.
//
// En ETAPA_PRODUCTIVA manda la fecha fin de etapa productiva. En cualquier
// otro estado distinto de CERTIFICADO manda la fecha fin de la ficha.
// Sin fechas vencidas devuelve 0.
func DiasVencido(a *models.Aprendiz, hoy time.Time) int {
	h := dia(hoy)
	if a.EstadoFormacion == models.EstadoEtapaProductiva && a.FechaFinProductiva != nil {
		if fin := dia(*a.FechaFinProductiva); fin.Before(h) {
			return dias(h.Sub(fin))
		}
		return 0
	}
	if a.Ficha != nil && a.Ficha.FechaFin != nil && a.EstadoFormacion != models.EstadoCertificado {
		if fin := dia(*a.Ficha.FechaFin); fin.Before(h) {
			return dias(h.Sub(fin))
		}
	}
	return 0
}

// EstaVencido reporta si el aprendiz tiene algún día de atraso.
func EstaVencido(a *models.Aprendiz, hoy time.Time) bool {
	return DiasVencido(a, hoy) > 0
}

// NivelAlerta mapea días vencidos a nivel de alerta según los umbrales.
func NivelAlerta(diasVencido int, u Umbrales) string {
	switch {
	case diasVencido == 0:
		return AlertaNinguna
	case diasVencido <= u.ModeradoDias:
		return AlertaModerada
	}
	return AlertaUrgente
}

// Vencidos agrupa aprendices vencidos por urgencia para el reporte de comité.
type Vencidos struct {
	Urgentes  []models.Aprendiz `json:"urgentes"`  // > UrgenteDias
	Moderados []models.Aprendiz `json:"moderados"` // > ModeradoDias
	Recientes []models.Aprendiz `json:"recientes"` // el resto de vencidos
}

func (v *Vencidos) Total() int {
	return len(v.Urgentes) + len(v.Moderados) + len(v.Recientes)
}

// ClasificarVencidos reparte los aprendices con días vencidos en los tres
// grupos del reporte. Aprendices al día no aparecen en ningún grupo.
func ClasificarVencidos(aprendices []models.Aprendiz, hoy time.Time, u Umbrales) Vencidos {
	var v Vencidos
	for _, a := range aprendices {
		d := DiasVencido(&a, hoy)
		switch {
		case d == 0:
		case d > u.UrgenteDias:
			v.Urgentes = append(v.Urgentes, a)
		case d > u.ModeradoDias:
			v.Moderados = append(v.Moderados, a)
		default:
			v.Recientes = append(v.Recientes, a)
		}
	}
	return v
}

func dia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dias(d time.Duration) int {
	return int(d.Hours() / 24)
}
