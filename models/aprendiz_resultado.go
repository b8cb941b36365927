package models

import "time"

// Estados de un juicio evaluativo.
const (
	JuicioAprobado   = "APROBADO"
	JuicioNoAprobado = "NO_APROBADO"
	JuicioPendiente  = "PENDIENTE"
)

// AprendizResultado es el juicio de un aprendiz sobre un resultado de
// aprendizaje. Único por (aprendiz, resultado): re-importar actualiza el
// estado en vez de duplicar la fila.
type AprendizResultado struct {
	ID                uint                  `gorm:"primaryKey"                                          json:"id"`
	AprendizDocumento string                `gorm:"size:30;not null;uniqueIndex:idx_aprendiz_resultado" json:"aprendiz_documento"`
	ResultadoCodigo   string                `gorm:"size:50;not null;uniqueIndex:idx_aprendiz_resultado" json:"resultado_codigo"`
	Resultado         *ResultadoAprendizaje `gorm:"foreignKey:ResultadoCodigo;references:Codigo"        json:"resultado,omitempty"`
	Estado            string                `gorm:"size:30;not null;default:'PENDIENTE'"                json:"estado"`
	Fecha             *time.Time            `json:"fecha,omitempty"`
	Observacion       string                `gorm:"type:text"                                           json:"observacion"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
