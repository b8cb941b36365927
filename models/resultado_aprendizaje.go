package models

// ResultadoAprendizaje es un resultado evaluable dentro de una competencia.
// CompetenciaCodigo queda en NULL mientras no se conozca la competencia dueña.
type ResultadoAprendizaje struct {
	Codigo            string       `gorm:"primaryKey;size:50"                              json:"codigo"`
	Nombre            string       `gorm:"size:200;not null"                               json:"nombre"`
	Descripcion       string       `gorm:"type:text"                                       json:"descripcion"`
	CompetenciaCodigo *string      `gorm:"size:50;index"                                   json:"competencia_codigo,omitempty"`
	Competencia       *Competencia `gorm:"foreignKey:CompetenciaCodigo;references:Codigo"  json:"competencia,omitempty"`
}
