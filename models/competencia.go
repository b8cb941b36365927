package models

type Competencia struct {
	Codigo        string `gorm:"primaryKey;size:50" json:"codigo"`
	Nombre        string `gorm:"size:200;not null"  json:"nombre"`
	Descripcion   string `gorm:"type:text"          json:"descripcion"`
	DuracionHoras *int   `json:"duracion_horas,omitempty"`
}
