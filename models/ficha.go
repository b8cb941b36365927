package models

import "time"

// Ficha es un grupo de aprendices que cursa un programa con el mismo calendario.
type Ficha struct {
	Numero      string     `gorm:"primaryKey;size:50"  json:"numero"`
	Programa    string     `gorm:"size:200"            json:"programa"`
	Instructor  string     `gorm:"size:200"            json:"instructor"`
	FechaInicio *time.Time `json:"fecha_inicio,omitempty"`
	FechaFin    *time.Time `json:"fecha_fin,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
