package models

import "time"

// ActaComite documenta una decisión de comité sobre una ficha.
type ActaComite struct {
	ID          uint      `gorm:"primaryKey"     json:"id"`
	FichaNumero *string   `gorm:"size:50;index"  json:"ficha_numero,omitempty"`
	Fecha       time.Time `gorm:"not null"       json:"fecha"`
	Contenido   string    `gorm:"type:text;not null" json:"contenido"`
	ArchivoPDF  string    `gorm:"size:255"       json:"archivo_pdf,omitempty"`
	CreadoPor   string    `gorm:"size:150"       json:"creado_por"`

	CreatedAt time.Time `json:"created_at"`
}
