package models

import "time"

// Inasistencia registra un día de ausencia de un aprendiz dentro de una ficha.
// La llave natural (aprendiz, ficha, fecha) solo se aplica en modo sobrescribir;
// el flujo normal permite varias filas para el mismo día.
type Inasistencia struct {
	ID                uint      `gorm:"primaryKey"                          json:"id"`
	AprendizDocumento string    `gorm:"size:30;not null;index"              json:"aprendiz_documento"`
	FichaNumero       string    `gorm:"size:50;not null;index"              json:"ficha_numero"`
	Fecha             time.Time `gorm:"not null;index"                      json:"fecha"`
	Justificada       bool      `gorm:"not null;default:false"              json:"justificada"`
	Motivo            string    `gorm:"type:text"                           json:"motivo"`
	ReportadoPor      string    `gorm:"size:200"                            json:"reportado_por"`

	CreatedAt time.Time `json:"created_at"`
}
