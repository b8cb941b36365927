package models

import "time"

// Estados de formación según Circular 120.
const (
	EstadoEnFormacion     = "EN_FORMACION"
	EstadoEtapaProductiva = "ETAPA_PRODUCTIVA"
	EstadoPorCertificar   = "POR_CERTIFICAR"
	EstadoCertificado     = "CERTIFICADO"
	EstadoCancelado       = "CANCELADO"
	EstadoDesertado       = "DESERTADO"
	EstadoAplazado        = "APLAZADO"
	EstadoReingresado     = "REINGRESADO"
)

// EstadosFormacion lista los valores válidos de estado_formacion.
var EstadosFormacion = []string{
	EstadoEnFormacion, EstadoEtapaProductiva, EstadoPorCertificar,
	EstadoCertificado, EstadoCancelado, EstadoDesertado,
	EstadoAplazado, EstadoReingresado,
}

type Aprendiz struct {
	Documento       string  `gorm:"primaryKey;size:30"                        json:"documento"`
	Nombre          string  `gorm:"size:150;not null"                         json:"nombre"`
	Apellido        string  `gorm:"size:150"                                  json:"apellido"`
	Email           *string `gorm:"size:150"                                  json:"email,omitempty"`
	Telefono        *string `gorm:"size:30"                                   json:"telefono,omitempty"`
	EstadoFormacion string  `gorm:"size:30;not null;default:'EN_FORMACION'"   json:"estado_formacion"`

	// Fechas clave para Circular 120
	FechaInicio        *time.Time `json:"fecha_inicio,omitempty"`
	FechaFinal         *time.Time `json:"fecha_final,omitempty"`
	FechaFinLectiva    *time.Time `json:"fecha_fin_lectiva,omitempty"`
	FechaFinProductiva *time.Time `json:"fecha_fin_productiva,omitempty"`

	FichaNumero   *string `gorm:"size:50;index"                               json:"ficha_numero,omitempty"`
	Ficha         *Ficha  `gorm:"foreignKey:FichaNumero;references:Numero"    json:"ficha,omitempty"`
	Observaciones string  `gorm:"type:text"                                   json:"observaciones"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EstadoValido reporta si s es uno de los estados de formación conocidos.
func EstadoValido(s string) bool {
	for _, e := range EstadosFormacion {
		if e == s {
			return true
		}
	}
	return false
}
