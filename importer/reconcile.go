package importer

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

// Counts acumula el resultado fila a fila de una pasada de importación.
type Counts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

func (c *Counts) Add(o Counts) {
	c.Created += o.Created
	c.Updated += o.Updated
	c.Skipped += o.Skipped
}

// NombreDesconocido es el nombre provisional de un aprendiz creado por
// referencia (aparece en un archivo antes de tener ficha de matrícula).
const NombreDesconocido = "Desconocido"

// getOrCreateAprendiz busca por documento y crea con los valores provistos si
// no existe. Un aprendiz existente no se modifica, salvo asignarle ficha
// cuando aún no tiene una.
func getOrCreateAprendiz(tx *gorm.DB, documento, nombre string, fichaNumero string) (*models.Aprendiz, bool, error) {
	var a models.Aprendiz
	err := tx.Where("documento = ?", documento).First(&a).Error
	if err == nil {
		if a.FichaNumero == nil && fichaNumero != "" {
			a.FichaNumero = &fichaNumero
			if err := tx.Model(&a).Update("ficha_numero", fichaNumero).Error; err != nil {
				return nil, false, err
			}
		}
		return &a, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if nombre == "" {
		nombre = NombreDesconocido
	}
	a = models.Aprendiz{
		Documento:       documento,
		Nombre:          nombre,
		EstadoFormacion: models.EstadoEnFormacion,
	}
	if fichaNumero != "" {
		a.FichaNumero = &fichaNumero
	}
	if err := tx.Create(&a).Error; err != nil {
		return nil, false, err
	}
	return &a, true, nil
}

// upsertAprendiz es el modo sobrescribir del listado de aprendices: siempre
// escribe todos los campos provistos (update-or-create por documento).
func upsertAprendiz(tx *gorm.DB, in *models.Aprendiz) (bool, error) {
	var a models.Aprendiz
	err := tx.Where("documento = ?", in.Documento).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, tx.Create(in).Error
	}
	if err != nil {
		return false, err
	}
	updates := map[string]any{
		"nombre":           in.Nombre,
		"apellido":         in.Apellido,
		"email":            in.Email,
		"telefono":         in.Telefono,
		"estado_formacion": in.EstadoFormacion,
	}
	if in.FichaNumero != nil {
		updates["ficha_numero"] = *in.FichaNumero
	}
	return false, tx.Model(&a).Updates(updates).Error
}

func getOrCreateFicha(tx *gorm.DB, numero string) (*models.Ficha, bool, error) {
	var f models.Ficha
	err := tx.Where("numero = ?", numero).First(&f).Error
	if err == nil {
		return &f, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	f = models.Ficha{Numero: numero}
	if err := tx.Create(&f).Error; err != nil {
		return nil, false, err
	}
	return &f, true, nil
}

func getOrCreateCompetencia(tx *gorm.DB, codigo string) (*models.Competencia, bool, error) {
	var c models.Competencia
	err := tx.Where("codigo = ?", codigo).First(&c).Error
	if err == nil {
		return &c, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	c = models.Competencia{Codigo: codigo, Nombre: codigo}
	if err := tx.Create(&c).Error; err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

func getOrCreateResultado(tx *gorm.DB, codigo string, competenciaCodigo *string) (*models.ResultadoAprendizaje, bool, error) {
	var ra models.ResultadoAprendizaje
	err := tx.Where("codigo = ?", codigo).First(&ra).Error
	if err == nil {
		return &ra, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	ra = models.ResultadoAprendizaje{
		Codigo:            codigo,
		Nombre:            codigo,
		CompetenciaCodigo: competenciaCodigo,
	}
	if err := tx.Create(&ra).Error; err != nil {
		return nil, false, err
	}
	return &ra, true, nil
}

// upsertAprendizResultado crea o actualiza el juicio por la llave
// (aprendiz, resultado). El estado siempre se refresca: una re-importación
// refleja la evaluación más reciente.
func upsertAprendizResultado(tx *gorm.DB, documento, resultadoCodigo, estado string) (bool, error) {
	var ar models.AprendizResultado
	err := tx.Where("aprendiz_documento = ? AND resultado_codigo = ?", documento, resultadoCodigo).First(&ar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ar = models.AprendizResultado{
			AprendizDocumento: documento,
			ResultadoCodigo:   resultadoCodigo,
			Estado:            estado,
		}
		return true, tx.Create(&ar).Error
	}
	if err != nil {
		return false, err
	}
	return false, tx.Model(&ar).Update("estado", estado).Error
}

// createInasistencia agrega siempre una fila nueva (flujo normal).
func createInasistencia(tx *gorm.DB, in *models.Inasistencia) error {
	return tx.Create(in).Error
}

// upsertInasistencia aplica la llave natural (aprendiz, ficha, fecha) en modo
// sobrescribir: la segunda importación del mismo día actualiza en vez de
// duplicar.
func upsertInasistencia(tx *gorm.DB, in *models.Inasistencia) (bool, error) {
	var existing models.Inasistencia
	err := tx.Where(
		"aprendiz_documento = ? AND ficha_numero = ? AND fecha = ?",
		in.AprendizDocumento, in.FichaNumero, in.Fecha,
	).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, tx.Create(in).Error
	}
	if err != nil {
		return false, err
	}
	return false, tx.Model(&existing).Updates(map[string]any{
		"justificada":   in.Justificada,
		"motivo":        in.Motivo,
		"reportado_por": in.ReportadoPor,
	}).Error
}

// appendObservacion anota texto libre en el aprendiz (juicios sin código RA).
func appendObservacion(tx *gorm.DB, a *models.Aprendiz, nota string) error {
	obs := a.Observaciones
	if obs != "" {
		obs += "\n"
	}
	obs += nota
	a.Observaciones = obs
	return tx.Model(a).Update("observaciones", obs).Error
}

// fechaDia recorta un instante a su día en UTC, para comparar llaves naturales.
func fechaDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
