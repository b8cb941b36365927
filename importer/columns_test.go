package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumnCaseInsensitive(t *testing.T) {
	headers := []string{"DOCUMENTO", "Ficha", "fecha"}

	h, ok := ResolveColumn(headers, ColsDocumento)
	assert.True(t, ok)
	assert.Equal(t, "DOCUMENTO", h)

	h, ok = ResolveColumn(headers, ColsFicha)
	assert.True(t, ok)
	assert.Equal(t, "Ficha", h)
}

func TestResolveColumnFirstCandidateWins(t *testing.T) {
	// "cedula" y "documento" están presentes; gana el primer alias de la
	// lista con coincidencia, no el primer encabezado del archivo.
	headers := []string{"cedula", "documento"}
	h, ok := ResolveColumn(headers, ColsDocumento)
	assert.True(t, ok)
	assert.Equal(t, "documento", h)
}

func TestResolveColumnNotFound(t *testing.T) {
	_, ok := ResolveColumn([]string{"a", "b"}, ColsDocumento)
	assert.False(t, ok)

	_, ok = ResolveColumn(nil, ColsDocumento)
	assert.False(t, ok)

	_, ok = ResolveColumn([]string{"documento"}, nil)
	assert.False(t, ok)
}

func TestResolveColumnDuplicatesAndAccents(t *testing.T) {
	// Duplicados no revientan: se toma la primera aparición.
	h, ok := ResolveColumn([]string{"Documento", "documento"}, ColsDocumento)
	assert.True(t, ok)
	assert.Equal(t, "Documento", h)

	// Alias acentuado del consolidado real.
	h, ok = ResolveColumn([]string{"IDENTIFICACIÓN"}, ColsDocumento)
	assert.True(t, ok)
	assert.Equal(t, "IDENTIFICACIÓN", h)
}

func TestCellMissingHeader(t *testing.T) {
	tbl := NewTable("x", []string{"documento"}, [][]string{{"123"}})
	assert.Equal(t, "123", tbl.Cell(tbl.Rows[0], "documento"))
	assert.Equal(t, "", tbl.Cell(tbl.Rows[0], "no_existe"))
	assert.Equal(t, "", tbl.Cell(tbl.Rows[0], ""))

	// Fila más corta que los encabezados.
	tbl = NewTable("x", []string{"a", "b"}, [][]string{{"1"}})
	assert.Equal(t, "", tbl.Cell(tbl.Rows[0], "b"))
}
