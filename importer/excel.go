package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table es la vista plana de la primera hoja de un archivo: encabezados más
// filas de texto. Todo valor llega como cadena; los normalizadores deciden
// qué es fecha, booleano o enum.
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string

	index map[string]int // encabezado en minúsculas -> columna (primera aparición)
}

// ReadTable abre un .xlsx y devuelve su primera hoja como Table.
// Los .xls binarios y los archivos corruptos fallan aquí; el pipeline los
// reporta por archivo y sigue con el resto del lote.
func ReadTable(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abriendo %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: sin hojas", path)
	}
	// RawCellValue: una celda con formato de fecha llega como su serial
	// numérico y no como texto formateado ("3/1/24"); ParseFecha entiende
	// el serial, el texto formateado no tiene layout de año corto.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leyendo %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: hoja vacía", path)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return NewTable(path, headers, rows[1:]), nil
}

// NewTable arma una Table ya parseada; lo usan las pruebas y ReadTable.
func NewTable(source string, headers []string, rows [][]string) *Table {
	t := &Table{Source: source, Headers: headers, Rows: rows}
	t.index = make(map[string]int, len(headers))
	for i, h := range headers {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, dup := t.index[k]; !dup {
			t.index[k] = i
		}
	}
	return t
}

// Cell devuelve la celda de la fila para el encabezado dado, recortada.
// Encabezado inexistente o fila corta responden cadena vacía, que los
// normalizadores tratan como valor ausente.
func (t *Table) Cell(row []string, header string) string {
	if header == "" {
		return ""
	}
	i, ok := t.index[strings.ToLower(strings.TrimSpace(header))]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
