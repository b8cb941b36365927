package importer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/TatiTo-bot/Proyecto-sena-circular/models"
)

// Dataset es un tipo lógico de datos que puede traer un archivo. Un mismo
// archivo puede contener varios (formato mixto).
type Dataset string

const (
	DatasetInasistencias Dataset = "inasistencias"
	DatasetJuicios       Dataset = "juicios"
	DatasetAprendices    Dataset = "aprendices"
)

// Reglas de detección por palabras clave en los encabezados. Para sumar un
// tipo de archivo nuevo basta agregar una regla; no hay condicionales en
// cascada. El listado de aprendices no se autodetecta (sus encabezados son
// indistinguibles de los de juicios) y solo corre cuando se pide explícito.
type detectionRule struct {
	kind     Dataset
	keywords []string
}

var detectionRules = []detectionRule{
	{DatasetInasistencias, []string{
		"fecha", "inasistencia", "motivo", "justificada", "fecha inasistencia", "fecha_asistencia",
	}},
	{DatasetJuicios, []string{
		"resultado", "juicio", "juicio evaluativo", "estado", "aprobado", "no aprobado", "nota", "resultado_aprendizaje", "ra",
	}},
}

// DetectDatasets inspecciona encabezados en minúsculas y devuelve el conjunto
// de datasets presentes, en el orden de las reglas.
func DetectDatasets(headers []string) []Dataset {
	lower := make(map[string]bool, len(headers))
	for _, h := range headers {
		lower[strings.ToLower(strings.TrimSpace(h))] = true
	}
	var out []Dataset
	for _, rule := range detectionRules {
		for _, kw := range rule.keywords {
			if lower[kw] {
				out = append(out, rule.kind)
				break
			}
		}
	}
	return out
}

// Options controla una invocación de importación.
type Options struct {
	// Sobrescribir activa update-or-create por llave natural donde aplica
	// (inasistencias). Re-importar el mismo archivo queda idempotente.
	Sobrescribir bool
	// FichaDestino asigna una ficha fija cuando el archivo no trae columna
	// de ficha (flujo de carga "por ficha" de la web).
	FichaDestino string
	// ReportadoPor queda estampado en cada inasistencia creada. Se pasa
	// explícito; el importador no lee estado de sesión.
	ReportadoPor string
	// Datasets fuerza los tipos a procesar; vacío = autodetección.
	Datasets []Dataset
}

// FileReport es el resultado de un archivo del lote.
type FileReport struct {
	Archivo  string             `json:"archivo"`
	Datasets map[Dataset]Counts `json:"datasets,omitempty"`
	Errores  []string           `json:"errores,omitempty"`
}

func (fr *FileReport) OK() bool { return len(fr.Errores) == 0 }

// Report agrega los archivos procesados en una invocación.
type Report struct {
	Archivos []FileReport `json:"archivos"`
	Total    Counts       `json:"total"`
}

// Fallidos cuenta los archivos que no aportaron ningún dataset.
func (r *Report) Fallidos() int {
	n := 0
	for _, fr := range r.Archivos {
		if !fr.OK() && len(fr.Datasets) == 0 {
			n++
		}
	}
	return n
}

// Importer ejecuta importaciones contra una base. Es el único componente que
// escribe en el almacén; las escrituras de cada dataset van en una
// transacción propia.
type Importer struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Importer { return &Importer{DB: db} }

// Ingest acepta ruta a archivo, carpeta (*.xls, *.xlsx) o patrón glob y
// procesa cada archivo de forma independiente: un archivo ilegible se
// reporta y el lote continúa. Error solo cuando no hay archivos que procesar.
func (imp *Importer) Ingest(path string, opts Options) (*Report, error) {
	files, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no se encontró archivo(s) en: %s", path)
	}

	rep := &Report{}
	for _, fp := range files {
		fr := imp.IngestFile(fp, opts)
		rep.Archivos = append(rep.Archivos, fr)
		for _, c := range fr.Datasets {
			rep.Total.Add(c)
		}
	}
	return rep, nil
}

// IngestFile procesa un solo archivo. Errores de lectura quedan en el
// reporte, nunca tumban el lote.
func (imp *Importer) IngestFile(path string, opts Options) FileReport {
	t, err := ReadTable(path)
	if err != nil {
		log.Printf("[import] error leyendo %s: %v", path, err)
		return FileReport{Archivo: filepath.Base(path), Errores: []string{err.Error()}}
	}
	return imp.IngestTable(t, opts)
}

// IngestTable corre los datasets detectados (o forzados) sobre una tabla ya
// leída. Cada dataset va en su propia transacción: o entran todas sus filas
// o ninguna. Un dataset fallido no afecta a los demás.
func (imp *Importer) IngestTable(t *Table, opts Options) FileReport {
	datasets := opts.Datasets
	if len(datasets) == 0 {
		datasets = DetectDatasets(t.Headers)
	}

	fr := FileReport{
		Archivo:  filepath.Base(t.Source),
		Datasets: make(map[Dataset]Counts, len(datasets)),
	}
	if len(datasets) == 0 {
		fr.Errores = append(fr.Errores, "formato no reconocido: sin columnas de inasistencias ni de juicios")
		return fr
	}

	for _, ds := range datasets {
		var counts Counts
		err := imp.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			switch ds {
			case DatasetInasistencias:
				counts, err = processInasistencias(tx, t, opts)
			case DatasetJuicios:
				counts, err = processJuicios(tx, t, opts)
			case DatasetAprendices:
				counts, err = processAprendices(tx, t, opts)
			default:
				err = fmt.Errorf("dataset desconocido: %s", ds)
			}
			return err
		})
		if err != nil {
			log.Printf("[import] %s: dataset %s revertido: %v", fr.Archivo, ds, err)
			fr.Errores = append(fr.Errores, fmt.Sprintf("%s: %v", ds, err))
			continue
		}
		fr.Datasets[ds] = counts
	}
	return fr
}

// processInasistencias recorre las filas como registro de ausencias.
// Filas sin documento, sin ficha o con fecha ilegible se omiten; la fecha
// ilegible omite solo la inasistencia, el aprendiz y la ficha ya quedaron
// creados para esa fila.
func processInasistencias(tx *gorm.DB, t *Table, opts Options) (Counts, error) {
	colDoc, _ := ResolveColumn(t.Headers, ColsDocumento)
	colFicha, _ := ResolveColumn(t.Headers, ColsFicha)
	colFecha, _ := ResolveColumn(t.Headers, ColsFecha)
	colMotivo, _ := ResolveColumn(t.Headers, ColsMotivo)
	colJust, _ := ResolveColumn(t.Headers, ColsJustif)

	var c Counts
	for _, row := range t.Rows {
		doc := t.Cell(row, colDoc)
		if doc == "" {
			c.Skipped++
			continue
		}
		fichaNum := t.Cell(row, colFicha)
		if fichaNum == "" {
			fichaNum = opts.FichaDestino
		}
		if fichaNum == "" {
			c.Skipped++
			continue
		}

		if _, _, err := getOrCreateFicha(tx, fichaNum); err != nil {
			return c, err
		}
		if _, _, err := getOrCreateAprendiz(tx, doc, "", fichaNum); err != nil {
			return c, err
		}

		fecha := ParseFecha(t.Cell(row, colFecha))
		if fecha == nil {
			c.Skipped++
			continue
		}

		in := &models.Inasistencia{
			AprendizDocumento: doc,
			FichaNumero:       fichaNum,
			Fecha:             fechaDia(*fecha),
			Justificada:       ParseJustificada(t.Cell(row, colJust)),
			Motivo:            truncate(t.Cell(row, colMotivo), 1000),
			ReportadoPor:      opts.ReportadoPor,
		}
		if opts.Sobrescribir {
			created, err := upsertInasistencia(tx, in)
			if err != nil {
				return c, err
			}
			if created {
				c.Created++
			} else {
				c.Updated++
			}
		} else {
			if err := createInasistencia(tx, in); err != nil {
				return c, err
			}
			c.Created++
		}
	}
	return c, nil
}

// processJuicios recorre las filas como juicios evaluativos. Un juicio sin
// código de resultado pero con competencia y estado queda anotado en las
// observaciones del aprendiz, como hace el consolidado.
func processJuicios(tx *gorm.DB, t *Table, opts Options) (Counts, error) {
	colDoc, _ := ResolveColumn(t.Headers, ColsDocumento)
	colNombre, _ := ResolveColumn(t.Headers, ColsNombre)
	colComp, _ := ResolveColumn(t.Headers, ColsCompetencia)
	colRA, _ := ResolveColumn(t.Headers, ColsResultado)
	colEstado, _ := ResolveColumn(t.Headers, ColsEstado)

	if opts.FichaDestino != "" {
		if _, _, err := getOrCreateFicha(tx, opts.FichaDestino); err != nil {
			return Counts{}, err
		}
	}

	var c Counts
	for _, row := range t.Rows {
		doc := t.Cell(row, colDoc)
		if doc == "" {
			c.Skipped++
			continue
		}

		aprendiz, _, err := getOrCreateAprendiz(tx, doc, t.Cell(row, colNombre), opts.FichaDestino)
		if err != nil {
			return c, err
		}

		compCode := t.Cell(row, colComp)
		raCode := t.Cell(row, colRA)
		estadoRaw := t.Cell(row, colEstado)

		if raCode != "" {
			var compCodigo *string
			if compCode != "" {
				if _, _, err := getOrCreateCompetencia(tx, compCode); err != nil {
					return c, err
				}
				compCodigo = &compCode
			}
			if _, _, err := getOrCreateResultado(tx, raCode, compCodigo); err != nil {
				return c, err
			}
			created, err := upsertAprendizResultado(tx, doc, raCode, NormalizeJuicio(estadoRaw))
			if err != nil {
				return c, err
			}
			if created {
				c.Created++
			} else {
				c.Updated++
			}
			continue
		}

		if compCode != "" && estadoRaw != "" {
			if _, _, err := getOrCreateCompetencia(tx, compCode); err != nil {
				return c, err
			}
			if err := appendObservacion(tx, aprendiz, fmt.Sprintf("Comp %s: %s", compCode, estadoRaw)); err != nil {
				return c, err
			}
			c.Created++
			continue
		}

		c.Skipped++
	}
	return c, nil
}

// processAprendices recorre las filas como listado de matrícula. El listado
// siempre corre en modo sobrescribir: es la fuente de verdad de los datos
// personales y del estado de formación.
func processAprendices(tx *gorm.DB, t *Table, opts Options) (Counts, error) {
	colDoc, _ := ResolveColumn(t.Headers, ColsDocumento)
	colNombre, _ := ResolveColumn(t.Headers, ColsNombre)
	colApellido, _ := ResolveColumn(t.Headers, ColsApellido)
	colEmail, _ := ResolveColumn(t.Headers, ColsEmail)
	colTel, _ := ResolveColumn(t.Headers, ColsTelefono)
	colEstado, _ := ResolveColumn(t.Headers, ColsEstadoAprend)

	if opts.FichaDestino != "" {
		if _, _, err := getOrCreateFicha(tx, opts.FichaDestino); err != nil {
			return Counts{}, err
		}
	}

	var c Counts
	for _, row := range t.Rows {
		doc := t.Cell(row, colDoc)
		if doc == "" {
			c.Skipped++
			continue
		}

		nombre := t.Cell(row, colNombre)
		if nombre == "" {
			nombre = NombreDesconocido
		}
		in := &models.Aprendiz{
			Documento:       doc,
			Nombre:          nombre,
			Apellido:        t.Cell(row, colApellido),
			EstadoFormacion: NormalizeEstadoFormacion(t.Cell(row, colEstado)),
		}
		if v := t.Cell(row, colEmail); v != "" {
			in.Email = &v
		}
		if v := t.Cell(row, colTel); v != "" {
			in.Telefono = &v
		}
		if opts.FichaDestino != "" {
			ficha := opts.FichaDestino
			in.FichaNumero = &ficha
		}

		created, err := upsertAprendiz(tx, in)
		if err != nil {
			return c, err
		}
		if created {
			c.Created++
		} else {
			c.Updated++
		}
	}
	return c, nil
}

// ExpandPath resuelve el argumento de entrada a una lista de archivos:
// carpeta → *.xls y *.xlsx dentro; patrón con * o ? → glob; otro → el
// archivo mismo si existe.
func ExpandPath(path string) ([]string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		xls, _ := filepath.Glob(filepath.Join(path, "*.xls"))
		xlsx, _ := filepath.Glob(filepath.Join(path, "*.xlsx"))
		files := append(xls, xlsx...)
		sort.Strings(files)
		return files, nil
	}
	if strings.ContainsAny(path, "*?") {
		return filepath.Glob(path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return []string{path}, nil
}
