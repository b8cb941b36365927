// scripts/import_consolidado importa inasistencias y juicios evaluativos
// desde uno o varios Excel. Acepta ruta a archivo, carpeta con *.xls/*.xlsx
// o patrón glob.
//
//	import_consolidado [-sobrescribir] [-ficha NUMERO] RUTA
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/TatiTo-bot/Proyecto-sena-circular/config"
	"github.com/TatiTo-bot/Proyecto-sena-circular/database"
	"github.com/TatiTo-bot/Proyecto-sena-circular/importer"
)

func main() {
	sobrescribir := flag.Bool("sobrescribir", false, "update-or-create por llave natural en vez de solo agregar")
	ficha := flag.String("ficha", "", "número de ficha destino cuando el archivo no trae columna de ficha")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_consolidado [-sobrescribir] [-ficha NUMERO] RUTA")
		os.Exit(2)
	}
	path := flag.Arg(0)

	_ = godotenv.Load()
	cfg := config.Load()
	database.Connect(cfg)

	imp := importer.New(database.DB)
	rep, err := imp.Ingest(path, importer.Options{
		Sobrescribir: *sobrescribir,
		FichaDestino: *ficha,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, fr := range rep.Archivos {
		fmt.Printf("Procesando: %s\n", fr.Archivo)
		for ds, c := range fr.Datasets {
			fmt.Printf("  %s: %d creados, %d actualizados, %d omitidos\n", ds, c.Created, c.Updated, c.Skipped)
		}
		for _, e := range fr.Errores {
			fmt.Printf("  error: %s\n", e)
		}
	}
	fmt.Printf("Import completo. Total: %d creados, %d actualizados, %d omitidos\n",
		rep.Total.Created, rep.Total.Updated, rep.Total.Skipped)

	// Todos los archivos ilegibles = fallo del proceso.
	if rep.Fallidos() == len(rep.Archivos) {
		os.Exit(1)
	}
}
