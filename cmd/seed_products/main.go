// seed_products genera un script SQL con el catálogo inicial de productos a partir de un CSV
// exportado desde Excel (separador ';', codificación ISO-8859-1).
//
// Uso: go run ./cmd/seed_products [-utf8] [ruta/catalogue.csv]
// Por defecto lee catalogue.csv del directorio actual.
// Escribe: internal/infrastructure/postgres/seeds/products.sql
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	utf8 := flag.Bool("utf8", false, "el CSV ya está en UTF-8")
	flag.Parse()

	csvPath := "catalogue.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	items, err := parseCatalogue(f, !*utf8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	outDir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	outPath := filepath.Join(outDir, "products.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, items); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	var units int64
	for _, it := range items {
		units += it.Quantity
	}
	fmt.Printf("Generado %s: %d productos, %d unidades de apertura\n", outPath, len(items), units)
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
