// seed_catalog genera un script SQL para poblar el catálogo de artículos a
// partir de un CSV exportado de sistemas legados (típicamente en ISO-8859-1,
// separado por punto y coma: codigo;nombre;descripcion;unidad;categoria).
//
// Uso: go run ./cmd/seed_catalog [ruta/articulos.csv]
// Por defecto busca articulos.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/010_seed_catalog.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type articulo struct {
	codigo      string
	nombre      string
	descripcion string
	unidad      string
	categoria   string
}

func main() {
	csvPath := "articulos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Los exports legados vienen en ISO-8859-1; si el archivo ya es UTF-8
	// válido la transformación igual lo deja pasar carácter a carácter.
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	seen := make(map[string]bool)
	catSet := make(map[string]bool)
	var items []articulo
	for i, rec := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue // cabecera
		}
		if len(rec) < 4 {
			continue
		}
		a := articulo{
			codigo: strings.TrimSpace(rec[0]),
			nombre: strings.TrimSpace(rec[1]),
			unidad: strings.TrimSpace(rec[3]),
		}
		if len(rec) > 2 {
			a.descripcion = strings.TrimSpace(rec[2])
		}
		if len(rec) > 4 {
			a.categoria = strings.TrimSpace(rec[4])
		}
		if a.codigo == "" || a.nombre == "" || a.unidad == "" || !utf8.ValidString(a.nombre) {
			continue
		}
		if seen[a.codigo] {
			continue
		}
		seen[a.codigo] = true
		if a.categoria != "" {
			catSet[a.categoria] = true
		}
		items = append(items, a)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].codigo < items[j].codigo })
	var categories []string
	for c := range catSet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "010_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de artículos importado del sistema legado\n")
	out.WriteString("-- Generado desde " + filepath.Base(csvPath) + "\n\n")

	if len(categories) > 0 {
		out.WriteString("-- 1. Categorías\n")
		for _, c := range categories {
			fmt.Fprintf(out, "INSERT INTO categories (id, name)\nVALUES (gen_random_uuid(), '%s')\nON CONFLICT (name) DO NOTHING;\n", escapeSQL(c))
		}
		out.WriteString("\n")
	}

	out.WriteString("-- 2. Artículos\n")
	for _, a := range items {
		fmt.Fprintf(out, "INSERT INTO items (id, code, name, description, unit_of_measure, category_id)\n")
		fmt.Fprintf(out, "SELECT gen_random_uuid(), '%s', '%s', '%s', '%s', (SELECT id FROM categories WHERE name = '%s')\n",
			escapeSQL(a.codigo), escapeSQL(a.nombre), escapeSQL(a.descripcion), escapeSQL(a.unidad), escapeSQL(a.categoria))
		out.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description;\n")
	}

	fmt.Printf("Generado %s: %d categorías, %d artículos\n", outPath, len(categories), len(items))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
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
