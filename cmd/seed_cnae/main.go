// seed_cnae genera el script SQL que puebla la tabla cnaes (subclases CNAE 2.3)
// a partir del CSV oficial del IBGE/CONCLA, codificado en ISO-8859-1 y separado por ';'.
//
// Uso: go run ./cmd/seed_cnae [ruta/cnae_subclasses.csv]
// Por defecto busca cnae_subclasses.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_cnaes.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/topmei-api/pkg/docbr"
)

const batchSize = 500

type cnae struct {
	codigo    string
	descricao string
}

func main() {
	csvPath := "cnae_subclasses.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	list, err := readCNAEs(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_cnaes.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Subclasses CNAE 2.3 (IBGE/CONCLA)\n")
	out.WriteString("-- Generado por cmd/seed_cnae\n\n")
	for start := 0; start < len(list); start += batchSize {
		end := min(start+batchSize, len(list))
		out.WriteString("INSERT INTO cnaes (codigo, descricao) VALUES\n")
		for i, c := range list[start:end] {
			sep := ","
			if start+i == end-1 {
				sep = ""
			}
			fmt.Fprintf(out, "  ('%s', '%s')%s\n", c.codigo, escapeSQL(c.descricao), sep)
		}
		out.WriteString("ON CONFLICT (codigo) DO UPDATE SET descricao = EXCLUDED.descricao;\n\n")
	}

	fmt.Printf("Generado %s: %d subclasses\n", outPath, len(list))
}

// readCNAEs lee filas "codigo;descricao". El código se normaliza a 7 dígitos;
// cabeceras y filas de sección/divisão (sin 7 dígitos) se descartan.
func readCNAEs(r io.Reader) ([]cnae, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	seen := make(map[string]string)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			continue
		}
		code := docbr.Normalize(rec[0])
		desc := strings.TrimSpace(rec[len(rec)-1])
		if len(code) != 7 || desc == "" {
			continue
		}
		seen[code] = desc
	}

	list := make([]cnae, 0, len(seen))
	for code, desc := range seen {
		list = append(list, cnae{codigo: code, descricao: desc})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].codigo < list[j].codigo })
	return list, nil
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
