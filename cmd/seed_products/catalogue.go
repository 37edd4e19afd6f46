package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedActorID usuario técnico que firma los movimientos de stock inicial.
const seedActorID = "system-seed"

// item línea del catálogo: sku;nom;quantite;seuil_alerte
type item struct {
	SKU       string
	Name      string
	Quantity  int64
	Threshold *int64
}

// productID es determinista por SKU: re-ejecutar el script no duplica productos.
func (it item) productID() string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("product:"+it.SKU)).String()
}

func (it item) openingMovementID() string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("opening:"+it.SKU)).String()
}

// parseCatalogue lee el CSV exportado por Excel (separador ';', ISO-8859-1 si latin1).
// La primera línea es cabecera. Cantidades vacías cuentan como 0; umbral vacío = sin umbral.
func parseCatalogue(r io.Reader, latin1 bool) ([]item, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var (
		items []item
		seen  = map[string]int{}
		line  int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line++
		if line == 1 {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan al menos sku;nom", line)
		}
		it := item{SKU: strings.TrimSpace(rec[0]), Name: strings.TrimSpace(rec[1])}
		if it.SKU == "" || it.Name == "" {
			continue
		}
		if prev, ok := seen[it.SKU]; ok {
			return nil, fmt.Errorf("línea %d: SKU %s repetido (línea %d)", line, it.SKU, prev)
		}
		seen[it.SKU] = line
		if len(rec) > 2 {
			q, err := parseCount(rec[2])
			if err != nil {
				return nil, fmt.Errorf("línea %d: quantite: %w", line, err)
			}
			if q != nil {
				it.Quantity = *q
			}
		}
		if len(rec) > 3 {
			t, err := parseCount(rec[3])
			if err != nil {
				return nil, fmt.Errorf("línea %d: seuil_alerte: %w", line, err)
			}
			it.Threshold = t
		}
		items = append(items, it)
	}
	return items, nil
}

func parseCount(s string) (*int64, error) {
	// Excel separa miles con espacio o espacio duro
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q no es un entero", s)
	}
	if n < 0 {
		return nil, fmt.Errorf("%d negativo", n)
	}
	return &n, nil
}

// writeSQL genera el script. Cada producto nuevo entra con su movimiento ENTREE de apertura
// en la misma sentencia, así quantite coincide siempre con el ledger.
func writeSQL(w io.Writer, items []item) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos con stock de apertura\n\n")
	fmt.Fprintf(&b, "INSERT INTO users (id, name) VALUES ('%s', 'Import catalogue') ON CONFLICT (id) DO NOTHING;\n\n", seedActorID)
	for _, it := range items {
		threshold := "NULL"
		if it.Threshold != nil {
			threshold = strconv.FormatInt(*it.Threshold, 10)
		}
		fmt.Fprintf(&b, "WITH p AS (\n")
		fmt.Fprintf(&b, "  INSERT INTO products (id, sku, name, quantite, seuil_alerte)\n")
		fmt.Fprintf(&b, "  VALUES ('%s', '%s', '%s', %d, %s)\n", it.productID(), escapeSQL(it.SKU), escapeSQL(it.Name), it.Quantity, threshold)
		b.WriteString("  ON CONFLICT (sku) DO NOTHING\n")
		b.WriteString("  RETURNING id, quantite\n)\n")
		b.WriteString("INSERT INTO stock_movements (id, type, product_id, quantity, actor_id, comment)\n")
		fmt.Fprintf(&b, "SELECT '%s', 'ENTREE', p.id, p.quantite, '%s', 'Stock initial' FROM p WHERE p.quantite > 0;\n\n", it.openingMovementID(), seedActorID)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
