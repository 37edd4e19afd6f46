package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalogue_Latin1(t *testing.T) {
	// "Câble" en ISO-8859-1: â = 0xE2
	raw := []byte("sku;nom;quantite;seuil_alerte\nCAB-01;C\xe2ble RJ45;1 200;50\nVIS-10;Vis inox;;\n")
	items, err := parseCatalogue(bytes.NewReader(raw), true)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Câble RJ45", items[0].Name)
	assert.Equal(t, int64(1200), items[0].Quantity)
	require.NotNil(t, items[0].Threshold)
	assert.Equal(t, int64(50), *items[0].Threshold)

	assert.Zero(t, items[1].Quantity)
	assert.Nil(t, items[1].Threshold)
}

func TestParseCatalogue_Errores(t *testing.T) {
	_, err := parseCatalogue(strings.NewReader("sku;nom;quantite\nA;x;-3\n"), false)
	assert.Error(t, err)

	_, err = parseCatalogue(strings.NewReader("sku;nom\nA;x\nA;y\n"), false)
	assert.ErrorContains(t, err, "repetido")
}

func TestWriteSQL_AperturaSoloConStock(t *testing.T) {
	var buf bytes.Buffer
	items := []item{{SKU: "A'1", Name: "L'outil", Quantity: 4}, {SKU: "B", Name: "Vide"}}
	require.NoError(t, writeSQL(&buf, items))
	sql := buf.String()

	assert.Contains(t, sql, "'A''1', 'L''outil', 4, NULL")
	assert.Equal(t, 2, strings.Count(sql, "WHERE p.quantite > 0"))
	assert.Contains(t, sql, items[0].productID())
	assert.Equal(t, items[0].productID(), item{SKU: "A'1"}.productID(), "id estable por SKU")
}
