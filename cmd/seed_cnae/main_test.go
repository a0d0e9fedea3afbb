package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestReadCNAEs_Latin1(t *testing.T) {
	raw := "Subclasse;Denominação\n" +
		"A;AGRICULTURA, PECUÁRIA\n" +
		"6201-5/01;Desenvolvimento de programas de computador sob encomenda\n" +
		"0111-3/01;Cultivo de arroz\n" +
		"9602-5/01;Cabeleireiros, manicure e pedicure\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(raw)
	require.NoError(t, err)

	list, err := readCNAEs(transform.NewReader(bytes.NewBufferString(latin1), charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "0111301", list[0].codigo)
	assert.Equal(t, "6201501", list[1].codigo)
	assert.Equal(t, "Cabeleireiros, manicure e pedicure", list[2].descricao)
}

func TestEscapeSQL(t *testing.T) {
	assert.Equal(t, "d''água", escapeSQL("d'água"))
}
