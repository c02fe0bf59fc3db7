package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Point{
		{Label: "2024-01-01", Price: 42000.1234},
		{Label: "2024-01-02", Price: 0.0001},
	}))
	assert.Equal(t, "label,price\n2024-01-01,42000.1234\n2024-01-02,0.0001\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "label,price\n", buf.String())
}
