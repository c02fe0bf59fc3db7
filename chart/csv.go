package chart

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes points as label,price rows under a header.
func WriteCSV(w io.Writer, points []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"label", "price"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{p.Label, strconv.FormatFloat(p.Price, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
