package export

import (
	"encoding/csv"
	"io"
)

// BOM is the UTF-8 byte order mark. Excel on Windows needs it to read
// Bengali text in a CSV correctly.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes t as a BOM-prefixed CSV document.
func WriteCSV(w io.Writer, t *Table) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
