package report

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes the document as CSV.
//
// The title row and every table are separated by an empty line.
// Tables are preceded by their title if they have one.
func WriteCSV(w io.Writer, doc Document) error {
	writer := csv.NewWriter(w)

	if doc.Title != "" {
		row := []string{doc.Title}
		if doc.Subtitle != "" {
			row = append(row, doc.Subtitle)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	for i, table := range doc.Tables {
		if doc.Title != "" || i > 0 {
			if err := writer.Write(nil); err != nil {
				return err
			}
		}

		if table.Title != "" {
			if err := writer.Write([]string{table.Title}); err != nil {
				return err
			}
		}

		if err := writer.Write(table.Header); err != nil {
			return err
		}

		for _, row := range table.Rows {
			record := make([]string, 0, len(row))
			for _, cell := range row {
				record = append(record, text(cell))
			}

			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
