package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/model"
)

// utf8Bom makes spreadsheet applications open the report as UTF-8.
var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes the advising summary for spreadsheet users: BOM prefixed, CRLF line
// endings, and "None" in every empty finding cell.
type CSVExporter struct {
	findingColumns map[string]bool
}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{
		findingColumns: lo.SliceToMap(append(append([]string{}, FindingColumns...), ColumnRecommendation), func(column string) (string, bool) {
			return column, true
		}),
	}
}

func (e *CSVExporter) Extension() string {
	return ".csv"
}

// Render writes one line per report. Findings joined with newlines stay in one quoted cell.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := bytes.NewBuffer(append([]byte{}, utf8Bom...))
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := lo.Map(data.Headers, func(header string, _ int) string {
			if e.findingColumns[header] && isNone(row[header]) {
				return model.NoneSentinel
			}
			return row[header]
		})
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row for student %v: %w", row[ColumnStudentId], err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
