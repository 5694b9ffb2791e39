package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column names used by some exports for the canonical headers
var headerAliases = map[string]string{
	"Credits available": "Credits",
	"Academic year":     "Year",
	"Module Code":       "Module code",
	"Student Id":        "Student ID",
}

// readTable reads the first sheet of an .xlsx file or a .csv file into one map per data row, keyed by header.
func readTable(path string) ([]map[string]any, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCsv(path)
	case ".xlsx", ".xltx":
		rows, err = readXlsx(path)
	default:
		return nil, fmt.Errorf("unsupported table format %q", path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table %v has no header row", path)
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		if canonical, ok := headerAliases[name]; ok {
			name = canonical
		}
		header[i] = name
	}

	table := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		entry := make(map[string]any, len(header))
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			entry[name] = row[i]
		}
		table = append(table, entry)
	}
	return table, nil
}

func readCsv(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %v: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read csv %v: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXlsx(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %v: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet of %v: %w", path, err)
	}
	return rows, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
