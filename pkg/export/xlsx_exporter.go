package export

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

const (
	colorNone           = "#98FB98"
	colorFinding        = "#F08080"
	colorRecommendation = "#FFA500"
	summarySheet        = "Summary"
)

var columnWidths = map[string]float64{
	ColumnStudentId:   12,
	ColumnName:        22,
	ColumnProgramme:   35,
	ColumnHonoursYear: 8,
}

const findingColumnWidth = 40

// XLSXExporter renders the summary workbook, one student per row. Finding cells are green when empty and red otherwise.
type XLSXExporter struct {
	title string
}

func NewXLSXExporter(title string) *XLSXExporter {
	return &XLSXExporter{title: title}
}

func (e *XLSXExporter) Extension() string {
	return ".xlsx"
}

func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	//** Title and header
	row := 1
	if e.title != "" {
		if err := f.SetCellValue(summarySheet, "A1", e.title); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(summarySheet, "A1", "A1", styles.header); err != nil {
			return nil, err
		}
		row = 3
	}
	for i, header := range data.Headers {
		column, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", column, row)
		if err := f.SetCellValue(summarySheet, cell, header); err != nil {
			return nil, err
		}
		width, ok := columnWidths[header]
		if !ok {
			width = findingColumnWidth
		}
		if err := f.SetColWidth(summarySheet, column, column, width); err != nil {
			return nil, err
		}
	}
	lastColumn, _ := excelize.ColumnNumberToName(len(data.Headers))
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastColumn, row), styles.header); err != nil {
		return nil, err
	}

	//** Rows
	for _, values := range data.Rows {
		row++
		for i, header := range data.Headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			value := strings.ReplaceAll(values[header], "\n", "; ")
			if err := f.SetCellValue(summarySheet, cell, value); err != nil {
				return nil, err
			}
			if style, ok := styles.forCell(header, value); ok {
				if err := f.SetCellStyle(summarySheet, cell, cell, style); err != nil {
					return nil, err
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	header         int
	none           int
	finding        int
	recommendation int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var styles sheetStyles
	var err error

	styles.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("create header style: %w", err)
	}

	fill := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		})
	}
	if styles.none, err = fill(colorNone); err != nil {
		return sheetStyles{}, fmt.Errorf("create style: %w", err)
	}
	if styles.finding, err = fill(colorFinding); err != nil {
		return sheetStyles{}, fmt.Errorf("create style: %w", err)
	}
	if styles.recommendation, err = fill(colorRecommendation); err != nil {
		return sheetStyles{}, fmt.Errorf("create style: %w", err)
	}
	return styles, nil
}

// forCell picks the fill of a finding or recommendation cell. Identity columns stay unstyled.
func (styles sheetStyles) forCell(header, value string) (int, bool) {
	switch {
	case header == ColumnRecommendation:
		if isNone(value) {
			return 0, false
		}
		return styles.recommendation, true
	case lo.Contains(FindingColumns, header):
		if isNone(value) {
			return styles.none, true
		}
		return styles.finding, true
	}
	return 0, false
}

