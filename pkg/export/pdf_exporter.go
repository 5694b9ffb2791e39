package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

type rgb struct {
	r, g, b int
}

var (
	textRed    = rgb{200, 0, 0}
	textGreen  = rgb{0, 128, 0}
	textOrange = rgb{230, 120, 0}
	textBlack  = rgb{0, 0, 0}
)

// PDFExporter renders one section per student: identity first, then each finding column as a labelled paragraph.
type PDFExporter struct {
	title string
}

func NewPDFExporter(title string) *PDFExporter {
	return &PDFExporter{title: title}
}

func (e *PDFExporter) Extension() string {
	return ".pdf"
}

func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if e.title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, translate(e.title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	for _, row := range data.Rows {
		pdf.SetTextColor(textBlack.r, textBlack.g, textBlack.b)
		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(0, 6, translate(studentHeading(data.Headers, row)), "", "L", false)

		for _, header := range data.Headers {
			color, ok := paragraphColor(header, row[header])
			if !ok {
				continue
			}
			pdf.SetTextColor(textBlack.r, textBlack.g, textBlack.b)
			pdf.SetFont("Arial", "B", 10)
			pdf.MultiCell(0, 5, translate(header+":"), "", "L", false)

			pdf.SetTextColor(color.r, color.g, color.b)
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, translate(row[header]), "", "L", false)
		}
		pdf.Ln(6)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// studentHeading joins the identity columns, e.g. "210000001 Ada Lovelace, BSc Mathematics, Year 2".
func studentHeading(headers []string, row map[string]string) string {
	parts := make([]string, 0, 3)
	if name := strings.TrimSpace(row[ColumnStudentId] + " " + row[ColumnName]); name != "" {
		parts = append(parts, name)
	}
	if programme := row[ColumnProgramme]; programme != "" {
		parts = append(parts, programme)
	}
	if year := row[ColumnHonoursYear]; year != "" {
		parts = append(parts, "Year "+year)
	}
	if len(parts) == 0 && len(headers) > 0 {
		return row[headers[0]]
	}
	return strings.Join(parts, ", ")
}

// paragraphColor reports the text color of a finding paragraph. Identity columns are not paragraphs.
func paragraphColor(header, value string) (rgb, bool) {
	switch header {
	case ColumnStudentId, ColumnName, ColumnProgramme, ColumnHonoursYear:
		return rgb{}, false
	case ColumnRecommendation:
		if isNone(value) {
			return textBlack, true
		}
		return textOrange, true
	}
	if isNone(value) {
		return textGreen, true
	}
	return textRed, true
}
