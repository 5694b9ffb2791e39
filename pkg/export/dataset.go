package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/model"
)

const (
	ColumnStudentId      = "Student ID"
	ColumnName           = "Name"
	ColumnProgramme      = "Programme"
	ColumnHonoursYear    = "Hon. year"
	ColumnRequirements   = "Unmet programme requirements"
	ColumnPrerequisites  = "Missing prerequisites"
	ColumnNotRunning     = "Modules not running"
	ColumnClashes        = "Timetable clashes"
	ColumnRecommendation = "Adviser recommendations"
)

// ReportHeaders is the column order of every summary export.
var ReportHeaders = []string{
	ColumnStudentId,
	ColumnName,
	ColumnProgramme,
	ColumnHonoursYear,
	ColumnRequirements,
	ColumnPrerequisites,
	ColumnNotRunning,
	ColumnClashes,
	ColumnRecommendation,
}

// FindingColumns hold joined findings or "None".
var FindingColumns = []string{
	ColumnRequirements,
	ColumnPrerequisites,
	ColumnNotRunning,
	ColumnClashes,
}

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// FromReports lays out one row per report under ReportHeaders.
func FromReports(reports []model.Report) Dataset {
	return Dataset{
		Headers: ReportHeaders,
		Rows: lo.Map(reports, func(report model.Report, _ int) map[string]string {
			return map[string]string{
				ColumnStudentId:      strconv.FormatUint(report.StudentId, 10),
				ColumnName:           report.Name,
				ColumnProgramme:      report.Programme,
				ColumnHonoursYear:    strconv.Itoa(report.HonoursYear),
				ColumnRequirements:   report.UnmetRequirements,
				ColumnPrerequisites:  report.MissingPrerequisites,
				ColumnNotRunning:     report.ModulesNotRunning,
				ColumnClashes:        report.TimetableClashes,
				ColumnRecommendation: report.AdviserRecommendations,
			}
		}),
	}
}

// Renderer turns a dataset into file content.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	Extension() string
}

// RendererFor returns the renderer registered for a report format name.
func RendererFor(format, title string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return NewCSVExporter(), nil
	case "xlsx":
		return NewXLSXExporter(title), nil
	case "pdf":
		return NewPDFExporter(title), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

func isNone(value string) bool {
	return strings.TrimSpace(value) == "" || value == model.NoneSentinel
}
