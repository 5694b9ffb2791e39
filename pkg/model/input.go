package model

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var (
	academicYearPattern = regexp.MustCompile(`^\d{4}/\d{4}$`)
	// Spreadsheet exports wrap codes as ="MT3501" to stop them being read as numbers
	excelFormulaPattern = regexp.MustCompile(`^="(.*)"$`)

	recordValidator = newRecordValidator()
)

func newRecordValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("academicyear", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if !academicYearPattern.MatchString(value) {
			return false
		}
		_, err := ParseAcademicYear(value)
		return err == nil
	})
	_ = validate.RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		switch Semester(fl.Field().String()) {
		case SemesterOne, SemesterTwo, FullYear:
			return true
		}
		return false
	})
	return validate
}

// CleanCell strips spreadsheet formula wrapping and surrounding blanks from a raw cell.
func CleanCell(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if match := excelFormulaPattern.FindStringSubmatch(trimmed); match != nil {
		return strings.TrimSpace(match[1])
	}
	return trimmed
}

// DecodeRecord turns one raw row keyed by column header into a validated record.
// Empty cells are dropped first so that optional numeric columns stay nil.
func DecodeRecord(raw map[string]any) (EnrollmentRecord, error) {
	cleaned := make(map[string]any, len(raw))
	for key, value := range raw {
		if text, ok := value.(string); ok {
			text = CleanCell(text)
			if text == "" {
				continue
			}
			value = text
		}
		if value == nil {
			continue
		}
		cleaned[strings.TrimSpace(key)] = value
	}

	var record EnrollmentRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &record,
	})
	if err != nil {
		return EnrollmentRecord{}, err
	}
	if err := decoder.Decode(cleaned); err != nil {
		return EnrollmentRecord{}, fmt.Errorf("cannot decode enrollment record: %v", err)
	}

	if err := recordValidator.Struct(record); err != nil {
		return EnrollmentRecord{}, fmt.Errorf("invalid enrollment record for module %q: %v", record.ModuleCode, err)
	}
	return record, nil
}

// DecodeRecords decodes every row, returning the valid records and one error per rejected row.
func DecodeRecords(rows []map[string]any) ([]EnrollmentRecord, []error) {
	records := make([]EnrollmentRecord, 0, len(rows))
	errs := make([]error, 0)
	for i, row := range rows {
		record, err := DecodeRecord(row)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %v", i+1, err))
			continue
		}
		records = append(records, record)
	}
	return records, errs
}

// RecordsFromJson reads a JSON array of rows keyed by column header.
func RecordsFromJson(file string) ([]EnrollmentRecord, []error, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(bytes, &rows); err != nil {
		return nil, nil, err
	}

	records, errs := DecodeRecords(rows)
	return records, errs, nil
}

// EnrollmentSource groups records by student across several data sets.
type EnrollmentSource interface {
	// Returns the rows of the student from the first data set that knows them
	Records(studentId uint64) ([]EnrollmentRecord, bool)

	// Returns every student id in first-seen order
	StudentIds() []uint64
}

type enrollmentSourceStandard struct {
	dataSets   []map[uint64][]EnrollmentRecord
	studentIds []uint64
}

func NewEnrollmentSource(dataSets ...[]EnrollmentRecord) EnrollmentSource {
	source := &enrollmentSourceStandard{
		dataSets: make([]map[uint64][]EnrollmentRecord, 0, len(dataSets)),
	}
	for _, records := range dataSets {
		source.dataSets = append(source.dataSets, lo.GroupBy(records, func(record EnrollmentRecord) uint64 {
			return record.StudentId
		}))
		source.studentIds = append(source.studentIds, lo.Map(records, func(record EnrollmentRecord, _ int) uint64 {
			return record.StudentId
		})...)
	}
	source.studentIds = lo.Uniq(source.studentIds)
	return source
}

func (source *enrollmentSourceStandard) Records(studentId uint64) ([]EnrollmentRecord, bool) {
	for _, dataSet := range source.dataSets {
		if records, ok := dataSet[studentId]; ok {
			return records, true
		}
	}
	return nil, false
}

func (source *enrollmentSourceStandard) StudentIds() []uint64 {
	return source.studentIds
}
