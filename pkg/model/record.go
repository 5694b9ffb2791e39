package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Assessment result codes as exported by the student records system
const (
	ResultPass        = "P"
	ResultFail        = "F"
	ResultZCoded      = "Z"
	ResultDeferred    = "D"
	ResultSpecial     = "S"
	ResultSpecialPass = "SP"
	ResultVoid        = "V"
)

type Semester string

const (
	SemesterOne Semester = "S1"
	SemesterTwo Semester = "S2"
	FullYear    Semester = "Full Year"
)

// EnrollmentRecord is one module attempt of one student. An empty AssessmentResult means the module is planned.
type EnrollmentRecord struct {
	StudentId          uint64   `mapstructure:"Student ID" validate:"required"`
	GivenNames         string   `mapstructure:"Given names"`
	FamilyName         string   `mapstructure:"Family name"`
	Email              string   `mapstructure:"Email" validate:"omitempty,email"`
	ProgrammeName      string   `mapstructure:"Programme name"`
	ModuleCode         string   `mapstructure:"Module code" validate:"required"`
	AcademicYear       string   `mapstructure:"Year" validate:"required,academicyear"`
	Semester           Semester `mapstructure:"Semester" validate:"omitempty,semester"`
	AssessmentResult   string   `mapstructure:"Assessment result"`
	AssessmentGrade    *float64 `mapstructure:"Assessment grade" validate:"omitempty,gte=0,lte=20"`
	ReassessmentResult string   `mapstructure:"Reassessment result"`
	Credits            *float64 `mapstructure:"Credits" validate:"omitempty,gte=0"`
}

func (record EnrollmentRecord) Planned() bool {
	return record.AssessmentResult == ""
}

// Assessed reports whether the row counts as evidence of study in its academic year.
func (record EnrollmentRecord) Assessed() bool {
	return record.AssessmentResult != "" && record.AssessmentResult != ResultVoid
}

func (record EnrollmentRecord) Reassessed() bool {
	return record.ReassessmentResult != ""
}

// StartYear returns the first calendar year of the record's academic year ("2024/2025" -> 2024).
func (record EnrollmentRecord) StartYear() int {
	year, _ := ParseAcademicYear(record.AcademicYear)
	return year
}

// ParseAcademicYear parses "YYYY/YYYY+1" and returns the starting calendar year.
func ParseAcademicYear(academicYear string) (int, error) {
	parts := strings.Split(strings.TrimSpace(academicYear), "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("academic year %q is not of the form YYYY/YYYY", academicYear)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return 0, fmt.Errorf("academic year %q has an invalid start year", academicYear)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil || end != start+1 {
		return 0, fmt.Errorf("academic year %q does not span consecutive years", academicYear)
	}
	return start, nil
}

// AcademicYear formats the academic year starting at the given calendar year.
func AcademicYear(startYear int) string {
	return fmt.Sprintf("%d/%d", startYear, startYear+1)
}
