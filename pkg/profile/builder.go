package profile

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	apperrors "github.com/limaJavier/advising/pkg/errors"
	"github.com/limaJavier/advising/pkg/model"
)

// Modules that shorten a programme by one year when present (direct entry into second year)
const advancedEntryModule = "EXA120"

// Fragment identifying third-level modules; the earliest one marks the start of honours
const honoursLevelFragment = "MT3"

// Builder derives a student profile from the student's enrollment rows.
type Builder interface {
	// Builds the profile as of the given date. Rows must all belong to the same student.
	// An unrecognised programme yields a profile carrying identity only together with ErrUnknownProgramme.
	Build(records []model.EnrollmentRecord, today time.Time) (model.StudentProfile, error)
}

type Option func(*builderStandard)

// WithProgramme evaluates every student as if enrolled in the given programme.
func WithProgramme(programme string) Option {
	return func(builder *builderStandard) {
		builder.programmeOverride = programme
	}
}

type builderStandard struct {
	programmeOverride string
}

func NewBuilder(options ...Option) Builder {
	builder := &builderStandard{}
	for _, option := range options {
		option(builder)
	}
	return builder
}

func (builder *builderStandard) Build(records []model.EnrollmentRecord, today time.Time) (model.StudentProfile, error) {
	if len(records) == 0 {
		return model.StudentProfile{}, apperrors.ErrUnknownStudent
	}

	//** Identity
	identity, err := buildIdentity(records)
	if err != nil {
		return model.StudentProfile{}, err
	}
	if builder.programmeOverride != "" {
		identity.ProgrammeName = builder.programmeOverride
	}

	//** Calendar position
	current := currentCalendarYear(today)
	assessedYears := lo.Uniq(lo.FilterMap(records, func(record model.EnrollmentRecord, _ int) (int, bool) {
		return record.StartYear(), record.Assessed()
	}))
	earliest := current
	if len(assessedYears) > 0 {
		earliest = lo.Min(assessedYears)
	}
	leave := countLeave(assessedYears, earliest, current)
	yearOfStudy := current - earliest + 1 - leave

	length, ok := lookupProgramme(identity.ProgrammeName)
	if !ok {
		return identity, apperrors.Clone(
			apperrors.ErrUnknownProgramme,
			fmt.Sprintf("%v: %v", apperrors.ErrUnknownProgramme.Message, identity.ProgrammeName),
		)
	}
	programmeYears := length.years
	if lo.ContainsBy(records, func(record model.EnrollmentRecord) bool { return record.ModuleCode == advancedEntryModule }) {
		programmeYears--
	}
	subhonoursYears := programmeYears - length.honoursYears
	currentHonoursYear := yearOfStudy - subhonoursYears

	//** Module classification
	passedRows := dedupeByModule(lo.Filter(records, func(record model.EnrollmentRecord, _ int) bool {
		return isPassed(record)
	}))
	passedModules := moduleCodes(passedRows)

	passedHonoursModules := make([]string, 0)
	for k := 1; k <= currentHonoursYear; k++ {
		year := current - (currentHonoursYear - k)
		passedHonoursModules = append(passedHonoursModules, moduleCodes(rowsStartingIn(passedRows, year))...)
	}

	//** Refinement from the first third-level module
	honoursLevelRows := lo.Filter(records, func(record model.EnrollmentRecord, _ int) bool {
		return strings.Contains(record.ModuleCode, honoursLevelFragment)
	})
	if len(honoursLevelRows) > 0 {
		first := lo.Min(lo.Map(honoursLevelRows, func(record model.EnrollmentRecord, _ int) int { return record.StartYear() }))
		honoursLeave := countLeave(assessedYears, first, current)
		currentHonoursYear = current - first + 1 - honoursLeave
		yearOfStudy = currentHonoursYear + subhonoursYears

		passedHonoursModules = moduleCodes(lo.Filter(passedRows, func(record model.EnrollmentRecord, _ int) bool {
			year := record.StartYear()
			return year >= first && year <= current
		}))
	}

	//** Tables
	toRow := func(record model.EnrollmentRecord, _ int) model.ModuleRow {
		return model.ModuleRow{
			HonoursYear:  record.StartYear() - current + currentHonoursYear,
			AcademicYear: record.AcademicYear,
			Semester:     record.Semester,
			ModuleCode:   record.ModuleCode,
			Credits:      record.Credits,
		}
	}
	plannedRows := lo.Filter(records, func(record model.EnrollmentRecord, _ int) bool {
		return record.Planned()
	})

	profile := identity
	profile.CurrentCalendarYear = current
	profile.YearOfStudy = yearOfStudy
	profile.ExpectedHonoursYears = length.honoursYears
	profile.CurrentHonoursYear = currentHonoursYear
	profile.LeaveOfAbsence = leave
	profile.PassedModules = passedModules
	profile.PassedHonoursModules = passedHonoursModules
	profile.PassedModuleTable = lo.Map(passedRows, toRow)
	profile.HonoursModuleChoices = lo.Map(plannedRows, toRow)

	profile.ZCoded = provisional(records, func(record model.EnrollmentRecord) bool {
		return record.AssessmentResult == model.ResultZCoded && !record.Reassessed()
	})
	profile.Deferred = provisional(records, func(record model.EnrollmentRecord) bool {
		return record.AssessmentResult == model.ResultDeferred && !record.Reassessed()
	})
	profile.SCoded = provisional(records, func(record model.EnrollmentRecord) bool {
		special := record.AssessmentResult == model.ResultSpecial || record.AssessmentResult == model.ResultSpecialPass
		return special && record.AssessmentGrade != nil && *record.AssessmentGrade < 7 && !record.Reassessed()
	})
	profile.AwaitingReassessment = provisional(passedRows, func(record model.EnrollmentRecord) bool {
		return record.AssessmentResult == model.ResultFail && !record.Reassessed()
	})

	return profile, nil
}

// buildIdentity requires programme, names and email to be unique across the student's rows.
func buildIdentity(records []model.EnrollmentRecord) (model.StudentProfile, error) {
	studentId := records[0].StudentId
	fields := []struct {
		name   string
		values []string
	}{
		{"programme name", lo.Uniq(lo.Map(records, func(r model.EnrollmentRecord, _ int) string { return r.ProgrammeName }))},
		{"given names", lo.Uniq(lo.Map(records, func(r model.EnrollmentRecord, _ int) string { return r.GivenNames }))},
		{"family name", lo.Uniq(lo.Map(records, func(r model.EnrollmentRecord, _ int) string { return r.FamilyName }))},
		{"email", lo.Uniq(lo.Map(records, func(r model.EnrollmentRecord, _ int) string { return r.Email }))},
	}
	for _, field := range fields {
		if len(field.values) != 1 {
			return model.StudentProfile{}, apperrors.Clone(
				apperrors.ErrDataIntegrity,
				fmt.Sprintf("%v is not unique for student %v: %v", field.name, studentId, field.values),
			)
		}
	}

	return model.StudentProfile{
		StudentId:     studentId,
		ProgrammeName: fields[0].values[0],
		Name:          strings.TrimSpace(fields[1].values[0] + " " + fields[2].values[0]),
		Email:         fields[3].values[0],
	}, nil
}

// currentCalendarYear returns the calendar year in which the running academic year started.
func currentCalendarYear(today time.Time) int {
	if today.Month() < time.March {
		return today.Year() - 1
	}
	return today.Year()
}

// countLeave counts the calendar years in [from, to) without any assessed module.
func countLeave(assessedYears []int, from, to int) int {
	leave := 0
	for year := from; year < to; year++ {
		if !slices.Contains(assessedYears, year) {
			leave++
		}
	}
	return leave
}

func isPassed(record model.EnrollmentRecord) bool {
	if record.AssessmentResult == model.ResultPass || record.ReassessmentResult == model.ResultPass {
		return true
	}

	grade := record.AssessmentGrade
	switch record.AssessmentResult {
	case model.ResultZCoded, model.ResultDeferred:
		return !record.Reassessed()
	case model.ResultFail:
		return !record.Reassessed() && grade != nil && *grade > 3.5
	case model.ResultSpecial, model.ResultSpecialPass:
		return (grade != nil && *grade > 7) || !record.Reassessed()
	}
	return false
}

// dedupeByModule keeps the last row of every module code, in the position of that last row.
func dedupeByModule(records []model.EnrollmentRecord) []model.EnrollmentRecord {
	last := make(map[string]int, len(records))
	for i, record := range records {
		last[record.ModuleCode] = i
	}
	return lo.Filter(records, func(record model.EnrollmentRecord, i int) bool {
		return last[record.ModuleCode] == i
	})
}

func rowsStartingIn(records []model.EnrollmentRecord, year int) []model.EnrollmentRecord {
	return lo.Filter(records, func(record model.EnrollmentRecord, _ int) bool {
		return record.StartYear() == year
	})
}

func moduleCodes(records []model.EnrollmentRecord) []string {
	return lo.Map(records, func(record model.EnrollmentRecord, _ int) string {
		return record.ModuleCode
	})
}

func provisional(records []model.EnrollmentRecord, predicate func(model.EnrollmentRecord) bool) []string {
	return lo.Uniq(moduleCodes(lo.Filter(records, func(record model.EnrollmentRecord, _ int) bool {
		return predicate(record)
	})))
}
