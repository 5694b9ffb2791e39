package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/config"
	"github.com/limaJavier/advising/pkg/model"
	"github.com/limaJavier/advising/pkg/timetable"
)

const (
	icsFloatingFormat = "20060102T150405"
	slotDuration      = time.Hour
	productId         = "-//advising//module timetable//EN"
)

// CalendarExporter writes the weekly meetings of a student's planned modules as an iCalendar file.
type CalendarExporter struct {
	calendar config.CalendarConfig
	stamp    time.Time
}

// NewCalendarExporter anchors events on the configured semester start dates. stamp is written as DTSTAMP.
func NewCalendarExporter(calendar config.CalendarConfig, stamp time.Time) *CalendarExporter {
	return &CalendarExporter{calendar: calendar, stamp: stamp}
}

func (e *CalendarExporter) Extension() string {
	return ".ics"
}

// Render emits one recurring event per slot of every module planned in the academic year.
// Odd-week slots start in teaching week 1 and even-week slots in week 2, both fortnightly.
func (e *CalendarExporter) Render(profile model.StudentProfile, catalogue model.Catalogue, academicYear string) ([]byte, error) {
	if e.calendar.SemesterOneStart.IsZero() || e.calendar.SemesterTwoStart.IsZero() {
		return nil, fmt.Errorf("semester start dates are not configured")
	}
	if e.calendar.TeachingWeeks <= 0 {
		return nil, fmt.Errorf("teaching weeks must be positive")
	}
	startYear, err := model.ParseAcademicYear(academicYear)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productId)
	cal.SetName(fmt.Sprintf("%v %v", profile.Name, academicYear))

	rows := lo.Filter(profile.HonoursModuleChoices, func(row model.ModuleRow, _ int) bool {
		return row.AcademicYear == academicYear
	})
	for _, row := range rows {
		semesters := []model.Semester{row.Semester}
		if row.Semester == model.FullYear {
			semesters = []model.Semester{model.SemesterOne, model.SemesterTwo}
		}
		for _, semester := range semesters {
			slots, err := timetable.ModuleSlots(catalogue, row.ModuleCode, semester)
			if err != nil {
				return nil, err
			}
			weekOne := e.weekOne(semester, startYear)
			for i, slot := range slots {
				if err := e.addEvent(cal, profile.StudentId, row.ModuleCode, semester, i, slot, weekOne); err != nil {
					return nil, err
				}
			}
		}
	}
	return []byte(cal.Serialize()), nil
}

func (e *CalendarExporter) addEvent(cal *ics.Calendar, studentId uint64, module string, semester model.Semester, index int, slot timetable.Slot, weekOne time.Time) error {
	hour, minute, err := slot.Clock()
	if err != nil {
		return fmt.Errorf("module %v: %w", module, err)
	}

	offset := (int(slot.Weekday()) + 6) % 7
	if slot.Parity == timetable.EvenWeeks {
		offset += 7
	}
	day := weekOne.AddDate(0, 0, offset)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)

	interval, count := 1, e.calendar.TeachingWeeks
	switch slot.Parity {
	case timetable.OddWeeks:
		interval, count = 2, (count+1)/2
	case timetable.EvenWeeks:
		interval, count = 2, count/2
	}
	if count == 0 {
		return nil
	}

	event := cal.AddEvent(fmt.Sprintf("%d-%v-%v-%d@advising", studentId, module, strings.ToLower(string(semester)), index))
	event.SetDtStampTime(e.stamp)
	event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsFloatingFormat))
	event.SetProperty(ics.ComponentPropertyDtEnd, start.Add(slotDuration).Format(icsFloatingFormat))
	event.SetSummary(module)
	event.SetDescription(fmt.Sprintf("%v %v", module, slot.Descriptor()))
	event.AddProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;INTERVAL=%d;COUNT=%d", interval, count))
	return nil
}

// weekOne returns the Monday of the first teaching week, moving the configured anchor to the academic year.
func (e *CalendarExporter) weekOne(semester model.Semester, startYear int) time.Time {
	anchor := e.calendar.SemesterOneStart
	anchorYear := startYear
	if semester == model.SemesterTwo {
		anchor = e.calendar.SemesterTwoStart
		anchorYear = startYear + 1
	}
	anchor = anchor.AddDate(anchorYear-anchor.Year(), 0, 0)
	return anchor.AddDate(0, 0, -((int(anchor.Weekday()) + 6) % 7))
}
