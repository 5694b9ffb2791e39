package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Parity int

const (
	EveryWeek Parity = iota
	OddWeeks
	EvenWeeks
)

func (parity Parity) String() string {
	switch parity {
	case OddWeeks:
		return "(odd weeks)"
	case EvenWeeks:
		return "(even weeks)"
	}
	return ""
}

// Slot is one weekly meeting of a module, e.g. "10am Mon (odd weeks)".
type Slot struct {
	Time   string
	Day    string
	Parity Parity
}

// Descriptor renders the slot the way clash messages quote it. A parity listed in strip is dropped.
func (slot Slot) Descriptor(strip ...Parity) string {
	descriptor := slot.Time + " " + slot.Day
	if slot.Parity != EveryWeek && !lo.Contains(strip, slot.Parity) {
		descriptor += " " + slot.Parity.String()
	}
	return descriptor
}

func (slot Slot) String() string {
	return slot.Descriptor()
}

// Clock returns the 24-hour start time of the slot.
func (slot Slot) Clock() (hour, minute int, err error) {
	match := timePattern.FindStringSubmatch(slot.Time)
	if match == nil {
		return 0, 0, fmt.Errorf("invalid slot time %q", slot.Time)
	}
	digits, _, _ := strings.Cut(strings.TrimSuffix(strings.TrimSuffix(slot.Time, "am"), "pm"), ":")
	hour, _ = strconv.Atoi(digits)
	if match[1] != "" {
		minute, _ = strconv.Atoi(match[1][1:])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid slot time %q", slot.Time)
	}

	hour %= 12
	if match[2] == "pm" {
		hour += 12
	}
	return hour, minute, nil
}

func (slot Slot) Weekday() time.Weekday {
	return weekdays[slot.Day]
}

// GrammarError reports timetable text that does not follow "<time> <day> [(odd|even weeks)], ...".
type GrammarError struct {
	Text    string
	Segment string
	Reason  string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("cannot parse timetable %q at %q: %v", e.Text, e.Segment, e.Reason)
}

var (
	timePattern   = regexp.MustCompile(`^\d{1,2}(:\d{2})?(am|pm)$`)
	parityPattern = regexp.MustCompile(`^\((odd|even) weeks\)$`)
)

var days = map[string]string{
	"mon": "Mon", "monday": "Mon",
	"tue": "Tue", "tues": "Tue", "tuesday": "Tue",
	"wed": "Wed", "wednesday": "Wed",
	"thu": "Thu", "thur": "Thu", "thurs": "Thu", "thursday": "Thu",
	"fri": "Fri", "friday": "Fri",
	"sat": "Sat", "saturday": "Sat",
	"sun": "Sun", "sunday": "Sun",
}

var weekdays = map[string]time.Weekday{
	"Mon": time.Monday, "Tue": time.Tuesday, "Wed": time.Wednesday, "Thu": time.Thursday,
	"Fri": time.Friday, "Sat": time.Saturday, "Sun": time.Sunday,
}

// Entries whose shape the grammar does not describe are listed here with their slots.
var literalTimetables = map[string][]Slot{
	"10am Wed (odd weeks), 10am Fri (odd weeks)": {
		{Time: "10am", Day: "Wed", Parity: OddWeeks},
		{Time: "10am", Day: "Fri", Parity: OddWeeks},
	},
}

// ParseSlots splits catalogue timetable text into slots. A segment without a time reuses the previous segment's time.
func ParseSlots(text string) ([]Slot, error) {
	text = strings.TrimSpace(text)
	if literal, ok := literalTimetables[text]; ok {
		return append([]Slot{}, literal...), nil
	}
	if text == "" || strings.EqualFold(text, "None") {
		return nil, nil
	}

	slots := make([]Slot, 0)
	currentTime := ""
	for _, segment := range strings.Split(text, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		slot, err := parseSegment(segment, currentTime)
		if err != nil {
			return nil, &GrammarError{Text: text, Segment: segment, Reason: err.Error()}
		}
		currentTime = slot.Time
		slots = append(slots, slot)
	}
	return slots, nil
}

func parseSegment(segment, currentTime string) (Slot, error) {
	words := strings.Fields(segment)

	slot := Slot{Time: currentTime}
	if timePattern.MatchString(strings.ToLower(words[0])) {
		slot.Time = strings.ToLower(words[0])
		words = words[1:]
	} else if currentTime == "" {
		return Slot{}, fmt.Errorf("expected a time before %q", words[0])
	}

	if len(words) == 0 {
		return Slot{}, fmt.Errorf("missing day")
	}
	day, ok := days[strings.ToLower(words[0])]
	if !ok {
		return Slot{}, fmt.Errorf("unknown day %q", words[0])
	}
	slot.Day = day
	words = words[1:]

	if len(words) == 0 {
		return slot, nil
	}
	qualifier := strings.ToLower(strings.Join(words, " "))
	match := parityPattern.FindStringSubmatch(qualifier)
	if match == nil {
		return Slot{}, fmt.Errorf("unknown week parity %q", qualifier)
	}
	if match[1] == "odd" {
		slot.Parity = OddWeeks
	} else {
		slot.Parity = EvenWeeks
	}
	return slot, nil
}
