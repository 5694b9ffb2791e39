package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/errors"
	"github.com/limaJavier/advising/pkg/model"
)

// ClashDetector reports planned modules that meet at the same time in the same honours year and semester.
type ClashDetector interface {
	Detect(profile model.StudentProfile, catalogue model.Catalogue) (model.Findings, error)
}

type clashDetectorStandard struct{}

func NewClashDetector() ClashDetector {
	return &clashDetectorStandard{}
}

// Each pass compares descriptors with the listed parities stripped.
var clashPasses = [][]Parity{
	{},
	{OddWeeks},
	{EvenWeeks},
}

func (detector *clashDetectorStandard) Detect(profile model.StudentProfile, catalogue model.Catalogue) (model.Findings, error) {
	var findings model.Findings

	years := lo.Uniq(lo.Map(profile.HonoursModuleChoices, func(row model.ModuleRow, _ int) int {
		return row.HonoursYear
	}))
	for _, year := range years {
		for _, semester := range []model.Semester{model.SemesterOne, model.SemesterTwo} {
			slots, err := semesterSlots(profile, catalogue, year, semester)
			if err != nil {
				return model.Findings{}, err
			}
			for _, message := range findClashes(slots, year, semester) {
				findings.Miss(message)
			}
		}
	}
	return findings, nil
}

// semesterSlots parses the timetable of every module planned in one cell. Full year modules meet in both semesters.
func semesterSlots(profile model.StudentProfile, catalogue model.Catalogue, year int, semester model.Semester) (map[string][]Slot, error) {
	rows := lo.Filter(profile.HonoursModuleChoices, func(row model.ModuleRow, _ int) bool {
		return row.HonoursYear == year && (row.Semester == semester || row.Semester == model.FullYear)
	})

	slots := make(map[string][]Slot)
	for _, row := range rows {
		if _, ok := slots[row.ModuleCode]; ok {
			continue
		}
		moduleSlots, err := ModuleSlots(catalogue, row.ModuleCode, semester)
		if err != nil {
			return nil, err
		}
		slots[row.ModuleCode] = moduleSlots
	}
	return slots, nil
}

// ModuleSlots returns the slots of a module in a semester. Modules missing from the catalogue have none.
func ModuleSlots(catalogue model.Catalogue, module string, semester model.Semester) ([]Slot, error) {
	text, ok := catalogue.Timetable(module, semester)
	if !ok {
		return nil, nil
	}
	slots, err := ParseSlots(text)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTimetableGrammar, fmt.Sprintf("cannot parse timetable entry of module %v", module))
	}
	return slots, nil
}

// findClashes runs every parity pass and keeps one message per group of modules, the first pass winning.
func findClashes(slots map[string][]Slot, year int, semester model.Semester) []string {
	messages := make([]string, 0)
	reported := make(map[string]bool)

	for _, strip := range clashPasses {
		descriptors := lo.MapValues(slots, func(moduleSlots []Slot, _ string) []string {
			return lo.Uniq(lo.Map(moduleSlots, func(slot Slot, _ int) string { return slot.Descriptor(strip...) }))
		})

		for _, group := range clashGroups(descriptors) {
			key := strings.Join(group, " ")
			if reported[key] {
				continue
			}
			reported[key] = true

			shared := descriptors[group[0]]
			for _, module := range group[1:] {
				shared = lo.Intersect(shared, descriptors[module])
			}
			sort.Strings(shared)

			messages = append(messages, fmt.Sprintf(
				"Clash for %v %v between modules %v at %v",
				model.YearLabel(year), semester, strings.Join(group, " and "), strings.Join(shared, " and "),
			))
		}
	}
	return messages
}

// clashGroups returns, for every descriptor shared by two or more modules, the sorted set of modules sharing it.
func clashGroups(descriptors map[string][]string) [][]string {
	holders := make(map[string][]string)
	for module, moduleDescriptors := range descriptors {
		for _, descriptor := range moduleDescriptors {
			holders[descriptor] = append(holders[descriptor], module)
		}
	}

	groups := make(map[string][]string)
	for _, modules := range holders {
		if len(modules) < 2 {
			continue
		}
		sort.Strings(modules)
		groups[strings.Join(modules, " ")] = modules
	}

	keys := lo.Keys(groups)
	sort.Strings(keys)
	return lo.Map(keys, func(key string, _ int) []string { return groups[key] })
}
