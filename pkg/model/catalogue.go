package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// CatalogueEntry is one offering of a module. A module running in several semesters has one entry per semester.
type CatalogueEntry struct {
	ModuleCode     string   `mapstructure:"Module code"`
	Prerequisites  string   `mapstructure:"Prerequisites"`
	Antirequisites string   `mapstructure:"Antirequisites"`
	Credits        float64  `mapstructure:"Credits"`
	Semester       Semester `mapstructure:"Semester"`
	Year           string   `mapstructure:"Year"`
	AlternateYears string   `mapstructure:"Alternate years"`
	Timetable      string   `mapstructure:"Timetable"`
}

// Alternating interprets the catalogue's "Alternate years" column, which must read Yes or No.
func (entry CatalogueEntry) Alternating() (bool, error) {
	switch strings.TrimSpace(entry.AlternateYears) {
	case "Yes":
		return true, nil
	case "No":
		return false, nil
	}
	return false, fmt.Errorf("cannot tell if module %v is alternating or not: %q", entry.ModuleCode, entry.AlternateYears)
}

// Catalogue is a read-only lookup of module offerings keyed by module code.
type Catalogue interface {
	// Returns the first offering of the module, ok is false when the module does not exist
	Lookup(moduleCode string) (entry CatalogueEntry, ok bool)

	// Returns every offering of the module in catalogue order
	Offerings(moduleCode string) []CatalogueEntry

	// Returns the timetable text of the offering running in the given semester
	Timetable(moduleCode string, semester Semester) (timetable string, ok bool)
}

type catalogueStandard struct {
	offerings map[string][]CatalogueEntry
}

func NewCatalogue(entries []CatalogueEntry) Catalogue {
	return &catalogueStandard{
		offerings: lo.GroupBy(entries, func(entry CatalogueEntry) string {
			return strings.TrimSpace(entry.ModuleCode)
		}),
	}
}

func (catalogue *catalogueStandard) Lookup(moduleCode string) (CatalogueEntry, bool) {
	offerings := catalogue.offerings[moduleCode]
	if len(offerings) == 0 {
		return CatalogueEntry{}, false
	}
	return offerings[0], true
}

func (catalogue *catalogueStandard) Offerings(moduleCode string) []CatalogueEntry {
	return catalogue.offerings[moduleCode]
}

func (catalogue *catalogueStandard) Timetable(moduleCode string, semester Semester) (string, bool) {
	offerings := catalogue.offerings[moduleCode]
	if len(offerings) == 0 {
		return "", false
	} else if len(offerings) == 1 {
		return offerings[0].Timetable, true
	}

	offering, ok := lo.Find(offerings, func(entry CatalogueEntry) bool {
		return entry.Semester == semester
	})
	if !ok {
		return offerings[0].Timetable, true
	}
	return offering.Timetable, true
}
