package model

import (
	"strings"

	"github.com/samber/lo"
)

// NoneSentinel marks an empty report cell.
const NoneSentinel = "None"

// Findings collects the output of one evaluator. Missed entries are unmet requirements, advisories go to the adviser.
type Findings struct {
	Missed     []string
	Advisories []string
}

func (findings *Findings) Miss(message string) {
	findings.Missed = append(findings.Missed, message)
}

func (findings *Findings) Advise(message string) {
	findings.Advisories = append(findings.Advisories, message)
}

// Merge appends other's findings to the receiver keeping their order.
func (findings *Findings) Merge(other Findings) {
	findings.Missed = append(findings.Missed, other.Missed...)
	findings.Advisories = append(findings.Advisories, other.Advisories...)
}

func (findings Findings) Empty() bool {
	return len(findings.Missed) == 0 && len(findings.Advisories) == 0
}

// Report is one output row. The string columns hold joined findings or NoneSentinel.
type Report struct {
	StudentId              uint64
	Name                   string
	Programme              string
	HonoursYear            int
	UnmetRequirements      string
	MissingPrerequisites   string
	ModulesNotRunning      string
	TimetableClashes       string
	AdviserRecommendations string

	ExpectedHonoursYears int
	Degraded             bool
}

// JoinFindings joins findings with the separator, skipping blanks and "None". An empty result yields NoneSentinel.
func JoinFindings(findings []string, separator string) string {
	kept := lo.Filter(findings, func(finding string, _ int) bool {
		trimmed := strings.TrimSpace(finding)
		return trimmed != "" && trimmed != NoneSentinel
	})
	if len(kept) == 0 {
		return NoneSentinel
	}
	return strings.Join(kept, separator)
}

// Clean reports whether no column other than the adviser recommendations holds a finding.
func (report Report) Clean() bool {
	return !report.Degraded && lo.EveryBy(
		[]string{report.UnmetRequirements, report.MissingPrerequisites, report.ModulesNotRunning, report.TimetableClashes},
		func(column string) bool { return column == NoneSentinel },
	)
}
