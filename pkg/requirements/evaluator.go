package requirements

import "github.com/limaJavier/advising/pkg/model"

// Evaluator checks a profile against its programme's requirements.
type Evaluator interface {
	Evaluate(profile model.StudentProfile) model.Findings
}

type evaluatorStandard struct {
	registry Registry
}

func NewEvaluator(registry Registry) Evaluator {
	return &evaluatorStandard{registry: registry}
}

func (evaluator *evaluatorStandard) Evaluate(profile model.StudentProfile) model.Findings {
	state := checkState{
		profile:       profile,
		evaluator:     newPredicateEvaluator(profile),
		jointProjects: evaluator.registry.JointProjects(profile.ProgrammeName),
	}

	var findings model.Findings
	for _, check := range globalChecks {
		findings.Merge(check(state))
	}

	ruleSet, ok := evaluator.registry.ruleSet(profile.ProgrammeName)
	if !ok {
		findings.Miss(MessageNoRequirements)
		return findings
	}
	for _, check := range ruleSet {
		findings.Merge(check(state))
	}
	return findings
}
