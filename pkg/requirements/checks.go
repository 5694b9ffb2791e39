package requirements

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/model"
)

type checkState struct {
	profile   model.StudentProfile
	evaluator predicateEvaluator
	// Programme-specific joint honours project codes
	jointProjects []string
}

type check func(state checkState) model.Findings

// checkBuilders maps the "check" key of a rule entry to its constructor.
var checkBuilders = map[string]func(params map[string]any) (check, error){
	"credit_load": func(params map[string]any) (check, error) {
		var decoded creditLoadParams
		if err := decodeParams(params, &decoded); err != nil {
			return nil, err
		}
		if len(decoded.ModulesPerYear) == 0 {
			decoded.ModulesPerYear = defaultCreditLoad.ModulesPerYear
		}
		if decoded.CreditsPerYear == 0 {
			decoded.CreditsPerYear = defaultCreditLoad.CreditsPerYear
		}
		return creditLoadCheck(decoded), nil
	},
	"required_group":   build(requiredGroupCheck),
	"module_count":     build(moduleCountCheck),
	"forbidden":        build(forbiddenCheck),
	"project":          build(projectCheck),
	"joint_load":       build(jointLoadCheck),
	"credit_total":     build(creditTotalCheck),
	"module_in_year":   build(moduleInYearCheck),
	"level_window":     build(levelWindowCheck),
	"subhonours_route": build(subhonoursRouteCheck),
}

func build[P any](constructor func(P) check) func(map[string]any) (check, error) {
	return func(params map[string]any) (check, error) {
		var decoded P
		if err := decodeParams(params, &decoded); err != nil {
			return nil, err
		}
		return constructor(decoded), nil
	}
}

func decodeParams(params map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(params)
}

// report files the message as a miss or as an advisory.
func report(findings *model.Findings, advisory bool, message string) {
	if advisory {
		findings.Advise(message)
	} else {
		findings.Miss(message)
	}
}

// withCount fills the {count} placeholder of a message.
func withCount(message string, count int) string {
	return strings.ReplaceAll(message, "{count}", strconv.Itoa(count))
}

//** Required group

type requiredGroupParams struct {
	Modules []string `mapstructure:"modules"`
	// Zero means every module of the group
	Min int `mapstructure:"min"`
	// Restricts the count to these honours years when set
	Years    []int  `mapstructure:"years"`
	Message  string `mapstructure:"message"`
	Advisory bool   `mapstructure:"advisory"`
}

func requiredGroupCheck(params requiredGroupParams) check {
	required := params.Min
	if required == 0 {
		required = len(lo.Uniq(params.Modules))
	}
	return func(state checkState) (findings model.Findings) {
		var count int
		if len(params.Years) > 0 {
			count = state.evaluator.CountInYears(params.Modules, params.Years)
		} else {
			count = state.evaluator.CountTaken(params.Modules)
		}
		if count < required {
			report(&findings, params.Advisory, withCount(params.Message, count))
		}
		return findings
	}
}

//** Module count

type moduleCountParams struct {
	Source moduleSource `mapstructure:"source"`
	Years  []int        `mapstructure:"years"`
	// Code fragments, a module matches when its code contains any of them
	Match  []string `mapstructure:"match"`
	Invert bool     `mapstructure:"invert"`
	Min    *int     `mapstructure:"min"`
	Max    *int     `mapstructure:"max"`
	// The check only applies when this module is (or is not) among all honours modules
	WhenPresent string `mapstructure:"when_present"`
	WhenAbsent  string `mapstructure:"when_absent"`
	Message     string `mapstructure:"message"`
	Advisory    bool   `mapstructure:"advisory"`
}

func moduleCountCheck(params moduleCountParams) check {
	return func(state checkState) (findings model.Findings) {
		allHonours := state.profile.AllHonoursModules()
		if params.WhenPresent != "" && !lo.Contains(allHonours, params.WhenPresent) {
			return findings
		}
		if params.WhenAbsent != "" && lo.Contains(allHonours, params.WhenAbsent) {
			return findings
		}

		modules := state.evaluator.Modules(params.Source, params.Years)
		count := state.evaluator.CountMatching(modules, params.Match, params.Invert)
		if (params.Min != nil && count < *params.Min) || (params.Max != nil && count > *params.Max) {
			report(&findings, params.Advisory, withCount(params.Message, count))
		}
		return findings
	}
}

//** Forbidden modules

type forbiddenParams struct {
	Modules []string     `mapstructure:"modules"`
	Source  moduleSource `mapstructure:"source"`
	Message string       `mapstructure:"message"`
}

func forbiddenCheck(params forbiddenParams) check {
	return func(state checkState) (findings model.Findings) {
		var present bool
		if params.Source == "" {
			present = state.evaluator.CountTaken(params.Modules) > 0
		} else {
			modules := state.evaluator.Modules(params.Source, nil)
			present = lo.SomeBy(params.Modules, func(module string) bool { return lo.Contains(modules, module) })
		}
		if present {
			findings.Miss(params.Message)
		}
		return findings
	}
}

//** Final year project

type projectParams struct {
	Modules []string `mapstructure:"modules"`
	// Prepends the programme's joint honours projects to the candidates
	Joint bool `mapstructure:"joint"`
	Year  int  `mapstructure:"year"`

	MissingMessage  string `mapstructure:"missing_message"`
	MultipleMessage string `mapstructure:"multiple_message"`
	WrongYear       string `mapstructure:"wrong_year_message"`
	// Any project other than this one needs a letter of agreement
	LetterUnless string `mapstructure:"letter_unless"`
}

func projectCandidates(state checkState, modules []string, joint bool) []string {
	if !joint {
		return modules
	}
	return append(append([]string{}, state.jointProjects...), modules...)
}

// chosenProject returns the single project the student takes among the candidates.
func chosenProject(state checkState, candidates []string) (string, int) {
	taken := lo.Filter(lo.Uniq(candidates), func(module string, _ int) bool {
		return state.evaluator.Takes(module)
	})
	if len(taken) != 1 {
		return "", len(taken)
	}
	return taken[0], 1
}

func projectCheck(params projectParams) check {
	return func(state checkState) (findings model.Findings) {
		project, count := chosenProject(state, projectCandidates(state, params.Modules, params.Joint))
		switch {
		case count == 0 || (count > 1 && params.MultipleMessage == ""):
			findings.Miss(params.MissingMessage)
		case count > 1:
			findings.Miss(params.MultipleMessage)
		default:
			if year, ok := state.evaluator.YearOf(project); !ok || year != params.Year {
				findings.Miss(params.WrongYear)
			}
			if params.LetterUnless != "" && project != params.LetterUnless {
				findings.Advise(fmt.Sprintf("Student has chosen the joint honours project %v which requires a letter of agreement", project))
			}
		}
		return findings
	}
}

//** Joint honours load

type jointLoadParams struct {
	// Project candidates; the single chosen one counts as an allowed module
	ProjectModules []string `mapstructure:"project_modules"`
	Extra          []string `mapstructure:"extra"`

	MinAllowed int `mapstructure:"min_allowed"`
	MinMT      int `mapstructure:"min_mt"`

	TooManyDipDownMessage string `mapstructure:"too_many_dip_down_message"`
	NotEnoughMessage      string `mapstructure:"not_enough_message"`
}

func jointLoadCheck(params jointLoadParams) check {
	return func(state checkState) (findings model.Findings) {
		allowedFragments := append([]string{"MT2", "MT3", "MT4", "ID4001", "VP"}, params.Extra...)
		if len(params.ProjectModules) > 0 {
			if project, count := chosenProject(state, projectCandidates(state, params.ProjectModules, true)); count == 1 {
				allowedFragments = append(allowedFragments, project)
			}
		}

		modules := state.profile.AllHonoursModules()
		mt := state.evaluator.CountMatching(modules, []string{"MT3", "MT4"}, false)
		allowed := state.evaluator.CountMatching(modules, allowedFragments, false)

		if allowed < params.MinAllowed || mt < params.MinMT {
			if mt < params.MinMT && allowed >= params.MinAllowed {
				findings.Miss(params.TooManyDipDownMessage)
			} else {
				findings.Miss(params.NotEnoughMessage)
			}
		}
		return findings
	}
}

//** Credit totals

type creditTotalParams struct {
	TotalMin     float64 `mapstructure:"total_min"`
	TotalMessage string  `mapstructure:"total_message"`
	Levels       []int   `mapstructure:"levels"`
	LevelMin     float64 `mapstructure:"level_min"`
	LevelMessage string  `mapstructure:"level_message"`
	// Advisory raised when the source carries no credit values
	Fallback string `mapstructure:"fallback"`
}

func creditTotalCheck(params creditTotalParams) check {
	return func(state checkState) (findings model.Findings) {
		if !state.evaluator.CreditsAvailable() {
			findings.Advise(params.Fallback)
			return findings
		}
		if state.evaluator.HonoursCredits() < params.TotalMin {
			findings.Miss(params.TotalMessage)
		}
		if len(params.Levels) > 0 {
			atLevels := lo.SumBy(params.Levels, state.evaluator.CreditsAtLevel)
			if atLevels < params.LevelMin {
				findings.Miss(params.LevelMessage)
			}
		}
		return findings
	}
}

//** Module in year

type moduleInYearParams struct {
	Modules  []string `mapstructure:"modules"`
	Years    []int    `mapstructure:"years"`
	OrPassed bool     `mapstructure:"or_passed"`
	Message  string   `mapstructure:"message"`
}

func moduleInYearCheck(params moduleInYearParams) check {
	return func(state checkState) (findings model.Findings) {
		if !lo.SomeBy(params.Modules, func(module string) bool {
			return state.evaluator.TakesIn(module, params.Years, params.OrPassed)
		}) {
			findings.Miss(params.Message)
		}
		return findings
	}
}

//** Level window

type levelWindowParams struct {
	Years  []int  `mapstructure:"years"`
	Prefix string `mapstructure:"prefix"`
	Low    int    `mapstructure:"low"`
	High   int    `mapstructure:"high"`
	Max    int    `mapstructure:"max"`

	OverMessage    string `mapstructure:"over_message"`
	OutsideMessage string `mapstructure:"outside_message"`
}

func levelWindowCheck(params levelWindowParams) check {
	return func(state checkState) (findings model.Findings) {
		inside, outside := 0, 0
		for _, module := range state.evaluator.Modules(sourceYears, params.Years) {
			if !strings.HasPrefix(module, params.Prefix) {
				continue
			}
			number, err := strconv.Atoi(strings.TrimPrefix(module, params.Prefix))
			if err == nil && number >= params.Low && number <= params.High {
				inside++
			} else {
				outside++
			}
		}
		if inside > params.Max {
			findings.Miss(params.OverMessage)
		}
		if outside > 0 {
			findings.Miss(params.OutsideMessage)
		}
		return findings
	}
}

//** Subhonours analysis route

type subhonoursRouteParams struct{}

func subhonoursRouteCheck(subhonoursRouteParams) check {
	return func(state checkState) (findings model.Findings) {
		profile := state.profile
		subhonours := lo.Map(profile.PassedModuleTable, func(row model.ModuleRow, _ int) string { return row.ModuleCode })
		tookBoth := func(a, b string) bool { return lo.Contains(subhonours, a) && lo.Contains(subhonours, b) }

		takes := func(module string) bool {
			if lo.Contains(profile.PassedModules, module) {
				return true
			}
			if profile.CurrentHonoursYear == 1 {
				return lo.Contains(profile.ModulesInYears(1), module)
			}
			return lo.Contains(profile.PlannedHonoursModules(), module)
		}
		takes3504 := takes("MT3504")
		takes3502And3505 := takes("MT3502") && takes("MT3505")

		vectorRoute := tookBoth("MT2507", "MT2506")
		analysisRoute := tookBoth("MT2502", "MT2505")
		switch {
		case vectorRoute && analysisRoute:
			if !takes3504 && !takes3502And3505 {
				findings.Miss("Student is not taking MT3504 or (MT3502 and MT3505) (which is required for them)")
			}
		case vectorRoute:
			if !takes3504 {
				findings.Miss("Student is not taking MT3504 in year 3 (which is required for them)")
			}
		case analysisRoute:
			if !takes3502And3505 {
				findings.Miss("Student is not taking MT3505 and MT3502 in year 3 (which is a requirement for them)")
			}
		default:
			findings.Miss("Student does not seem to have an allowed selection of subhonours MT modules")
		}
		return findings
	}
}
