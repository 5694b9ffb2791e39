package requirements

// moduleSource selects which module codes a count runs over.
type moduleSource string

const (
	// Passed honours modules followed by planned ones, duplicates kept
	sourceAllHonours moduleSource = "all_honours"
	// Planned choices only
	sourcePlanned moduleSource = "planned"
	// Passed and planned rows of the configured honours years
	sourceYears moduleSource = "years"
)

type predicateEvaluator interface {
	// Counts how many distinct modules of the list the student has passed or plans to take
	CountTaken(modules []string) int

	// Counts how many distinct modules of the list sit in the given honours years
	CountInYears(modules []string, years []int) int

	// Checks whether the module sits in one of the given honours years, or has been passed when orPassed is set
	TakesIn(module string, years []int, orPassed bool) bool

	// Checks whether the student has passed or plans to take the module
	Takes(module string) bool

	// Returns the modules of the source, duplicates kept
	Modules(source moduleSource, years []int) []string

	// Counts the modules of the source whose code contains one of the fragments (none of them when inverted)
	CountMatching(modules []string, fragments []string, invert bool) int

	// Returns the honours year in which the module is taken
	YearOf(module string) (int, bool)

	// Checks whether credit values are available for every planned choice
	CreditsAvailable() bool

	// Sums the credits of passed honours rows and every planned row
	HonoursCredits() float64

	// Sums the credits of passed and planned rows whose module code has the level as third character
	CreditsAtLevel(level int) float64
}
