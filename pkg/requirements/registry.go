package requirements

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed programmes.yaml
var defaultRegistryDocument []byte

// Registry maps programme names to the checks that apply to them.
type Registry interface {
	// Returns every programme with a rule set, sorted by name
	Programmes() []string

	// Returns the joint honours project codes of the programme
	JointProjects(programme string) []string

	ruleSet(programme string) ([]check, bool)
}

type registryDocument struct {
	JointProjects map[string][]string         `yaml:"joint_projects"`
	RuleSets      map[string][]map[string]any `yaml:"rule_sets"`
	Programmes    map[string]string           `yaml:"programmes"`
}

type registryStandard struct {
	jointProjects map[string][]string
	ruleSets      map[string][]check
	programmes    map[string]string
}

// DefaultRegistry returns the registry bundled with the binary.
func DefaultRegistry() (Registry, error) {
	return LoadRegistry(defaultRegistryDocument)
}

// LoadRegistryFile reads a registry document from disk.
func LoadRegistryFile(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	return LoadRegistry(data)
}

func LoadRegistry(data []byte) (Registry, error) {
	var document registryDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("unmarshal registry: %w", err)
	}

	registry := &registryStandard{
		jointProjects: document.JointProjects,
		ruleSets:      make(map[string][]check, len(document.RuleSets)),
		programmes:    document.Programmes,
	}

	for name, entries := range document.RuleSets {
		checks := make([]check, 0, len(entries))
		for i, entry := range entries {
			built, err := buildCheck(entry)
			if err != nil {
				return nil, fmt.Errorf("rule set %s, entry %d: %w", name, i+1, err)
			}
			checks = append(checks, built)
		}
		registry.ruleSets[name] = checks
	}

	for programme, ruleSet := range document.Programmes {
		if _, ok := registry.ruleSets[ruleSet]; !ok {
			return nil, fmt.Errorf("programme %q refers to unknown rule set %q", programme, ruleSet)
		}
	}

	return registry, nil
}

func buildCheck(entry map[string]any) (check, error) {
	kind, ok := entry["check"].(string)
	if !ok {
		return nil, fmt.Errorf("missing check kind")
	}
	builder, ok := checkBuilders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown check kind %q", kind)
	}

	params := lo.OmitByKeys(entry, []string{"check"})
	built, err := builder(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return built, nil
}

func (registry *registryStandard) Programmes() []string {
	programmes := lo.Keys(registry.programmes)
	slices.Sort(programmes)
	return programmes
}

func (registry *registryStandard) JointProjects(programme string) []string {
	return registry.jointProjects[programme]
}

func (registry *registryStandard) ruleSet(programme string) ([]check, bool) {
	name, ok := registry.programmes[programme]
	if !ok {
		return nil, false
	}
	return registry.ruleSets[name], true
}
