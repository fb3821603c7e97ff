package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

// PackageRange bounds the generated package in LPA.
type PackageRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// RoundTemplate is one interview round a company typically runs.
type RoundTemplate struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Difficulty string `yaml:"difficulty"`
}

// Company describes how experiences for one company are generated.
type Company struct {
	Name      string              `yaml:"name"`
	Roles     []string            `yaml:"roles"`
	Package   PackageRange        `yaml:"package"`
	Rounds    []RoundTemplate     `yaml:"rounds"`
	Questions map[string][]string `yaml:"questions"`
	Resources []string            `yaml:"resources"`
}

// Catalogue is the demo data vocabulary.
type Catalogue struct {
	Colleges         []string  `yaml:"colleges"`
	Branches         []string  `yaml:"branches"`
	Companies        []Company `yaml:"companies"`
	RejectionReasons []string  `yaml:"rejection_reasons"`
}

// LoadCatalogue reads a catalogue from path, or the built-in one when path is empty.
func LoadCatalogue(path string) (*Catalogue, error) {
	raw := defaultCatalogue
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalogue: %w", err)
		}
		raw = b
	}
	return ParseCatalogue(raw)
}

// ParseCatalogue decodes and checks a YAML catalogue.
func ParseCatalogue(raw []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	if len(c.Companies) == 0 {
		return nil, fmt.Errorf("catalogue has no companies")
	}
	for _, co := range c.Companies {
		if co.Name == "" || len(co.Roles) == 0 {
			return nil, fmt.Errorf("catalogue company %q needs a name and at least one role", co.Name)
		}
		if co.Package.Max < co.Package.Min {
			return nil, fmt.Errorf("catalogue company %q: package max below min", co.Name)
		}
	}
	return &c, nil
}
