package outfit

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

var (
	ErrNoBands         = errors.New("rule table has no temperature bands")
	ErrBandOrder       = errors.New("temperature bands must be ordered warm to cold")
	ErrEmptyVocabulary = errors.New("rule table vocabulary is empty")
)

// Band is one temperature range of the rule table
type Band struct {
	Name             string   `yaml:"name" json:"name"`
	MinF             *float64 `yaml:"min_f" json:"min_f,omitempty"`
	Top              string   `yaml:"top" json:"top"`
	Layers           []string `yaml:"layers" json:"layers,omitempty"`
	TopAlternates    []string `yaml:"top_alternates" json:"top_alternates,omitempty"`
	Bottom           string   `yaml:"bottom" json:"bottom"`
	BottomAlternates []string `yaml:"bottom_alternates" json:"bottom_alternates,omitempty"`
	Accessories      []string `yaml:"accessories" json:"accessories,omitempty"`
}

// matches reports whether the effective temperature falls in this band
func (b Band) matches(tempF float64) bool {
	return b.MinF == nil || tempF >= *b.MinF
}

// Vocabulary is the fixed list of clothing words searched for in labels,
// most specific phrase first within each category
type Vocabulary struct {
	Tops        []string `yaml:"tops" json:"tops"`
	Bottoms     []string `yaml:"bottoms" json:"bottoms"`
	Accessories []string `yaml:"accessories" json:"accessories"`
	// WholeWords stops "pants" from matching inside "participants"
	WholeWords  bool     `yaml:"whole_words" json:"whole_words"`
}

// SunnyRule adds accessories on clear days in the listed bands
type SunnyRule struct {
	Bands       []string `yaml:"bands"`
	Accessories []string `yaml:"accessories"`
}

// RuleTable drives outfit derivation
type RuleTable struct {
	ToleranceOffsetF float64                `yaml:"tolerance_offset_f"`
	NightOffsetF     float64                `yaml:"night_offset_f"`
	Bands            []Band                 `yaml:"bands"`
	Conditions       map[Condition][]string `yaml:"conditions"`
	Sunny            SunnyRule              `yaml:"sunny"`
	Vocabulary       Vocabulary             `yaml:"vocabulary"`
}

// DefaultRules returns the embedded rule table
func DefaultRules() *RuleTable {
	table, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return table
}

// LoadRules reads a rule table from a YAML file, or returns the embedded
// table when path is empty
func LoadRules(path string) (*RuleTable, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes and validates a YAML rule table
func ParseRules(data []byte) (*RuleTable, error) {
	var table RuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// Validate checks the band ordering invariant: strictly descending lower
// bounds, with only the last band unbounded
func (t *RuleTable) Validate() error {
	if len(t.Bands) == 0 {
		return ErrNoBands
	}
	prev := math.Inf(1)
	for i, band := range t.Bands {
		last := i == len(t.Bands)-1
		if band.MinF == nil {
			if !last {
				return fmt.Errorf("%w: band %q has no lower bound but is not last", ErrBandOrder, band.Name)
			}
			continue
		}
		if *band.MinF >= prev {
			return fmt.Errorf("%w: band %q", ErrBandOrder, band.Name)
		}
		prev = *band.MinF
	}
	if t.Bands[len(t.Bands)-1].MinF != nil {
		return fmt.Errorf("%w: last band %q must have no lower bound", ErrBandOrder, t.Bands[len(t.Bands)-1].Name)
	}
	v := t.Vocabulary
	if len(v.Tops)+len(v.Bottoms)+len(v.Accessories) == 0 {
		return ErrEmptyVocabulary
	}
	return nil
}

// bandIndex returns the index of the band matching tempF
func (t *RuleTable) bandIndex(tempF float64) int {
	for i, band := range t.Bands {
		if band.matches(tempF) {
			return i
		}
	}
	return len(t.Bands) - 1
}

// BandFor returns the band matching an effective temperature
func (t *RuleTable) BandFor(tempF float64) Band {
	return t.Bands[t.bandIndex(tempF)]
}

func (t *RuleTable) bandByName(name string) (int, bool) {
	for i, band := range t.Bands {
		if band.Name == name {
			return i, true
		}
	}
	return 0, false
}
