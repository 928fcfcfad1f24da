// Package bank holds the fixed reference data shipped with Samvaad.
//
// Two banks are embedded in the binary:
//   - the assessment bank: onboarding questions, each belonging to one
//     dimension, with four ordinal options A..D
//   - the guide bank: questions the user can ask during a meeting, each
//     tagged essential or high-importance
//
// Both are parsed once, validated, and never mutated afterwards. Everything
// downstream (scoring, selection) treats them as immutable tables.
package bank

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/assessment.yaml data/guide.yaml
var dataFS embed.FS

// --- Dimension enum ---

// Dimension is one relationship-compatibility category.
type Dimension string

const (
	Family    Dimension = "family"
	Career    Dimension = "career"
	Finances  Dimension = "finances"
	Lifestyle Dimension = "lifestyle"
	Values    Dimension = "values"
	Intimacy  Dimension = "intimacy"
)

// AllDimensions lists every assessment dimension in bank order.
var AllDimensions = []Dimension{Family, Career, Finances, Lifestyle, Values, Intimacy}

// GuideDimensions lists the dimensions that carry guide questions and
// therefore appear in a priority profile. Intimacy is scored but has no
// guide content.
var GuideDimensions = []Dimension{Family, Career, Finances, Lifestyle, Values}

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool {
	for _, known := range AllDimensions {
		if d == known {
			return true
		}
	}
	return false
}

// --- Language ---

// Language selects which localized text is rendered.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
)

// ParseLanguage maps a user-supplied code to a Language.
// Unknown codes fall back to English.
func ParseLanguage(code string) Language {
	if Language(code) == Hindi {
		return Hindi
	}
	return English
}

// Text is a string available in every supported language.
type Text struct {
	EN string `yaml:"en" json:"en"`
	HI string `yaml:"hi" json:"hi"`
}

// In returns the text for lang, falling back to English when the
// translation is missing.
func (t Text) In(lang Language) string {
	if lang == Hindi && t.HI != "" {
		return t.HI
	}
	return t.EN
}

// --- Records ---

// DimensionInfo is display metadata for a dimension.
type DimensionInfo struct {
	ID   Dimension `yaml:"id" json:"id"`
	Name Text      `yaml:"name" json:"name"`
	Icon string    `yaml:"icon" json:"icon"`
}

// Option is one answer choice of an assessment question.
type Option struct {
	ID   string `yaml:"id" json:"id"`
	Text Text   `yaml:"text" json:"text"`
}

// AssessmentQuestion is one onboarding question.
type AssessmentQuestion struct {
	ID        string    `yaml:"id" json:"id"`
	Dimension Dimension `yaml:"dimension" json:"dimension"`
	Text      Text      `yaml:"text" json:"text"`
	Options   []Option  `yaml:"options" json:"options"`
}

// Option returns the option with the given id.
func (q AssessmentQuestion) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Tag classifies the importance of a guide question. It is reference data,
// independent of any user's computed priority.
type Tag string

const (
	TagEssential Tag = "essential"
	TagHigh      Tag = "high"
)

// GuideQuestion is a question to ask a prospective partner.
type GuideQuestion struct {
	ID              string    `yaml:"id" json:"id"`
	Dimension       Dimension `yaml:"dimension" json:"dimension"`
	Tag             Tag       `yaml:"tag" json:"priority_level"`
	Question        Text      `yaml:"question" json:"question"`
	WhyItMatters    Text      `yaml:"why_it_matters" json:"why_it_matters"`
	WhatToListenFor Text      `yaml:"what_to_listen_for" json:"what_to_listen_for"`
}

// --- Bank ---

// Bank is the loaded, validated reference data.
type Bank struct {
	dimensions []DimensionInfo
	assessment []AssessmentQuestion
	guide      []GuideQuestion

	assessmentIdx map[string]int
	guideIdx      map[string]int
}

type assessmentFile struct {
	Dimensions []DimensionInfo       `yaml:"dimensions"`
	Questions  []AssessmentQuestion `yaml:"questions"`
}

type guideFile struct {
	Questions []GuideQuestion `yaml:"questions"`
}

var (
	defaultOnce sync.Once
	defaultBank *Bank
	defaultErr  error
)

// Default returns the process-wide bank parsed from the embedded data.
// It panics if the shipped data is malformed: that is a build defect,
// not a runtime condition.
func Default() *Bank {
	defaultOnce.Do(func() {
		defaultBank, defaultErr = Load()
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("bank: embedded data is invalid: %v", defaultErr))
	}
	return defaultBank
}

// Load parses and validates the embedded banks.
func Load() (*Bank, error) {
	rawAssessment, err := dataFS.ReadFile("data/assessment.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading assessment bank: %w", err)
	}
	rawGuide, err := dataFS.ReadFile("data/guide.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading guide bank: %w", err)
	}
	return Parse(rawAssessment, rawGuide)
}

// Parse builds a Bank from YAML documents. Exposed so tests (and tooling
// that previews edited content) can load banks other than the embedded one.
func Parse(assessmentYAML, guideYAML []byte) (*Bank, error) {
	var af assessmentFile
	if err := yaml.Unmarshal(assessmentYAML, &af); err != nil {
		return nil, fmt.Errorf("parsing assessment bank: %w", err)
	}
	var gf guideFile
	if err := yaml.Unmarshal(guideYAML, &gf); err != nil {
		return nil, fmt.Errorf("parsing guide bank: %w", err)
	}

	b := &Bank{
		dimensions:    af.Dimensions,
		assessment:    af.Questions,
		guide:         gf.Questions,
		assessmentIdx: make(map[string]int, len(af.Questions)),
		guideIdx:      make(map[string]int, len(gf.Questions)),
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// optionIDs is the required option sequence for every assessment question.
var optionIDs = []string{"A", "B", "C", "D"}

func (b *Bank) validate() error {
	for _, d := range b.dimensions {
		if !d.ID.Valid() {
			return fmt.Errorf("dimension info: unknown dimension %q", d.ID)
		}
	}

	for i, q := range b.assessment {
		if q.ID == "" {
			return fmt.Errorf("assessment question #%d: missing id", i+1)
		}
		if _, dup := b.assessmentIdx[q.ID]; dup {
			return fmt.Errorf("assessment question %q: duplicate id", q.ID)
		}
		if !q.Dimension.Valid() {
			return fmt.Errorf("assessment question %q: unknown dimension %q", q.ID, q.Dimension)
		}
		if len(q.Options) != len(optionIDs) {
			return fmt.Errorf("assessment question %q: want %d options, got %d", q.ID, len(optionIDs), len(q.Options))
		}
		for j, o := range q.Options {
			if o.ID != optionIDs[j] {
				return fmt.Errorf("assessment question %q: option #%d is %q, want %q", q.ID, j+1, o.ID, optionIDs[j])
			}
		}
		b.assessmentIdx[q.ID] = i
	}

	for i, q := range b.guide {
		if q.ID == "" {
			return fmt.Errorf("guide question #%d: missing id", i+1)
		}
		if _, dup := b.guideIdx[q.ID]; dup {
			return fmt.Errorf("guide question %q: duplicate id", q.ID)
		}
		if !q.Dimension.Valid() {
			return fmt.Errorf("guide question %q: unknown dimension %q", q.ID, q.Dimension)
		}
		if q.Tag != TagEssential && q.Tag != TagHigh {
			return fmt.Errorf("guide question %q: unknown tag %q", q.ID, q.Tag)
		}
		b.guideIdx[q.ID] = i
	}
	return nil
}

// --- Accessors ---

// Dimensions returns display metadata for every dimension, in bank order.
func (b *Bank) Dimensions() []DimensionInfo {
	return append([]DimensionInfo(nil), b.dimensions...)
}

// DimensionInfo returns display metadata for d.
func (b *Bank) DimensionInfo(d Dimension) (DimensionInfo, bool) {
	for _, info := range b.dimensions {
		if info.ID == d {
			return info, true
		}
	}
	return DimensionInfo{}, false
}

// DimensionName returns the localized display name of d, or the raw
// dimension id when no metadata exists.
func (b *Bank) DimensionName(d Dimension, lang Language) string {
	if info, ok := b.DimensionInfo(d); ok {
		return info.Name.In(lang)
	}
	return string(d)
}

// Assessment returns every assessment question in bank order.
func (b *Bank) Assessment() []AssessmentQuestion {
	return append([]AssessmentQuestion(nil), b.assessment...)
}

// AssessmentByDimension returns the assessment questions of d in bank order.
func (b *Bank) AssessmentByDimension(d Dimension) []AssessmentQuestion {
	var out []AssessmentQuestion
	for _, q := range b.assessment {
		if q.Dimension == d {
			out = append(out, q)
		}
	}
	return out
}

// AssessmentQuestion looks up an assessment question by id.
func (b *Bank) AssessmentQuestion(id string) (AssessmentQuestion, bool) {
	i, ok := b.assessmentIdx[id]
	if !ok {
		return AssessmentQuestion{}, false
	}
	return b.assessment[i], true
}

// Guide returns every guide question in bank order.
func (b *Bank) Guide() []GuideQuestion {
	return append([]GuideQuestion(nil), b.guide...)
}

// GuideByDimension returns the guide questions of d in bank order.
func (b *Bank) GuideByDimension(d Dimension) []GuideQuestion {
	var out []GuideQuestion
	for _, q := range b.guide {
		if q.Dimension == d {
			out = append(out, q)
		}
	}
	return out
}

// GuideQuestion looks up a guide question by id.
func (b *Bank) GuideQuestion(id string) (GuideQuestion, bool) {
	i, ok := b.guideIdx[id]
	if !ok {
		return GuideQuestion{}, false
	}
	return b.guide[i], true
}
