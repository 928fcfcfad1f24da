package bank

import (
	"strings"
	"testing"
)

// --- Embedded data ---

func TestLoad_EmbeddedBanksAreValid(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := len(b.Assessment()); got != 20 {
		t.Errorf("assessment questions = %d, want 20", got)
	}
	if got := len(b.Guide()); got != 28 {
		t.Errorf("guide questions = %d, want 28", got)
	}
	if got := len(b.Dimensions()); got != len(AllDimensions) {
		t.Errorf("dimension infos = %d, want %d", got, len(AllDimensions))
	}
}

func TestAssessmentByDimension_Cardinality(t *testing.T) {
	b := Default()
	want := map[Dimension]int{
		Family:    3,
		Career:    3,
		Finances:  3,
		Lifestyle: 4,
		Values:    4,
		Intimacy:  3,
	}
	for d, n := range want {
		if got := len(b.AssessmentByDimension(d)); got != n {
			t.Errorf("AssessmentByDimension(%s) = %d questions, want %d", d, got, n)
		}
	}
}

func TestGuideByDimension_TagCardinality(t *testing.T) {
	b := Default()
	tests := []struct {
		dim       Dimension
		essential int
		high      int
	}{
		{Family, 2, 4},
		{Career, 2, 3},
		{Finances, 2, 3},
		{Lifestyle, 2, 4},
		{Values, 3, 3},
		{Intimacy, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.dim), func(t *testing.T) {
			var essential, high int
			for _, q := range b.GuideByDimension(tt.dim) {
				switch q.Tag {
				case TagEssential:
					essential++
				case TagHigh:
					high++
				}
			}
			if essential != tt.essential || high != tt.high {
				t.Errorf("essential/high = %d/%d, want %d/%d", essential, high, tt.essential, tt.high)
			}
		})
	}
}

func TestGuide_EveryQuestionLocalized(t *testing.T) {
	for _, q := range Default().Guide() {
		if q.Question.EN == "" || q.Question.HI == "" {
			t.Errorf("%s: question text missing a translation", q.ID)
		}
		if q.WhyItMatters.EN == "" || q.WhatToListenFor.EN == "" {
			t.Errorf("%s: rationale texts missing", q.ID)
		}
	}
}

func TestLookups(t *testing.T) {
	b := Default()

	q, ok := b.AssessmentQuestion("lifestyle_04")
	if !ok {
		t.Fatal("lifestyle_04 not found")
	}
	if q.Dimension != Lifestyle {
		t.Errorf("lifestyle_04 dimension = %s, want lifestyle", q.Dimension)
	}
	if _, ok := q.Option("C"); !ok {
		t.Error("lifestyle_04 should have option C")
	}
	if _, ok := q.Option("E"); ok {
		t.Error("option E should not exist")
	}

	if _, ok := b.AssessmentQuestion("fake_question"); ok {
		t.Error("unknown id should not be found")
	}

	g, ok := b.GuideQuestion("values_out_05")
	if !ok {
		t.Fatal("values_out_05 not found")
	}
	if g.Tag != TagEssential {
		t.Errorf("values_out_05 tag = %s, want essential", g.Tag)
	}
}

func TestAccessors_ReturnCopies(t *testing.T) {
	b := Default()
	list := b.Guide()
	list[0].ID = "mutated"

	if first := b.Guide()[0].ID; first == "mutated" {
		t.Error("Guide() must not expose the underlying slice")
	}
}

// --- Language ---

func TestText_In(t *testing.T) {
	txt := Text{EN: "hello", HI: "नमस्ते"}
	if got := txt.In(Hindi); got != "नमस्ते" {
		t.Errorf("In(hi) = %q", got)
	}
	if got := txt.In(English); got != "hello" {
		t.Errorf("In(en) = %q", got)
	}
	if got := (Text{EN: "only"}).In(Hindi); got != "only" {
		t.Errorf("missing translation should fall back to English, got %q", got)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := map[string]Language{"hi": Hindi, "en": English, "": English, "fr": English}
	for in, want := range tests {
		if got := ParseLanguage(in); got != want {
			t.Errorf("ParseLanguage(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestDimensionName(t *testing.T) {
	b := Default()
	if got := b.DimensionName(Finances, English); got != "Financial Values" {
		t.Errorf("DimensionName(finances, en) = %q", got)
	}
	if got := b.DimensionName(Dimension("nope"), English); got != "nope" {
		t.Errorf("unknown dimension should render its id, got %q", got)
	}
}

// --- Validation ---

const minimalGuide = "questions: []\n"

func TestParse_RejectsMalformedData(t *testing.T) {
	tests := []struct {
		name       string
		assessment string
		guide      string
		wantErr    string
	}{
		{
			name: "unknown dimension",
			assessment: `questions:
  - id: x_01
    dimension: astrology
    options: [{id: A}, {id: B}, {id: C}, {id: D}]
`,
			guide:   minimalGuide,
			wantErr: "unknown dimension",
		},
		{
			name: "duplicate id",
			assessment: `questions:
  - id: family_01
    dimension: family
    options: [{id: A}, {id: B}, {id: C}, {id: D}]
  - id: family_01
    dimension: family
    options: [{id: A}, {id: B}, {id: C}, {id: D}]
`,
			guide:   minimalGuide,
			wantErr: "duplicate id",
		},
		{
			name: "options out of order",
			assessment: `questions:
  - id: family_01
    dimension: family
    options: [{id: B}, {id: A}, {id: C}, {id: D}]
`,
			guide:   minimalGuide,
			wantErr: "option #1",
		},
		{
			name:       "unknown tag",
			assessment: "questions: []\n",
			guide: `questions:
  - id: family_out_01
    dimension: family
    tag: optional
`,
			wantErr: "unknown tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.assessment), []byte(tt.guide))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
