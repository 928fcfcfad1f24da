// Package scoring converts assessment answers into a priority profile.
//
// Each answered question contributes its option's points (A=3, B=2, C=1,
// D=0). A dimension's score is the mean over its answered questions only;
// a dimension with no answers scores 0. Scores are then thresholded into
// three tiers with inclusive lower bounds:
//
//	score >= 2.0  → high
//	score >= 1.0  → medium
//	otherwise     → flexible
//
// Everything here is a pure function of its inputs and safe for concurrent use.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/samvaad/internal/bank"
)

// --- Answer ---

// Answer is one of the four ordinal choices of an assessment question.
type Answer string

const (
	AnswerA Answer = "A"
	AnswerB Answer = "B"
	AnswerC Answer = "C"
	AnswerD Answer = "D"
)

// ErrInvalidAnswer is returned by ParseAnswer for anything other than A-D.
var ErrInvalidAnswer = errors.New("answer must be one of A, B, C, D")

var answerPoints = map[Answer]int{
	AnswerA: 3,
	AnswerB: 2,
	AnswerC: 1,
	AnswerD: 0,
}

// Points returns the point value of the answer and whether it is known.
func (a Answer) Points() (int, bool) {
	p, ok := answerPoints[a]
	return p, ok
}

// ParseAnswer normalizes user input ("a", " B ") into an Answer.
func ParseAnswer(s string) (Answer, error) {
	a := Answer(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := answerPoints[a]; !ok {
		return "", fmt.Errorf("%w: got %q", ErrInvalidAnswer, s)
	}
	return a, nil
}

// Answers maps assessment question ids to the chosen answer. It is sparse:
// unanswered questions are simply absent.
type Answers map[string]Answer

// Clone returns an independent copy of the answers.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// --- Priority ---

// PriorityLevel is the tier a dimension's score falls into.
type PriorityLevel string

const (
	High     PriorityLevel = "high"
	Medium   PriorityLevel = "medium"
	Flexible PriorityLevel = "flexible"
)

// Rank orders levels for sorting: high < medium < flexible.
// Unknown values rank with flexible.
func (p PriorityLevel) Rank() int {
	switch p {
	case High:
		return 0
	case Medium:
		return 1
	default:
		return 2
	}
}

// ScoreToPriority thresholds a dimension score. Lower bounds are inclusive:
// exactly 2.0 is high and exactly 1.0 is medium.
func ScoreToPriority(score float64) PriorityLevel {
	switch {
	case score >= 2.0:
		return High
	case score >= 1.0:
		return Medium
	default:
		return Flexible
	}
}

// Profile is the dense per-dimension priority classification consumed by
// the guide. It covers the dimensions that carry guide questions; intimacy
// is scored (see DimensionScores) but not part of the profile.
type Profile struct {
	Family    PriorityLevel `json:"family"`
	Career    PriorityLevel `json:"career"`
	Finances  PriorityLevel `json:"finances"`
	Lifestyle PriorityLevel `json:"lifestyle"`
	Values    PriorityLevel `json:"values"`
}

// FlexibleProfile is the profile of a user who answered nothing.
func FlexibleProfile() Profile {
	return Profile{
		Family:    Flexible,
		Career:    Flexible,
		Finances:  Flexible,
		Lifestyle: Flexible,
		Values:    Flexible,
	}
}

// Level returns the priority of d. Dimensions outside the profile report
// flexible.
func (p Profile) Level(d bank.Dimension) PriorityLevel {
	switch d {
	case bank.Family:
		return p.Family
	case bank.Career:
		return p.Career
	case bank.Finances:
		return p.Finances
	case bank.Lifestyle:
		return p.Lifestyle
	case bank.Values:
		return p.Values
	default:
		return Flexible
	}
}

// With returns a copy of p with d set to level. Dimensions outside the
// profile are ignored.
func (p Profile) With(d bank.Dimension, level PriorityLevel) Profile {
	switch d {
	case bank.Family:
		p.Family = level
	case bank.Career:
		p.Career = level
	case bank.Finances:
		p.Finances = level
	case bank.Lifestyle:
		p.Lifestyle = level
	case bank.Values:
		p.Values = level
	}
	return p
}

// --- Scorer ---

// Scorer scores answers against an assessment bank.
type Scorer struct {
	questions []bank.AssessmentQuestion
}

// New creates a Scorer over the given assessment questions.
func New(questions []bank.AssessmentQuestion) *Scorer {
	return &Scorer{questions: questions}
}

// Default returns a Scorer over the embedded assessment bank.
func Default() *Scorer {
	return New(bank.Default().Assessment())
}

// ScoreDimension returns the mean points of the answered questions of d,
// in [0, 3]. Unanswered questions are excluded from both sum and count;
// with nothing answered the score is 0.
func (s *Scorer) ScoreDimension(d bank.Dimension, answers Answers) float64 {
	sum, answered := 0, 0
	for _, q := range s.questions {
		if q.Dimension != d {
			continue
		}
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		points, ok := a.Points()
		if !ok {
			continue
		}
		sum += points
		answered++
	}
	if answered == 0 {
		return 0
	}
	return float64(sum) / float64(answered)
}

// CalculateProfile scores every profile dimension independently.
func (s *Scorer) CalculateProfile(answers Answers) Profile {
	p := FlexibleProfile()
	for _, d := range bank.GuideDimensions {
		p = p.With(d, ScoreToPriority(s.ScoreDimension(d, answers)))
	}
	return p
}

// DimensionScores returns the raw score of every dimension, intimacy
// included.
func (s *Scorer) DimensionScores(answers Answers) map[bank.Dimension]float64 {
	out := make(map[bank.Dimension]float64, len(bank.AllDimensions))
	for _, d := range bank.AllDimensions {
		out[d] = s.ScoreDimension(d, answers)
	}
	return out
}
