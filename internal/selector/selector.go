// Package selector turns a priority profile into the ordered list of guide
// questions a user should ask, and splits that list into a free and a
// locked part.
//
// Per dimension:
//
//	high      → every question, in bank order
//	medium    → essential questions, then the first MediumHighQuestions
//	            high-tagged questions
//	flexible  → essential questions only (also the fallback for unknown levels)
//
// Dimensions are concatenated high first, then medium, then flexible; ties
// keep bank order.
package selector

import (
	"sort"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/scoring"
)

// MediumHighQuestions is how many high-tagged questions a medium-priority
// dimension contributes, taken in bank order.
const MediumHighQuestions = 2

// Selector selects from a guide bank.
type Selector struct {
	questions []bank.GuideQuestion
}

// New creates a Selector over the given guide questions.
func New(questions []bank.GuideQuestion) *Selector {
	return &Selector{questions: questions}
}

// Default returns a Selector over the embedded guide bank.
func Default() *Selector {
	return New(bank.Default().Guide())
}

// ForDimension returns the questions of d selected for level.
func (s *Selector) ForDimension(d bank.Dimension, level scoring.PriorityLevel) []bank.GuideQuestion {
	var all, essential, high []bank.GuideQuestion
	for _, q := range s.questions {
		if q.Dimension != d {
			continue
		}
		all = append(all, q)
		switch q.Tag {
		case bank.TagEssential:
			essential = append(essential, q)
		case bank.TagHigh:
			high = append(high, q)
		}
	}

	switch level {
	case scoring.High:
		return all
	case scoring.Medium:
		n := min(MediumHighQuestions, len(high))
		return append(essential, high[:n]...)
	default:
		return essential
	}
}

// ByProfile returns the full ordered, deduplicated selection for profile.
func (s *Selector) ByProfile(profile scoring.Profile) []bank.GuideQuestion {
	dims := append([]bank.Dimension(nil), bank.GuideDimensions...)
	sort.SliceStable(dims, func(i, j int) bool {
		return profile.Level(dims[i]).Rank() < profile.Level(dims[j]).Rank()
	})

	var selected []bank.GuideQuestion
	for _, d := range dims {
		selected = append(selected, s.ForDimension(d, profile.Level(d))...)
	}
	return dedupe(selected)
}

// dedupe drops any question whose id already appeared, keeping the first.
func dedupe(list []bank.GuideQuestion) []bank.GuideQuestion {
	seen := make(map[string]bool, len(list))
	out := make([]bank.GuideQuestion, 0, len(list))
	for _, q := range list {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}
