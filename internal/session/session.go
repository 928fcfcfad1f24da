// Package session owns one user's state and the transitions over it.
//
// A Record is plain data: answers, the current profile run, onboarding
// basics, bookmarks and the subscription flag. Transitions mutate the record
// in memory; the caller persists it through a Repository. The scoring and
// selection engines are passed in explicitly, so nothing here depends on
// global state.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/scoring"
	"github.com/HendryAvila/samvaad/internal/selector"
	"github.com/google/uuid"
)

var (
	// ErrUnknownQuestion is returned when an answer targets an id that is
	// not in the assessment bank.
	ErrUnknownQuestion = errors.New("unknown assessment question")
	// ErrNoProfile is returned when the guide is requested before the
	// assessment has been completed.
	ErrNoProfile = errors.New("assessment not completed")
	// ErrNotVisible is returned when bookmarking a guide question the user
	// cannot see (not selected, or behind the paywall).
	ErrNotVisible = errors.New("guide question not visible to this user")
	// ErrInvalidSummary is returned when a guide summary is empty or too long.
	ErrInvalidSummary = errors.New("invalid guide summary")
)

// MaxSummaryRunes bounds a stored guide summary.
const MaxSummaryRunes = 1000

// Repository persists records. Load of an unknown user returns a fresh
// record, not an error.
type Repository interface {
	Load(ctx context.Context, userID string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, userID string) error
	History(ctx context.Context, userID string, limit int) ([]ProfileRun, error)
}

// ProfileRun is the result of one completed assessment.
type ProfileRun struct {
	ID        string                     `json:"id"`
	Profile   scoring.Profile            `json:"profile"`
	Scores    map[bank.Dimension]float64 `json:"scores"`
	CreatedAt string                     `json:"created_at"`
}

// Record is everything stored for one user.
type Record struct {
	UserID             string          `json:"user_id"`
	Language           bank.Language   `json:"language"`
	BasicInfo          *BasicInfo      `json:"basic_info,omitempty"`
	Answers            scoring.Answers `json:"assessment_answers"`
	Run                *ProfileRun     `json:"profile_run,omitempty"`
	AssessmentComplete bool            `json:"assessment_complete"`
	RetakeCount        int             `json:"retake_count"`
	SavedGuide         []string        `json:"saved_guide"`
	GuideSummary       string          `json:"guide_summary,omitempty"`
	Premium            bool            `json:"is_premium"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

// NewRecord returns the default state of a user who has done nothing yet.
func NewRecord(userID string, lang bank.Language) *Record {
	now := timeNow().UTC().Format(timeLayout)
	return &Record{
		UserID:     userID,
		Language:   lang,
		Answers:    scoring.Answers{},
		SavedGuide: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Profile returns the current priority profile, or nil before completion.
func (r *Record) Profile() *scoring.Profile {
	if r.Run == nil {
		return nil
	}
	p := r.Run.Profile
	return &p
}

func (r *Record) touch() {
	r.UpdatedAt = timeNow().UTC().Format(timeLayout)
}

// --- Assessment ---

// SetAnswer records one answer. The question must exist in b.
func (r *Record) SetAnswer(b *bank.Bank, questionID string, a scoring.Answer) error {
	if _, ok := b.AssessmentQuestion(questionID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if _, ok := a.Points(); !ok {
		return fmt.Errorf("question %q: %w", questionID, scoring.ErrInvalidAnswer)
	}
	if r.Answers == nil {
		r.Answers = scoring.Answers{}
	}
	r.Answers[questionID] = a
	r.touch()
	return nil
}

// SetAnswers records a batch atomically: nothing is applied if any entry
// is invalid.
func (r *Record) SetAnswers(b *bank.Bank, answers scoring.Answers) error {
	for id, a := range answers {
		if _, ok := b.AssessmentQuestion(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
		if _, ok := a.Points(); !ok {
			return fmt.Errorf("question %q: %w", id, scoring.ErrInvalidAnswer)
		}
	}
	if r.Answers == nil {
		r.Answers = scoring.Answers{}
	}
	for id, a := range answers {
		r.Answers[id] = a
	}
	r.touch()
	return nil
}

// Complete scores the current answers and stores the result as a new run.
// Partial answers are allowed: unanswered dimensions come out flexible.
func (r *Record) Complete(s *scoring.Scorer) ProfileRun {
	run := ProfileRun{
		ID:        uuid.NewString(),
		Profile:   s.CalculateProfile(r.Answers),
		Scores:    s.DimensionScores(r.Answers),
		CreatedAt: timeNow().UTC().Format(timeLayout),
	}
	r.Run = &run
	r.AssessmentComplete = true
	r.GuideSummary = ""
	r.touch()
	return run
}

// Retake discards answers, the current profile and its summary so the
// questionnaire can be taken again. Earlier runs stay in the repository's
// history; bookmarks are kept.
func (r *Record) Retake() {
	r.Answers = scoring.Answers{}
	r.Run = nil
	r.AssessmentComplete = false
	r.GuideSummary = ""
	r.RetakeCount++
	r.touch()
}

// DimensionProgress is how much of one dimension has been answered.
type DimensionProgress struct {
	Dimension bank.Dimension `json:"dimension"`
	Answered  int            `json:"answered"`
	Total     int            `json:"total"`
}

// Progress reports answered/total per dimension, in bank order.
func (r *Record) Progress(b *bank.Bank) []DimensionProgress {
	out := make([]DimensionProgress, 0, len(bank.AllDimensions))
	for _, d := range bank.AllDimensions {
		qs := b.AssessmentByDimension(d)
		p := DimensionProgress{Dimension: d, Total: len(qs)}
		for _, q := range qs {
			if _, ok := r.Answers[q.ID]; ok {
				p.Answered++
			}
		}
		out = append(out, p)
	}
	return out
}

// --- Settings ---

// SetBasicInfo validates and stores onboarding basics.
func (r *Record) SetBasicInfo(info BasicInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	r.BasicInfo = &info
	r.touch()
	return nil
}

// SetLanguage switches the rendering language.
func (r *Record) SetLanguage(lang bank.Language) {
	r.Language = lang
	r.touch()
}

// SetPremium records the subscription state reported by the billing side.
func (r *Record) SetPremium(premium bool) {
	r.Premium = premium
	r.touch()
}

// --- Guide ---

// GuideEntry is one annotated position of the user's guide.
type GuideEntry = selector.Entry[bank.GuideQuestion]

// Guide returns the user's selected questions with locked flags applied
// for their subscription tier.
func (r *Record) Guide(sel *selector.Selector) ([]GuideEntry, error) {
	p := r.Profile()
	if p == nil {
		return nil, ErrNoProfile
	}
	return selector.Annotate(sel.ByProfile(*p), r.Premium), nil
}

// SetGuideSummary stores the personal summary written for the current
// profile. It is cleared whenever the profile changes.
func (r *Record) SetGuideSummary(text string) error {
	if r.Run == nil {
		return ErrNoProfile
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSummary)
	}
	if n := utf8.RuneCountInString(text); n > MaxSummaryRunes {
		return fmt.Errorf("%w: %d characters, max %d", ErrInvalidSummary, n, MaxSummaryRunes)
	}
	r.GuideSummary = text
	r.touch()
	return nil
}

// ToggleSaved bookmarks a visible guide question, or removes the bookmark
// if already saved. It reports whether the question is saved afterwards.
func (r *Record) ToggleSaved(sel *selector.Selector, questionID string) (bool, error) {
	if i := slices.Index(r.SavedGuide, questionID); i >= 0 {
		r.SavedGuide = slices.Delete(r.SavedGuide, i, i+1)
		r.touch()
		return false, nil
	}

	entries, err := r.Guide(sel)
	if err != nil {
		return false, err
	}
	visible := false
	for _, e := range entries {
		if e.Item.ID == questionID && !e.Locked {
			visible = true
			break
		}
	}
	if !visible {
		return false, fmt.Errorf("%w: %q", ErrNotVisible, questionID)
	}

	r.SavedGuide = append(r.SavedGuide, questionID)
	r.touch()
	return true, nil
}
