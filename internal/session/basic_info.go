package session

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidBasicInfo wraps every BasicInfo validation failure.
var ErrInvalidBasicInfo = errors.New("invalid basic info")

// BasicInfo is collected at onboarding and feeds the guide summary.
type BasicInfo struct {
	Gender       string `json:"gender"`
	AgeRange     string `json:"age_range"`
	FirstMeeting bool   `json:"is_first_meeting"`
	Timeline     string `json:"timeline"`
}

var (
	validGenders   = []string{"male", "female"}
	validAgeRanges = []string{"23-25", "26-28", "29-32", "33-35", "35+"}
	validTimelines = []string{"thisWeek", "withinMonth", "exploring"}
)

// Genders, AgeRanges and Timelines expose the accepted values for tool
// schemas.
func Genders() []string   { return append([]string(nil), validGenders...) }
func AgeRanges() []string { return append([]string(nil), validAgeRanges...) }
func Timelines() []string { return append([]string(nil), validTimelines...) }

// Validate checks every enumerated field.
func (b BasicInfo) Validate() error {
	if !slices.Contains(validGenders, b.Gender) {
		return fmt.Errorf("%w: gender %q", ErrInvalidBasicInfo, b.Gender)
	}
	if !slices.Contains(validAgeRanges, b.AgeRange) {
		return fmt.Errorf("%w: age range %q", ErrInvalidBasicInfo, b.AgeRange)
	}
	if !slices.Contains(validTimelines, b.Timeline) {
		return fmt.Errorf("%w: timeline %q", ErrInvalidBasicInfo, b.Timeline)
	}
	return nil
}
