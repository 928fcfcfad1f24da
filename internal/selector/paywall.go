package selector

// FreeQuestionLimit is the number of leading questions in a selection that
// are visible without a subscription. Locking is positional: it applies to
// the index in the ordered selection, never to a particular question.
const FreeQuestionLimit = 7

// FreeQuestions returns the first FreeQuestionLimit items of list, or all
// of it when shorter. The result's capacity ends at the cut, so appending to
// it never writes into the locked part of list.
func FreeQuestions[T any](list []T) []T {
	if len(list) <= FreeQuestionLimit {
		return list
	}
	return list[:FreeQuestionLimit:FreeQuestionLimit]
}

// LockedQuestions returns the items after the free cut; empty when list is
// no longer than FreeQuestionLimit.
func LockedQuestions[T any](list []T) []T {
	if len(list) <= FreeQuestionLimit {
		return nil
	}
	return list[FreeQuestionLimit:]
}

// IsQuestionLocked reports whether position index falls behind the paywall.
func IsQuestionLocked(index int) bool {
	return index >= FreeQuestionLimit
}

// Entry is one position of a selection as shown to a user.
type Entry[T any] struct {
	Index  int  `json:"index"`
	Locked bool `json:"locked"`
	Item   T    `json:"item"`
}

// Annotate marks each position of list as locked or not. Premium users see
// nothing locked.
func Annotate[T any](list []T, premium bool) []Entry[T] {
	out := make([]Entry[T], len(list))
	for i, item := range list {
		out[i] = Entry[T]{
			Index:  i,
			Locked: !premium && IsQuestionLocked(i),
			Item:   item,
		}
	}
	return out
}
