package mst

import (
	"strings"

	"github.com/abhisek/paesdx/internal/itembank"
)

// DontKnow is the response a student gives to say they do not know the
// answer. It is a distinct signal from a wrong guess and matches
// case-insensitively.
const DontKnow = itembank.DontKnowResponse

// Answer is one answer event. A nil Response means the item was not
// attempted.
type Answer struct {
	ItemID   string  `json:"item_id"`
	Response *string `json:"response"`
}

// Respond builds an attempted answer.
func Respond(itemID, response string) Answer {
	return Answer{ItemID: itemID, Response: &response}
}

// Skip builds an unattempted answer.
func Skip(itemID string) Answer {
	return Answer{ItemID: itemID}
}

// Outcome is the graded result of an answer.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeDontKnow  Outcome = "dont_know"
	OutcomeOmitted   Outcome = "omitted"
)

// Grade classifies a against the item's correct choice. Choices compare
// case-insensitively with surrounding whitespace ignored.
func Grade(item itembank.Item, a Answer) Outcome {
	if a.Response == nil {
		return OutcomeOmitted
	}
	resp := strings.TrimSpace(*a.Response)
	switch {
	case strings.EqualFold(resp, DontKnow):
		return OutcomeDontKnow
	case strings.EqualFold(resp, strings.TrimSpace(item.CorrectChoice)):
		return OutcomeCorrect
	default:
		return OutcomeIncorrect
	}
}
