// Package srs runs spaced-repetition review sessions against the review
// queue endpoints, feeding results into the game hub energy meter.
package srs

import "strings"

// ActivityType names the card style a word is practiced with.
type ActivityType string

const (
	ActivityExposure  ActivityType = "exposure"
	ActivityMCQ       ActivityType = "mcq"
	ActivityTyping    ActivityType = "typing"
	ActivityTapping   ActivityType = "tapping"
	ActivityListening ActivityType = "listening"
)

// ReviewWord is one queued card.
type ReviewWord struct {
	WordID                int          `json:"word_id"`
	Prompt                string       `json:"prompt"`
	Answer                string       `json:"answer"`
	Choices               []string     `json:"choices,omitempty"`
	Audio                 string       `json:"audio,omitempty"`
	SuggestedNextActivity ActivityType `json:"suggested_next_activity,omitempty"`
}

// Activity reports the card style to practice this word with, defaulting to
// exposure when the queue did not suggest one.
func (w ReviewWord) Activity() ActivityType {
	if w.SuggestedNextActivity != "" {
		return w.SuggestedNextActivity
	}
	return ActivityExposure
}

// CheckAnswer grades one response. Typing tolerates whitespace and case;
// multiple choice requires the exact option; the self-paced activities
// (exposure, tapping, listening) grade as seen.
func CheckAnswer(activity ActivityType, word ReviewWord, answer string) bool {
	switch activity {
	case ActivityTyping:
		return normalize(answer) == normalize(word.Answer)
	case ActivityMCQ:
		return answer == word.Answer
	default:
		return true
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
