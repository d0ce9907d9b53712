package questionnaire

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Thresholds are the inclusive upper score bounds of the two lower profiles.
// Scores above ModerateMax are aggressive.
type Thresholds struct {
	ConservativeMax int
	ModerateMax     int
}

// Fractions of the score range (n..3n) covered by the lower profiles. They
// reproduce the 7 / 11 bounds of the five-question instrument.
const (
	conservativeFraction = 0.2
	moderateFraction     = 0.6
)

// ThresholdsFor derives thresholds for a questionnaire of n questions, each
// weighted 1..3, keeping the proportions of the default instrument.
func ThresholdsFor(n int) Thresholds {
	span := float64(2 * n)
	return Thresholds{
		ConservativeMax: n + int(math.Round(span*conservativeFraction)),
		ModerateMax:     n + int(math.Round(span*moderateFraction)),
	}
}

// Classify maps a total score onto a profile.
func (t Thresholds) Classify(score int) RiskProfile {
	switch {
	case score <= t.ConservativeMax:
		return Conservative
	case score <= t.ModerateMax:
		return Moderate
	default:
		return Aggressive
	}
}

// Scorer turns answer sets into risk profiles for a fixed question set.
// A Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	questions  []Question
	ids        map[string]bool
	thresholds Thresholds
}

// NewScorer creates a scorer for the given questions with thresholds derived
// from the question count.
func NewScorer(questions []Question) *Scorer {
	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		ids[q.ID] = true
	}
	return &Scorer{
		questions:  questions,
		ids:        ids,
		thresholds: ThresholdsFor(len(questions)),
	}
}

// NewDefaultScorer creates a scorer for DefaultQuestions.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultQuestions)
}

// Questions returns the question set the scorer validates against.
func (s *Scorer) Questions() []Question {
	return s.questions
}

// Thresholds returns the profile bounds in use.
func (s *Scorer) Thresholds() Thresholds {
	return s.thresholds
}

// Score validates answers and returns their total weight.
// Every question must be answered exactly with A, B or C (case and
// surrounding whitespace are ignored); unknown question IDs are rejected.
func (s *Scorer) Score(answers AnswerSet) (int, error) {
	if len(answers) == 0 {
		return 0, &InvalidAnswerError{Reason: "no answers provided"}
	}

	unknown := make([]string, 0)
	for id := range answers {
		if !s.ids[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, &InvalidAnswerError{
			Question: unknown[0],
			Reason:   fmt.Sprintf("unknown question (%d unknown in total)", len(unknown)),
		}
	}

	score := 0
	for _, q := range s.questions {
		raw, ok := answers[q.ID]
		if !ok {
			return 0, &InvalidAnswerError{Question: q.ID, Reason: "question not answered"}
		}
		weight, ok := Option(strings.ToUpper(strings.TrimSpace(raw))).Weight()
		if !ok {
			return 0, &InvalidAnswerError{Question: q.ID, Answer: raw, Reason: "option must be one of A, B, C"}
		}
		score += weight
	}

	return score, nil
}

// ScoreProfile maps answers to a risk profile.
func (s *Scorer) ScoreProfile(answers AnswerSet) (RiskProfile, error) {
	score, err := s.Score(answers)
	if err != nil {
		return "", err
	}
	return s.thresholds.Classify(score), nil
}
