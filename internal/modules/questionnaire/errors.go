package questionnaire

import "fmt"

// InvalidAnswerError is returned for malformed or incomplete answer sets.
type InvalidAnswerError struct {
	Question string
	Answer   string
	Reason   string
}

func (e *InvalidAnswerError) Error() string {
	if e.Answer != "" {
		return fmt.Sprintf("invalid answer %q for question %q: %s", e.Answer, e.Question, e.Reason)
	}
	if e.Question != "" {
		return fmt.Sprintf("invalid answer for question %q: %s", e.Question, e.Reason)
	}
	return "invalid answers: " + e.Reason
}
