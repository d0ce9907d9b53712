// Package questionnaire defines the risk-tolerance questionnaire and scores
// answer sets into a risk profile.
package questionnaire

// RiskProfile is the coarse investor-risk category derived from an answer set.
type RiskProfile string

const (
	Conservative RiskProfile = "conservative"
	Moderate     RiskProfile = "moderate"
	Aggressive   RiskProfile = "aggressive"
)

// Profiles lists every profile from least to most risk-seeking.
var Profiles = []RiskProfile{Conservative, Moderate, Aggressive}

// Valid reports whether p is one of the known profiles.
func (p RiskProfile) Valid() bool {
	switch p {
	case Conservative, Moderate, Aggressive:
		return true
	}
	return false
}

// Option is an answer label drawn from the fixed alphabet {A, B, C}.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
)

// optionWeights maps each option to its score contribution.
var optionWeights = map[Option]int{
	OptionA: 1,
	OptionB: 2,
	OptionC: 3,
}

// Weight returns the score contribution of o and whether o is a known option.
func (o Option) Weight() (int, bool) {
	w, ok := optionWeights[o]
	return w, ok
}

// AnswerSet maps question IDs to the chosen option label.
type AnswerSet map[string]string

// Choice is one selectable answer to a question.
type Choice struct {
	Option Option `json:"option"`
	Text   string `json:"text"`
}

// Question is one item of the questionnaire.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices"`
}

// DefaultQuestions is the five-question instrument the default thresholds are
// calibrated for.
var DefaultQuestions = []Question{
	{
		ID:   "risk_tolerance",
		Text: "How would you rate your willingness to take risk when investing?",
		Choices: []Choice{
			{OptionA, "I prefer minimal risk, even if it limits returns"},
			{OptionB, "I accept moderate risk for steady returns"},
			{OptionC, "I accept high risk for the chance of high returns"},
		},
	},
	{
		ID:   "capital_share",
		Text: "What share of your savings are you ready to invest?",
		Choices: []Choice{
			{OptionA, "No more than 10%, kept aside for emergencies"},
			{OptionB, "Between 10% and 30%, for moderate growth of savings"},
			{OptionC, "More than 30%, I want to put my capital to work"},
		},
	},
	{
		ID:   "volatility_tolerance",
		Text: "How would you react to a temporary drop in the value of your investments?",
		Choices: []Choice{
			{OptionA, "I would worry and probably want to sell"},
			{OptionB, "It would bother me a little, but I would wait for a recovery"},
			{OptionC, "It is part of the strategy and I would wait for growth"},
		},
	},
	{
		ID:   "financial_goals",
		Text: "What are your main financial goals?",
		Choices: []Choice{
			{OptionA, "Preserve capital with minimal risk"},
			{OptionB, "Earn a steady income to grow my safety cushion"},
			{OptionC, "Grow capital as much as possible, even with risk"},
		},
	},
	{
		ID:   "investment_horizon",
		Text: "What is your investment horizon?",
		Choices: []Choice{
			{OptionA, "Less than 3 years, I need the money soon"},
			{OptionB, "3 to 10 years, I am aiming for mid-term results"},
			{OptionC, "More than 10 years, I have long-term plans"},
		},
	},
}
