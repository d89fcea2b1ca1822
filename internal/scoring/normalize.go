package scoring

import "github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"

// MaxQuestionScore is the unweighted maximum of every question type.
const MaxQuestionScore = 4

// Unweighted scores per answer.
const (
	yesScore    = 4
	noScore     = 1
	choiceScore = 3 // flat: the chosen option itself is not ranked
)

// Normalize converts an answer to its weighted score and weighted maximum.
// A nil answer is unanswered and scores 0 against the full maximum. The
// answer is assumed to have passed questionnaire.Validate.
func Normalize(q questionnaire.Question, a questionnaire.Answer) (score, max int) {
	max = MaxQuestionScore * q.Weight
	switch v := a.(type) {
	case questionnaire.YesNo:
		if v {
			score = yesScore
		} else {
			score = noScore
		}
	case questionnaire.Scale:
		score = int(v)
	case questionnaire.Choice:
		score = choiceScore
	}
	return score * q.Weight, max
}
