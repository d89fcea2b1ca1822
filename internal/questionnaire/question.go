package questionnaire

import "fmt"

// AnswerType determines how an answer is normalized to a score.
type AnswerType string

const (
	TypeMultipleChoice AnswerType = "multiple_choice"
	TypeYesNo          AnswerType = "yes_no"
	TypeScale          AnswerType = "scale"
)

// MaxScaleOptions is the largest scale a question may declare. Scale ranks
// are scored 1:1 against a fixed maximum of 4.
const MaxScaleOptions = 4

func (t AnswerType) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeYesNo, TypeScale:
		return true
	}
	return false
}

// RequiresOptions reports whether questions of this type carry an option list.
func (t AnswerType) RequiresOptions() bool {
	return t == TypeMultipleChoice || t == TypeScale
}

// Question is a single entry of the catalog.
type Question struct {
	ID       string     `json:"id" yaml:"id"`
	Category string     `json:"category" yaml:"category"`
	Prompt   string     `json:"prompt,omitempty" yaml:"prompt"`
	Type     AnswerType `json:"type" yaml:"type"`
	Options  []string   `json:"options,omitempty" yaml:"options,omitempty"`
	Weight   int        `json:"weight" yaml:"weight"`
}

// HasOption reports whether label is one of the question's options.
func (q Question) HasOption(label string) bool {
	for _, o := range q.Options {
		if o == label {
			return true
		}
	}
	return false
}

func (q Question) validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: question with empty id", ErrInvalidCatalog)
	}
	if q.Category == "" {
		return fmt.Errorf("%w: question %q has no category", ErrInvalidCatalog, q.ID)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: question %q has unknown type %q", ErrInvalidCatalog, q.ID, q.Type)
	}
	if q.Weight < 1 {
		return fmt.Errorf("%w: question %q has weight %d, must be >= 1", ErrInvalidCatalog, q.ID, q.Weight)
	}
	if q.Type.RequiresOptions() && len(q.Options) == 0 {
		return fmt.Errorf("%w: %s question %q has no options", ErrInvalidCatalog, q.Type, q.ID)
	}
	if q.Type == TypeYesNo && len(q.Options) > 0 {
		return fmt.Errorf("%w: yes_no question %q must not declare options", ErrInvalidCatalog, q.ID)
	}
	if q.Type == TypeScale && len(q.Options) > MaxScaleOptions {
		return fmt.Errorf("%w: scale question %q has %d options, max %d", ErrInvalidCatalog, q.ID, len(q.Options), MaxScaleOptions)
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o] {
			return fmt.Errorf("%w: question %q repeats option %q", ErrInvalidCatalog, q.ID, o)
		}
		seen[o] = true
	}
	return nil
}

func (q Question) clone() Question {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	return q
}
