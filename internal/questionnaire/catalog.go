// Package questionnaire holds the assessment catalog: the ordered question
// definitions and the answer variants that can be given to them.
package questionnaire

import (
	"errors"
	"fmt"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is an immutable, ordered list of questions. Accessors return
// copies so callers cannot mutate it.
type Catalog struct {
	version    string
	questions  []Question
	byID       map[string]int
	categories []string
}

// NewCatalog validates the questions and builds a catalog. Order is kept.
func NewCatalog(version string, questions []Question) (*Catalog, error) {
	c := &Catalog{
		version:   version,
		questions: make([]Question, 0, len(questions)),
		byID:      make(map[string]int, len(questions)),
	}
	seenCategory := make(map[string]bool)
	for _, q := range questions {
		if err := q.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, q.ID)
		}
		c.byID[q.ID] = len(c.questions)
		c.questions = append(c.questions, q.clone())
		if !seenCategory[q.Category] {
			seenCategory[q.Category] = true
			c.categories = append(c.categories, q.Category)
		}
	}
	return c, nil
}

func (c *Catalog) Version() string { return c.version }

func (c *Catalog) Len() int { return len(c.questions) }

// Questions returns every question in catalog order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.clone()
	}
	return out
}

// Question looks a question up by id.
func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i].clone(), true
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	return append([]string{}, c.categories...)
}

// QuestionsInCategory returns the questions of category in catalog order.
func (c *Catalog) QuestionsInCategory(category string) []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Category == category {
			out = append(out, q.clone())
		}
	}
	return out
}
