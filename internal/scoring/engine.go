// Package scoring turns a completed (or partial) answer set into per
// category maturity results, an overall score and recommendations. It is
// pure: no I/O, no shared mutable state.
package scoring

import (
	"errors"
	"log/slog"
	"math/big"
	"sort"

	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
)

// CategoryResult is the aggregated outcome for one category.
type CategoryResult struct {
	Category        string   `json:"category"`
	Score           int      `json:"score"`
	MaxScore        int      `json:"max_score"`
	Percentage      float64  `json:"percentage"`
	Status          Status   `json:"status"`
	Recommendations []string `json:"recommendations"`
	Answered        int      `json:"answered"`
	Questions       int      `json:"questions"`
}

// Assessment is the full engine output for one evaluation.
type Assessment struct {
	CatalogVersion    string                                `json:"catalog_version"`
	Categories        []CategoryResult                      `json:"categories"`
	OverallPercentage float64                               `json:"overall_percentage"`
	OverallStatus     Status                                `json:"overall_status"`
	Priorities        []string                              `json:"priorities"`
	Answered          int                                   `json:"answered"`
	TotalQuestions    int                                   `json:"total_questions"`
	Complete          bool                                  `json:"complete"`
	Rejected          []*questionnaire.MalformedAnswerError `json:"rejected,omitempty"`
}

// Engine evaluates answer sets against a catalog.
type Engine struct {
	recommendations RecommendationTable
	logger          *slog.Logger
}

// NewEngine creates an Engine. A nil table uses DefaultRecommendations.
func NewEngine(recommendations RecommendationTable, logger *slog.Logger) *Engine {
	if recommendations == nil {
		recommendations = DefaultRecommendations()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{recommendations: recommendations, logger: logger}
}

// Recommendations returns the table the engine looks recommendations up in.
func (e *Engine) Recommendations() RecommendationTable {
	return e.recommendations
}

// Evaluate scores answers against c.
//
// Answers for ids not in the catalog are ignored. Answers that do not fit
// their question are treated as unanswered, listed in Assessment.Rejected
// and returned as a joined error of *questionnaire.MalformedAnswerError;
// the returned Assessment is complete either way. An empty catalog yields
// no categories and an overall score of 0.
func (e *Engine) Evaluate(c *questionnaire.Catalog, answers questionnaire.AnswerSet) (Assessment, error) {
	if c == nil {
		c, _ = questionnaire.NewCatalog("", nil)
	}
	result := Assessment{
		CatalogVersion: c.Version(),
		Categories:     []CategoryResult{},
		Priorities:     []string{},
		TotalQuestions: c.Len(),
	}

	var errs []error
	for _, category := range c.Categories() {
		cr := CategoryResult{Category: category}
		for _, q := range c.QuestionsInCategory(category) {
			a := answers[q.ID]
			if err := questionnaire.Validate(q, a); err != nil {
				errs = append(errs, err)
				var m *questionnaire.MalformedAnswerError
				if errors.As(err, &m) {
					result.Rejected = append(result.Rejected, m)
				}
				a = nil
			}
			score, max := Normalize(q, a)
			cr.Score += score
			cr.MaxScore += max
			cr.Questions++
			if a != nil {
				cr.Answered++
			}
		}
		cr.Percentage = percentage(cr.Score, cr.MaxScore)
		cr.Status = Classify(cr.Percentage)
		cr.Recommendations = e.recommendations.Lookup(category, cr.Status)
		result.Answered += cr.Answered
		result.Categories = append(result.Categories, cr)
	}

	mean := overall(result.Categories)
	result.OverallPercentage, _ = mean.Float64()
	result.OverallStatus = classifyExact(mean)
	result.Priorities = priorities(result.Categories)
	result.Complete = result.Answered == result.TotalQuestions

	e.logger.Debug("assessment evaluated",
		"catalog_version", result.CatalogVersion,
		"categories", len(result.Categories),
		"answered", result.Answered,
		"total", result.TotalQuestions,
		"overall", result.OverallPercentage,
		"rejected", len(result.Rejected),
	)
	return result, errors.Join(errs...)
}

func percentage(score, max int) float64 {
	if max <= 0 {
		return 0
	}
	return 100 * float64(score) / float64(max)
}

// overall is the unweighted mean of category percentages: every category
// counts once however many questions it has. It is computed from the raw
// score/max ratios so a mean that lands on a band threshold stays on it.
func overall(categories []CategoryResult) *big.Rat {
	sum := new(big.Rat)
	if len(categories) == 0 {
		return sum
	}
	for _, c := range categories {
		if c.MaxScore > 0 {
			sum.Add(sum, big.NewRat(int64(c.Score), int64(c.MaxScore)))
		}
	}
	return sum.Mul(sum, big.NewRat(100, int64(len(categories))))
}

// priorities ranks categories weakest first; ties keep catalog order.
func priorities(categories []CategoryResult) []string {
	idx := make([]int, len(categories))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return categories[idx[a]].Percentage < categories[idx[b]].Percentage
	})
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = categories[j].Category
	}
	return out
}
