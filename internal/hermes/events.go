package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
)

// AssessmentComputedEvent summarises one evaluation. Answers are never
// included.
type AssessmentComputedEvent struct {
	AssessmentID      string            `json:"assessment_id"`
	CatalogVersion    string            `json:"catalog_version"`
	OverallPercentage float64           `json:"overall_percentage"`
	OverallStatus     string            `json:"overall_status"`
	Categories        map[string]string `json:"categories"`
	Answered          int               `json:"answered"`
	TotalQuestions    int               `json:"total_questions"`
	Complete          bool              `json:"complete"`
	Timestamp         time.Time         `json:"timestamp"`
}

// AssessmentRejectedEvent is published when a submission carried malformed answers.
type AssessmentRejectedEvent struct {
	AssessmentID   string    `json:"assessment_id"`
	CatalogVersion string    `json:"catalog_version"`
	QuestionIDs    []string  `json:"question_ids"`
	Timestamp      time.Time `json:"timestamp"`
}

type CatalogLoadedEvent struct {
	Version    string    `json:"version"`
	Questions  int       `json:"questions"`
	Categories []string  `json:"categories"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewAssessmentComputedEvent builds the event for a computed assessment.
func NewAssessmentComputedEvent(id string, a scoring.Assessment, at time.Time) AssessmentComputedEvent {
	cats := make(map[string]string, len(a.Categories))
	for _, c := range a.Categories {
		cats[c.Category] = string(c.Status)
	}
	return AssessmentComputedEvent{
		AssessmentID:      id,
		CatalogVersion:    a.CatalogVersion,
		OverallPercentage: a.OverallPercentage,
		OverallStatus:     string(a.OverallStatus),
		Categories:        cats,
		Answered:          a.Answered,
		TotalQuestions:    a.TotalQuestions,
		Complete:          a.Complete,
		Timestamp:         at.UTC(),
	}
}
