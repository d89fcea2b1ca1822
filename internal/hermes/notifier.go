package hermes

import (
	"context"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
)

// Notifier sends assessment events through a Client. A nil Client makes
// every call a no-op. Publish failures are logged and never returned:
// notifications must not fail an evaluation.
type Notifier struct {
	client Client
	logger *slog.Logger
	now    func() time.Time
}

func NewNotifier(client Client, logger *slog.Logger) *Notifier {
	return &Notifier{client: client, logger: logger, now: time.Now}
}

func (n *Notifier) Enabled() bool { return n != nil && n.client != nil }

func (n *Notifier) AssessmentComputed(ctx context.Context, id string, a scoring.Assessment) {
	if !n.Enabled() {
		return
	}
	n.publish(ctx, SubjectAssessmentComputed(id), NewAssessmentComputedEvent(id, a, n.now()))
}

func (n *Notifier) AssessmentRejected(ctx context.Context, id, catalogVersion string, rejected []*questionnaire.MalformedAnswerError) {
	if !n.Enabled() {
		return
	}
	ids := make([]string, len(rejected))
	for i, r := range rejected {
		ids[i] = r.QuestionID
	}
	n.publish(ctx, SubjectAssessmentRejected(id), AssessmentRejectedEvent{
		AssessmentID:   id,
		CatalogVersion: catalogVersion,
		QuestionIDs:    ids,
		Timestamp:      n.now().UTC(),
	})
}

func (n *Notifier) CatalogLoaded(ctx context.Context, c *questionnaire.Catalog) {
	if !n.Enabled() {
		return
	}
	n.publish(ctx, SubjectCatalogLoaded, CatalogLoadedEvent{
		Version:    c.Version(),
		Questions:  c.Len(),
		Categories: c.Categories(),
		Timestamp:  n.now().UTC(),
	})
}

func (n *Notifier) publish(ctx context.Context, subject string, event interface{}) {
	if err := n.client.Publish(ctx, subject, event); err != nil {
		n.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
