package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/CloudAssess/internal/hermes"
	"github.com/MikeSquared-Agency/CloudAssess/internal/metrics"
	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
	"github.com/MikeSquared-Agency/CloudAssess/internal/report"
	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
)

const maxBodyBytes = 1 << 20

type AssessmentsHandler struct {
	catalogs *CatalogHolder
	engine   *scoring.Engine
	notifier *hermes.Notifier
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func NewAssessmentsHandler(c *CatalogHolder, e *scoring.Engine, n *hermes.Notifier, m *metrics.Recorder, logger *slog.Logger) *AssessmentsHandler {
	return &AssessmentsHandler{catalogs: c, engine: e, notifier: n, metrics: m, logger: logger}
}

// AssessRequest carries answers keyed by question id in wire form:
// true/false for yes_no, a 1-based rank for scale, an option label for
// multiple_choice.
type AssessRequest struct {
	Answers map[string]json.RawMessage `json:"answers"`
}

type AssessResponse struct {
	AssessmentID string `json:"assessment_id"`
	scoring.Assessment
}

type MalformedResponse struct {
	Error     string                                `json:"error"`
	Malformed []*questionnaire.MalformedAnswerError `json:"malformed"`
}

// Create handles POST /api/v1/assessments
func (h *AssessmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Report handles POST /api/v1/assessments/report?format=markdown|csv|json
func (h *AssessmentsHandler) Report(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, ok := h.evaluate(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="cloud-assessment-%s.%s"`, resp.AssessmentID, format.Extension()))
	w.WriteHeader(http.StatusOK)
	if err := report.Render(w, resp.Assessment, format); err != nil {
		h.logger.Error("failed to render report", "assessment_id", resp.AssessmentID, "format", format, "error", err)
	}
}

// evaluate decodes the request and runs the engine. It writes the error
// response itself and returns false when the request cannot be evaluated.
func (h *AssessmentsHandler) evaluate(w http.ResponseWriter, r *http.Request) (AssessResponse, bool) {
	var req AssessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return AssessResponse{}, false
	}

	start := time.Now()
	id := uuid.NewString()
	c := h.catalogs.Current()

	answers, err := questionnaire.DecodeAnswers(c, req.Answers)
	if err == nil {
		var a scoring.Assessment
		a, err = h.engine.Evaluate(c, answers)
		if err == nil {
			h.metrics.ObserveAssessment(a, time.Since(start))
			h.notifier.AssessmentComputed(r.Context(), id, a)
			return AssessResponse{AssessmentID: id, Assessment: a}, true
		}
	}

	malformed := questionnaire.MalformedAnswers(err)
	h.metrics.ObserveMalformed(len(malformed))
	h.notifier.AssessmentRejected(r.Context(), id, c.Version(), malformed)
	h.logger.Info("assessment rejected", "assessment_id", id, "malformed", len(malformed))
	writeJSON(w, http.StatusUnprocessableEntity, MalformedResponse{
		Error:     "malformed answers",
		Malformed: malformed,
	})
	return AssessResponse{}, false
}
