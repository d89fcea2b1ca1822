// Package client is a typed HTTP client for the CloudAssess API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
	"github.com/MikeSquared-Agency/CloudAssess/internal/report"
	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
)

// RejectedError is returned when the API refuses a submission because
// some answers do not fit their questions.
type RejectedError struct {
	Malformed []*questionnaire.MalformedAnswerError
}

func (e *RejectedError) Error() string {
	ids := make([]string, len(e.Malformed))
	for i, m := range e.Malformed {
		ids[i] = m.QuestionID
	}
	return fmt.Sprintf("cloudassess: %d malformed answers (%s)", len(e.Malformed), strings.Join(ids, ", "))
}

func (e *RejectedError) Unwrap() error { return questionnaire.ErrMalformedAnswer }

type Catalog struct {
	Version    string                   `json:"version"`
	Categories []string                 `json:"categories"`
	Questions  []questionnaire.Question `json:"questions"`
}

type Result struct {
	AssessmentID string `json:"assessment_id"`
	scoring.Assessment
}

type Client interface {
	Catalog(ctx context.Context) (*Catalog, error)
	Assess(ctx context.Context, answers map[string]interface{}) (*Result, error)
	Report(ctx context.Context, answers map[string]interface{}, format report.Format) ([]byte, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) Catalog(ctx context.Context) (*Catalog, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/catalog", nil)
	if err != nil {
		return nil, err
	}
	var cat Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &cat, nil
}

func (c *HTTPClient) Assess(ctx context.Context, answers map[string]interface{}) (*Result, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/assessments", answers)
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	return &res, nil
}

func (c *HTTPClient) Report(ctx context.Context, answers map[string]interface{}, format report.Format) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/assessments/report?format="+url.QueryEscape(string(format)), answers)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, answers map[string]interface{}) ([]byte, error) {
	var payload io.Reader
	if method == http.MethodPost {
		data, err := json.Marshal(map[string]interface{}{"answers": answers})
		if err != nil {
			return nil, fmt.Errorf("encode answers: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var rejected struct {
			Malformed []*questionnaire.MalformedAnswerError `json:"malformed"`
		}
		if err := json.Unmarshal(body, &rejected); err == nil && len(rejected.Malformed) > 0 {
			return nil, &RejectedError{Malformed: rejected.Malformed}
		}
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cloudassess: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// IsRejected reports whether err came from a malformed submission.
func IsRejected(err error) bool {
	var r *RejectedError
	return errors.As(err, &r)
}
