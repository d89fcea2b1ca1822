package questionnaire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrMalformedAnswer = errors.New("malformed answer")

// Answer is one of YesNo, Scale or Choice. The set is closed: each variant
// pairs with exactly one AnswerType.
type Answer interface {
	Type() AnswerType
	isAnswer()
}

// YesNo answers a yes_no question.
type YesNo bool

// Scale answers a scale question with the 1-based rank of the chosen option.
type Scale int

// Choice answers a multiple_choice question with the selected option label.
type Choice string

func (YesNo) Type() AnswerType  { return TypeYesNo }
func (Scale) Type() AnswerType  { return TypeScale }
func (Choice) Type() AnswerType { return TypeMultipleChoice }

func (YesNo) isAnswer()  {}
func (Scale) isAnswer()  {}
func (Choice) isAnswer() {}

// AnswerSet maps question ids to answers. Absent ids are unanswered.
type AnswerSet map[string]Answer

// MalformedAnswerError reports an answer whose shape does not fit its question.
type MalformedAnswerError struct {
	QuestionID string     `json:"question_id"`
	Expected   AnswerType `json:"expected"`
	Reason     string     `json:"reason"`
}

func (e *MalformedAnswerError) Error() string {
	return fmt.Sprintf("malformed answer for %q (%s): %s", e.QuestionID, e.Expected, e.Reason)
}

func (e *MalformedAnswerError) Unwrap() error { return ErrMalformedAnswer }

func malformed(q Question, format string, args ...any) *MalformedAnswerError {
	return &MalformedAnswerError{QuestionID: q.ID, Expected: q.Type, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks that a fits q. A nil answer is valid (unanswered).
func Validate(q Question, a Answer) error {
	if a == nil {
		return nil
	}
	if a.Type() != q.Type {
		return malformed(q, "got %s answer", a.Type())
	}
	switch v := a.(type) {
	case Scale:
		if int(v) < 1 || int(v) > len(q.Options) {
			return malformed(q, "rank %d outside [1, %d]", int(v), len(q.Options))
		}
	case Choice:
		if !q.HasOption(string(v)) {
			return malformed(q, "%q is not one of the options", string(v))
		}
	}
	return nil
}

// DecodeAnswers converts wire answers (JSON true, 3, "AWS") into typed
// answers using each question's declared type. Ids missing from the catalog
// and null values are skipped. Malformed answers are left out of the result
// and reported together as a joined error of *MalformedAnswerError.
func DecodeAnswers(c *Catalog, raw map[string]json.RawMessage) (AnswerSet, error) {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	set := make(AnswerSet, len(raw))
	var errs []error
	for _, id := range ids {
		q, ok := c.Question(id)
		if !ok {
			continue
		}
		data := bytes.TrimSpace(raw[id])
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			continue
		}
		a, err := decodeAnswer(q, data)
		if err == nil {
			err = Validate(q, a)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set[id] = a
	}
	return set, errors.Join(errs...)
}

func decodeAnswer(q Question, data []byte) (Answer, error) {
	switch q.Type {
	case TypeYesNo:
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, malformed(q, "expected a boolean, got %s", data)
		}
		return YesNo(v), nil
	case TypeScale:
		var v int
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, malformed(q, "expected an integer rank, got %s", data)
		}
		return Scale(v), nil
	default:
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, malformed(q, "expected an option label, got %s", data)
		}
		return Choice(v), nil
	}
}

// MalformedAnswers unpacks the *MalformedAnswerError values carried by err.
func MalformedAnswers(err error) []*MalformedAnswerError {
	if err == nil {
		return nil
	}
	var out []*MalformedAnswerError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, MalformedAnswers(e)...)
		}
		return out
	}
	var m *MalformedAnswerError
	if errors.As(err, &m) {
		out = append(out, m)
	}
	return out
}
