package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustCatalog(t *testing.T, qs ...questionnaire.Question) *questionnaire.Catalog {
	t.Helper()
	c, err := questionnaire.NewCatalog("test", qs)
	require.NoError(t, err)
	return c
}

func yesNo(id, category string, weight int) questionnaire.Question {
	return questionnaire.Question{ID: id, Category: category, Type: questionnaire.TypeYesNo, Weight: weight}
}

func scale(id, category string, weight int) questionnaire.Question {
	return questionnaire.Question{
		ID: id, Category: category, Type: questionnaire.TypeScale, Weight: weight,
		Options: []string{"Manual", "Partial", "Mostly", "Full"},
	}
}

func choice(id, category string, weight int) questionnaire.Question {
	return questionnaire.Question{
		ID: id, Category: category, Type: questionnaire.TypeMultipleChoice, Weight: weight,
		Options: []string{"AWS", "Azure", "Other"},
	}
}

func TestSecurityMonitoringYes(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t, yesNo("security-monitoring", "Security", 3))

	a, err := e.Evaluate(c, questionnaire.AnswerSet{"security-monitoring": questionnaire.YesNo(true)})
	require.NoError(t, err)
	require.Len(t, a.Categories, 1)

	cr := a.Categories[0]
	assert.Equal(t, 12, cr.Score)
	assert.Equal(t, 12, cr.MaxScore)
	assert.Equal(t, 100.0, cr.Percentage)
	assert.Equal(t, StatusExcellent, cr.Status)
	assert.Equal(t, []string{"Maintain current security posture", "Consider zero-trust architecture"}, cr.Recommendations)
}

func TestSecurityMonitoringNo(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t, yesNo("security-monitoring", "Security", 3))

	a, err := e.Evaluate(c, questionnaire.AnswerSet{"security-monitoring": questionnaire.YesNo(false)})
	require.NoError(t, err)

	cr := a.Categories[0]
	assert.Equal(t, 3, cr.Score)
	assert.Equal(t, 12, cr.MaxScore)
	assert.Equal(t, 25.0, cr.Percentage)
	assert.Equal(t, StatusPoor, cr.Status)
	assert.Len(t, cr.Recommendations, 3)
}

func TestScaleRankThree(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t, scale("automation-level", "Operations", 2))

	a, err := e.Evaluate(c, questionnaire.AnswerSet{"automation-level": questionnaire.Scale(3)})
	require.NoError(t, err)

	cr := a.Categories[0]
	assert.Equal(t, 6, cr.Score)
	assert.Equal(t, 8, cr.MaxScore)
	assert.Equal(t, 75.0, cr.Percentage)
	assert.Equal(t, StatusGood, cr.Status)
	assert.Equal(t, FallbackRecommendations, cr.Recommendations)
}

func TestOverallHalfAnswered(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t,
		yesNo("mfa", "Security", 2),
		yesNo("budgets", "Cost Management", 1),
	)

	a, err := e.Evaluate(c, questionnaire.AnswerSet{"mfa": questionnaire.YesNo(true)})
	require.NoError(t, err)

	assert.Equal(t, 100.0, a.Categories[0].Percentage)
	assert.Equal(t, 0.0, a.Categories[1].Percentage)
	assert.Equal(t, 50.0, a.OverallPercentage)
	assert.Equal(t, StatusFair, a.OverallStatus)
	assert.False(t, a.Complete)
	assert.Equal(t, 1, a.Answered)
	assert.Equal(t, 2, a.TotalQuestions)
}

func TestUnknownAnswerIDIgnored(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t, yesNo("security-monitoring", "Security", 3))
	answers := questionnaire.AnswerSet{"security-monitoring": questionnaire.YesNo(false)}

	base, err := e.Evaluate(c, answers)
	require.NoError(t, err)

	answers["not-in-catalog"] = questionnaire.YesNo(true)
	got, err := e.Evaluate(c, answers)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		q      questionnaire.Question
		answer questionnaire.Answer
		score  int
		max    int
	}{
		{"yes", yesNo("q", "c", 2), questionnaire.YesNo(true), 8, 8},
		{"no", yesNo("q", "c", 2), questionnaire.YesNo(false), 2, 8},
		{"yes_no missing", yesNo("q", "c", 2), nil, 0, 8},
		{"scale 1", scale("q", "c", 3), questionnaire.Scale(1), 3, 12},
		{"scale 4", scale("q", "c", 3), questionnaire.Scale(4), 12, 12},
		{"scale missing", scale("q", "c", 3), nil, 0, 12},
		{"choice", choice("q", "c", 1), questionnaire.Choice("Azure"), 3, 4},
		{"choice other option", choice("q", "c", 1), questionnaire.Choice("Other"), 3, 4},
		{"choice missing", choice("q", "c", 1), nil, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, max := Normalize(tt.q, tt.answer)
			if score != tt.score || max != tt.max {
				t.Errorf("Normalize = (%d, %d), want (%d, %d)", score, max, tt.score, tt.max)
			}
		})
	}
}

func TestYesNoPropertyAcrossWeights(t *testing.T) {
	for w := 1; w <= 10; w++ {
		q := yesNo("q", "c", w)
		if s, _ := Normalize(q, questionnaire.YesNo(true)); s != 4*w {
			t.Errorf("weight %d: yes scored %d, want %d", w, s, 4*w)
		}
		if s, _ := Normalize(q, questionnaire.YesNo(false)); s != w {
			t.Errorf("weight %d: no scored %d, want %d", w, s, w)
		}
		if s, _ := Normalize(q, nil); s != 0 {
			t.Errorf("weight %d: missing scored %d, want 0", w, s)
		}
	}
}

func TestScalePropertyAcrossRanks(t *testing.T) {
	for w := 1; w <= 5; w++ {
		q := scale("q", "c", w)
		for r := 1; r <= len(q.Options); r++ {
			if s, _ := Normalize(q, questionnaire.Scale(r)); s != r*w {
				t.Errorf("weight %d rank %d: scored %d, want %d", w, r, s, r*w)
			}
		}
	}
}

func TestPercentageBounds(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t,
		yesNo("a", "Security", 3),
		scale("b", "Security", 2),
		choice("c", "Security", 1),
	)
	cases := []questionnaire.AnswerSet{
		{},
		{"a": questionnaire.YesNo(true), "b": questionnaire.Scale(4), "c": questionnaire.Choice("AWS")},
		{"a": questionnaire.YesNo(false), "b": questionnaire.Scale(1)},
		{"c": questionnaire.Choice("Other")},
	}
	for i, answers := range cases {
		a, err := e.Evaluate(c, answers)
		require.NoError(t, err)
		for _, cr := range a.Categories {
			if cr.Percentage < 0 || cr.Percentage > 100 {
				t.Errorf("case %d: percentage %f out of [0,100]", i, cr.Percentage)
			}
		}
	}

	empty, err := e.Evaluate(c, questionnaire.AnswerSet{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.Categories[0].Percentage)
	assert.Equal(t, StatusPoor, empty.Categories[0].Status)
}

func TestOverallIsUnweightedMean(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	// Security has one heavy question, Operations has four light ones.
	c := mustCatalog(t,
		yesNo("s1", "Security", 5),
		scale("o1", "Operations", 1),
		scale("o2", "Operations", 1),
		scale("o3", "Operations", 1),
		scale("o4", "Operations", 1),
	)
	a, err := e.Evaluate(c, questionnaire.AnswerSet{
		"s1": questionnaire.YesNo(true),
		"o1": questionnaire.Scale(1),
		"o2": questionnaire.Scale(1),
		"o3": questionnaire.Scale(1),
		"o4": questionnaire.Scale(1),
	})
	require.NoError(t, err)

	// Security 100%, Operations 25%: mean 62.5, not skewed by question count.
	assert.Equal(t, 100.0, a.Categories[0].Percentage)
	assert.Equal(t, 25.0, a.Categories[1].Percentage)
	assert.InDelta(t, 62.5, a.OverallPercentage, 1e-9)
	assert.Equal(t, StatusGood, a.OverallStatus)
}

func TestOverallOnThresholdKeepsBand(t *testing.T) {
	e := NewEngine(nil, discardLogger())

	// Backup 2/4, Security 30/36, Compliance 28/60: the exact mean is 60.
	qs := []questionnaire.Question{scale("b1", "Backup", 1)}
	answers := questionnaire.AnswerSet{"b1": questionnaire.Scale(2)}
	for i := 0; i < 9; i++ {
		id := fmt.Sprintf("s%d", i)
		switch {
		case i < 6:
			qs = append(qs, yesNo(id, "Security", 1))
			answers[id] = questionnaire.YesNo(true)
		case i < 8:
			qs = append(qs, choice(id, "Security", 1))
			answers[id] = questionnaire.Choice("AWS")
		default:
			qs = append(qs, yesNo(id, "Security", 1))
		}
	}
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("c%d", i)
		qs = append(qs, yesNo(id, "Compliance", 1))
		if i < 7 {
			answers[id] = questionnaire.YesNo(true)
		}
	}

	a, err := e.Evaluate(mustCatalog(t, qs...), answers)
	require.NoError(t, err)
	require.Len(t, a.Categories, 3)
	assert.Equal(t, 30, a.Categories[1].Score)
	assert.Equal(t, 28, a.Categories[2].Score)
	assert.Equal(t, 60.0, a.OverallPercentage)
	assert.Equal(t, StatusGood, a.OverallStatus)
}

func TestClassifyExact(t *testing.T) {
	tests := []struct {
		num, den int64
		want     Status
	}{
		{0, 1, StatusPoor},
		{3999, 100, StatusPoor},
		{40, 1, StatusFair},
		{180, 3, StatusGood},
		{239, 3, StatusGood},
		{80, 1, StatusExcellent},
		{100, 1, StatusExcellent},
	}
	for _, tc := range tests {
		if got := classifyExact(big.NewRat(tc.num, tc.den)); got != tc.want {
			t.Errorf("classifyExact(%d/%d) = %s, want %s", tc.num, tc.den, got, tc.want)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	const max = 40
	prev := -1
	for score := 0; score <= max; score++ {
		rank := Classify(percentage(score, max)).Rank()
		if rank < prev {
			t.Fatalf("score %d: rank dropped from %d to %d", score, prev, rank)
		}
		prev = rank
	}
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		pct  float64
		want Status
	}{
		{0, StatusPoor},
		{39.999, StatusPoor},
		{40, StatusFair},
		{59.9, StatusFair},
		{60, StatusGood},
		{79.99, StatusGood},
		{80, StatusExcellent},
		{100, StatusExcellent},
	}
	for _, tt := range tests {
		if got := Classify(tt.pct); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestDeterministicOutput(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := questionnaire.DefaultCatalog()
	answers := questionnaire.AnswerSet{
		"cloud-provider":      questionnaire.Choice("AWS"),
		"security-monitoring": questionnaire.YesNo(false),
		"backup-strategy":     questionnaire.Scale(2),
		"automation-level":    questionnaire.Scale(4),
	}

	first, err := e.Evaluate(c, answers)
	require.NoError(t, err)
	want, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := e.Evaluate(c, answers)
		require.NoError(t, err)
		got, err := json.Marshal(again)
		require.NoError(t, err)
		if string(got) != string(want) {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, got, want)
		}
	}
}

func TestEmptyCatalog(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t)

	a, err := e.Evaluate(c, questionnaire.AnswerSet{"x": questionnaire.YesNo(true)})
	require.NoError(t, err)
	assert.Empty(t, a.Categories)
	assert.Equal(t, 0.0, a.OverallPercentage)
	assert.Equal(t, StatusPoor, a.OverallStatus)
	assert.False(t, math.IsNaN(a.OverallPercentage))

	nilCatalog, err := e.Evaluate(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, nilCatalog.Categories)
}

func TestMalformedAnswerRejected(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t,
		yesNo("security-monitoring", "Security", 3),
		scale("automation-level", "Operations", 2),
	)

	a, err := e.Evaluate(c, questionnaire.AnswerSet{
		"security-monitoring": questionnaire.Scale(4),
		"automation-level":    questionnaire.Scale(9),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, questionnaire.ErrMalformedAnswer))
	assert.Len(t, questionnaire.MalformedAnswers(err), 2)
	require.Len(t, a.Rejected, 2)
	assert.Equal(t, "security-monitoring", a.Rejected[0].QuestionID)

	// Rejected answers count as unanswered.
	assert.Equal(t, 0, a.Categories[0].Score)
	assert.Equal(t, 12, a.Categories[0].MaxScore)
	assert.Equal(t, 0, a.Categories[1].Score)
	assert.Equal(t, 0, a.Answered)
}

func TestPrioritiesWeakestFirst(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	c := mustCatalog(t,
		yesNo("a", "Security", 1),
		yesNo("b", "Infrastructure", 1),
		yesNo("c", "Cost Management", 1),
		yesNo("d", "Compliance", 1),
	)
	a, err := e.Evaluate(c, questionnaire.AnswerSet{
		"a": questionnaire.YesNo(true),
		"b": questionnaire.YesNo(false),
		"d": questionnaire.YesNo(false),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cost Management", "Infrastructure", "Compliance", "Security"}, a.Priorities)
}

func TestDefaultCatalogFullyAnswered(t *testing.T) {
	e := NewEngine(nil, discardLogger())
	a, err := e.Evaluate(questionnaire.DefaultCatalog(), questionnaire.AnswerSet{
		"cloud-provider":          questionnaire.Choice("Multi-cloud"),
		"security-monitoring":     questionnaire.YesNo(true),
		"backup-strategy":         questionnaire.Scale(3),
		"cost-monitoring":         questionnaire.YesNo(true),
		"compliance-requirements": questionnaire.Choice("None"),
		"automation-level":        questionnaire.Scale(2),
	})
	require.NoError(t, err)
	assert.True(t, a.Complete)

	got := map[string]float64{}
	for _, cr := range a.Categories {
		got[cr.Category] = cr.Percentage
	}
	assert.Equal(t, map[string]float64{
		"Infrastructure":  75,
		"Security":        100,
		"Data Management": 75,
		"Cost Management": 100,
		"Compliance":      75,
		"Operations":      50,
	}, got)
	assert.InDelta(t, 475.0/6, a.OverallPercentage, 1e-9)
	assert.Equal(t, StatusGood, a.OverallStatus)
}

func TestResultsDoNotAliasTable(t *testing.T) {
	table := DefaultRecommendations()
	e := NewEngine(table, discardLogger())
	c := mustCatalog(t, yesNo("security-monitoring", "Security", 3))

	a, err := e.Evaluate(c, questionnaire.AnswerSet{"security-monitoring": questionnaire.YesNo(true)})
	require.NoError(t, err)
	a.Categories[0].Recommendations[0] = "mutated"

	assert.Equal(t, "Maintain current security posture", table["Security"][StatusExcellent][0])
}
