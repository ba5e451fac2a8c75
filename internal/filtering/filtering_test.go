package filtering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/matching"
	"github.com/spigell/resume-analyzer/internal/resume"
)

func result(id string, score float64, recordSkills []string, matched ...string) *analysis.Result {
	rec := resume.Empty()
	rec.Skills = recordSkills
	return &analysis.Result{
		ID:     id,
		Record: rec,
		Match:  &matching.Match{Score: score, ResumeSkills: matched},
	}
}

func ids(results []*analysis.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestMinScore(t *testing.T) {
	in := []*analysis.Result{result("a", 39.99, nil), result("b", 40, nil), result("c", 90, nil)}

	out, step, err := NewMinScore(40).Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(out))
	assert.Equal(t, Step{Initial: 3, Dropped: 1, Left: 2}, step)

	assert.False(t, NewMinScore(0).IsEnabled())
}

func TestRequiredSkills(t *testing.T) {
	in := []*analysis.Result{
		result("record", 50, []string{"python", "sql"}),
		result("dictionary", 50, []string{"python"}, "SQL"),
		result("missing", 50, []string{"python"}),
	}

	out, step, err := NewRequiredSkills([]string{"Python", " sql "}).Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"record", "dictionary"}, ids(out))
	assert.Equal(t, 1, step.Dropped)

	assert.False(t, NewRequiredSkills(nil).IsEnabled())
}

func TestTop(t *testing.T) {
	in := []*analysis.Result{result("a", 10, nil), result("b", 80, nil), result("c", 80, nil), result("d", 50, nil)}

	out, step, err := NewTop(3).Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, ids(out))
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, step)
	assert.Equal(t, "a", in[0].ID, "input must not be reordered")

	out, _, err = NewTop(0).Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(out))
}

func TestRunSkipsDisabledAndLogsSteps(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	in := []*analysis.Result{
		result("a", 30, []string{"go"}),
		result("b", 75, []string{"go"}),
		result("c", 95, []string{"java"}),
	}

	out, err := Run(context.Background(), Steps(Options{MinScore: 50, RequiredSkills: []string{"go"}}), in, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(out))

	steps := logs.FilterMessage("filter step").All()
	require.Len(t, steps, 3)
	assert.Equal(t, "required_skills", steps[0].ContextMap()["name"])
	assert.Equal(t, int64(1), steps[0].ContextMap()["dropped"])
	assert.Equal(t, "min_score", steps[1].ContextMap()["name"])
	assert.Equal(t, int64(1), steps[1].ContextMap()["dropped"])
}

type failingFilter struct{ toggle }

func (failingFilter) Name() string { return "broken" }

func (failingFilter) Apply(context.Context, []*analysis.Result) ([]*analysis.Result, Step, error) {
	return nil, Step{}, errors.New("boom")
}

func TestRunWrapsFilterError(t *testing.T) {
	_, err := Run(context.Background(), []Filter{&failingFilter{}}, nil, nil)
	require.Error(t, err)
	assert.EqualError(t, err, "broken: boom")
}

func TestDescribe(t *testing.T) {
	statuses := Describe(Steps(Options{Top: 5}))
	require.Len(t, statuses, 3)

	assert.Equal(t, Status{
		Name:    "required_skills",
		Enabled: false,
		Reason:  "no required skills",
		Details: map[string]string{"skills": ""},
	}, statuses[0])
	assert.False(t, statuses[1].Enabled)
	assert.Equal(t, Status{Name: "top", Enabled: true}, statuses[2])
}
