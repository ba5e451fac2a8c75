package filtering

import (
	"context"
	"strings"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/skills"
)

type requiredSkillsFilter struct {
	toggle
	required skills.Set
}

// NewRequiredSkills keeps results whose resume mentions every required skill,
// either in the parsed skill list or among the dictionary matches.
func NewRequiredSkills(required []string) Filter {
	f := &requiredSkillsFilter{required: skills.NewSet(required...)}
	if f.required.Len() == 0 {
		f.Disable("no required skills")
	}
	return f
}

func (f *requiredSkillsFilter) Name() string { return "required_skills" }

func (f *requiredSkillsFilter) Apply(_ context.Context, results []*analysis.Result) ([]*analysis.Result, Step, error) {
	out, step := keep(results, func(r *analysis.Result) bool {
		have := r.Record.SkillSet()
		if r.Match != nil {
			for _, s := range r.Match.ResumeSkills {
				have.Add(s)
			}
		}
		for skill := range f.required {
			if !have.Has(skill) {
				return false
			}
		}
		return true
	})
	return out, step, nil
}

func (f *requiredSkillsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"skills": strings.Join(f.required.Sorted(), ",")},
	}
}
