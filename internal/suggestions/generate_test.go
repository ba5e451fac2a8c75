package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/skills"
)

func completeRecord() *resume.Record {
	record := &resume.Record{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "555-123-4567",
		Skills:     []string{"python", "sql", "machine learning", "leadership", "react"},
		Education:  []string{"B.S. in CS from Stanford University"},
		Experience: []string{"Engineer at A ", "Developer at B ", "Analyst at C "},
	}
	record.Sections = resume.BuildSections(record.Education, record.Experience, record.Skills)
	return record
}

func titles(list []Suggestion) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Title
	}
	return out
}

func TestScoreBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score    float64
		severity Severity
		title    string
	}{
		{score: 0, severity: Critical, title: "Major Improvement Needed"},
		{score: 39.99, severity: Critical, title: "Major Improvement Needed"},
		{score: 40, severity: Warning, title: "Good Start"},
		{score: 69.99, severity: Warning, title: "Good Start"},
		{score: 70, severity: Positive, title: "Strong Match"},
		{score: 100, severity: Positive, title: "Strong Match"},
	}

	for _, tt := range tests {
		first := Generate(completeRecord(), tt.score, "", nil)[0]
		assert.Equal(t, tt.severity, first.Severity, "score %v", tt.score)
		assert.Equal(t, tt.title, first.Title, "score %v", tt.score)
		assert.Equal(t, CategoryScore, first.Category)
	}
}

func TestProTipsThreshold(t *testing.T) {
	t.Parallel()

	assert.Len(t, Generate(completeRecord(), 65, "", nil), 1)

	got := Generate(completeRecord(), 65.01, "", nil)
	require.Len(t, got, 3)
	assert.Equal(t, CategoryBonus, got[1].Category)
	assert.Equal(t, "✨ **Pro Tip**: Add a 'Key Achievements' section with 2-3 bullet points", got[1].String())
	assert.Equal(t, "✨ **Pro Tip**: Include relevant certifications if available", got[2].String())
}

func TestGenerateEmptyRecord(t *testing.T) {
	t.Parallel()

	got := Generate(resume.Empty(), 0, "", nil)

	assert.Equal(t, []string{
		"Major Improvement Needed",
		"Add Work Experience",
		"Add Education",
		"Diversify Skills",
		"Specify Skills",
		"Add Professional Email",
		"Add Phone Number",
	}, titles(got))

	assert.Equal(t, titles(got), titles(Generate(nil, 0, "", nil)))
}

func TestExpandExperience(t *testing.T) {
	t.Parallel()

	record := completeRecord()
	record.Sections.Experience = "Engineer at A \nDeveloper at B "

	got := Generate(record, 50, "", nil)
	assert.Equal(t, []string{"Good Start", "Expand Work Experience"}, titles(got))
	assert.Equal(t, "📌 **Expand Work Experience**: Add bullet points with metrics like 'Increased X by Y%'", got[1].String())
}

func TestMissingSkills(t *testing.T) {
	t.Parallel()

	t.Run("top three by weight", func(t *testing.T) {
		t.Parallel()

		record := completeRecord()
		job := "We need python, sql and aws. Also excel tableau data analysis java"

		got := Generate(record, 75, job, nil)
		require.GreaterOrEqual(t, len(got), 2)

		gap := got[1]
		assert.Equal(t, CategorySkillGap, gap.Category)
		assert.Equal(t, Info, gap.Severity)
		assert.Equal(t, "🧠 **Top Missing Skills**: data analysis (priority: 1.6x), java (priority: 1.3x), tableau (priority: 1.3x)", gap.String())
	})

	t.Run("untracked weights", func(t *testing.T) {
		t.Parallel()

		dict, err := skills.NewDictionary(map[string]float64{"go": 1, "kubernetes": 2.25})
		require.NoError(t, err)

		got := Generate(resume.Empty(), 10, "go kubernetes", dict)
		assert.Equal(t, "kubernetes (priority: 2.25x), go (priority: 1.0x)", got[1].Text)
	})

	t.Run("no gaps", func(t *testing.T) {
		t.Parallel()

		got := Generate(completeRecord(), 75, "python and sql", nil)
		assert.NotContains(t, titles(got), "Top Missing Skills")
	})

	t.Run("no job description", func(t *testing.T) {
		t.Parallel()

		got := Generate(resume.Empty(), 75, "", nil)
		assert.NotContains(t, titles(got), "Top Missing Skills")
	})
}

func TestShortSkills(t *testing.T) {
	t.Parallel()

	record := completeRecord()
	record.Skills = []string{"sql", "aws", "css", "git", "c++"}

	got := Generate(record, 50, "", nil)
	assert.Equal(t, []string{"Good Start", "Specify Skills"}, titles(got))
	assert.Equal(t, "ℹ️ **Specify Skills**: Replace abbreviations like 'JS' with 'JavaScript'", got[1].String())
}

func TestStrings(t *testing.T) {
	t.Parallel()

	got := Strings(Generate(completeRecord(), 80, "", nil))
	assert.Equal(t, []string{
		"🟢 **Strong Match**: Focus on highlighting your top 3 most relevant skills.",
		"✨ **Pro Tip**: Add a 'Key Achievements' section with 2-3 bullet points",
		"✨ **Pro Tip**: Include relevant certifications if available",
	}, got)
}
