package suggestions

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/skills"
)

const (
	lowScore      = 40.0
	goodScore     = 70.0
	proTipScore   = 65.0
	topGaps       = 3
	minExperience = 3
	minSkills     = 5
	shortSkillLen = 4
)

// Generate evaluates every rule in display order without stopping early.
// Skill gaps are only reported when jobDescription is non-empty. A nil
// record is treated as an empty one and a nil dict means skills.Default().
func Generate(record *resume.Record, score float64, jobDescription string, dict *skills.Dictionary) []Suggestion {
	if record == nil {
		record = resume.Empty()
	}
	if dict == nil {
		dict = skills.Default()
	}

	out := []Suggestion{scoreBand(score)}

	if jobDescription != "" {
		gaps := dict.Gaps(record.SkillSet(), dict.Extract(jobDescription))
		if len(gaps) > 0 {
			out = append(out, missingSkills(gaps.Top(topGaps)))
		}
	}

	out = append(out, structure(record.Sections)...)
	out = append(out, content(record.Skills)...)
	out = append(out, contact(record)...)

	if score > proTipScore {
		out = append(out,
			Suggestion{Severity: Info, Category: CategoryBonus, Icon: "✨", Title: "Pro Tip",
				Text: "Add a 'Key Achievements' section with 2-3 bullet points"},
			Suggestion{Severity: Info, Category: CategoryBonus, Icon: "✨", Title: "Pro Tip",
				Text: "Include relevant certifications if available"},
		)
	}

	return out
}

func scoreBand(score float64) Suggestion {
	switch {
	case score < lowScore:
		return Suggestion{Severity: Critical, Category: CategoryScore, Icon: "🔴", Title: "Major Improvement Needed",
			Text: "Your resume has low alignment with this job's requirements."}
	case score < goodScore:
		return Suggestion{Severity: Warning, Category: CategoryScore, Icon: "🟡", Title: "Good Start",
			Text: "Tailor your resume further to stand out."}
	default:
		return Suggestion{Severity: Positive, Category: CategoryScore, Icon: "🟢", Title: "Strong Match",
			Text: "Focus on highlighting your top 3 most relevant skills."}
	}
}

func missingSkills(gaps skills.Gaps) Suggestion {
	parts := make([]string, len(gaps))
	for i, g := range gaps {
		parts[i] = fmt.Sprintf("%s (priority: %s)", g.Skill, g.Priority())
	}
	return Suggestion{Severity: Info, Category: CategorySkillGap, Icon: "🧠", Title: "Top Missing Skills",
		Text: strings.Join(parts, ", ")}
}

func structure(sections resume.Sections) []Suggestion {
	var out []Suggestion

	switch {
	case sections.Experience == "":
		out = append(out, Suggestion{Severity: Info, Category: CategoryStructure, Icon: "📌", Title: "Add Work Experience",
			Text: "Include at least 2-3 relevant positions."})
	case len(strings.Split(sections.Experience, "\n")) < minExperience:
		out = append(out, Suggestion{Severity: Info, Category: CategoryStructure, Icon: "📌", Title: "Expand Work Experience",
			Text: "Add bullet points with metrics like 'Increased X by Y%'"})
	}

	if sections.Education == "" {
		out = append(out, Suggestion{Severity: Info, Category: CategoryStructure, Icon: "🎓", Title: "Add Education",
			Text: "Include degree, university, and graduation year."})
	}

	return out
}

func content(list []string) []Suggestion {
	var out []Suggestion

	if len(list) < minSkills {
		out = append(out, Suggestion{Severity: Info, Category: CategoryContent, Icon: "🛠️", Title: "Diversify Skills",
			Text: "List both technical and soft skills (aim for 8-10 total)."})
	}

	// holds for an empty list as well
	allShort := true
	for _, s := range list {
		if len([]rune(s)) >= shortSkillLen {
			allShort = false
			break
		}
	}
	if allShort {
		out = append(out, Suggestion{Severity: Info, Category: CategoryContent, Icon: "ℹ️", Title: "Specify Skills",
			Text: "Replace abbreviations like 'JS' with 'JavaScript'"})
	}

	return out
}

func contact(record *resume.Record) []Suggestion {
	var out []Suggestion

	if record.Email == "" {
		out = append(out, Suggestion{Severity: Info, Category: CategoryContact, Icon: "✉️", Title: "Add Professional Email",
			Text: "Use a Gmail/Outlook address with your name."})
	}
	if record.Phone == "" {
		out = append(out, Suggestion{Severity: Info, Category: CategoryContact, Icon: "📱", Title: "Add Phone Number",
			Text: "Include with country code if applying internationally."})
	}

	return out
}
