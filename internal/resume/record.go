// Package resume derives a structured candidate record from unstructured resume text.
package resume

import "github.com/spigell/resume-analyzer/internal/skills"

// Section names of Record.Sections.
const (
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
)

// Sections holds the concatenated text of the recognised resume sections.
// Projects is never extracted and always stays empty.
type Sections struct {
	Education  string `json:"education"`
	Experience string `json:"experience"`
	Skills     string `json:"skills"`
	Projects   string `json:"projects"`
}

// Get returns a section by name, "" for unknown names.
func (s Sections) Get(name string) string {
	switch name {
	case SectionEducation:
		return s.Education
	case SectionExperience:
		return s.Experience
	case SectionSkills:
		return s.Skills
	case SectionProjects:
		return s.Projects
	default:
		return ""
	}
}

// Record is the structured view of a resume. Absent values are empty strings or
// empty slices, never nil.
type Record struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
	Sections   Sections `json:"sections"`
}

// Empty returns a record with every field present and empty.
func Empty() *Record {
	return &Record{
		Skills:     []string{},
		Education:  []string{},
		Experience: []string{},
	}
}

// SkillSet returns the record skills as a normalised set.
func (r *Record) SkillSet() skills.Set {
	if r == nil {
		return skills.NewSet()
	}
	return skills.NewSet(r.Skills...)
}
