package resume

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// One pattern per group: languages, data/ML, soft skills, databases, web.
	skillPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:python|java|javascript)\b|\bc\+\+`),
		regexp.MustCompile(`(?i)\b(?:machine learning|data analysis|data science)\b`),
		regexp.MustCompile(`(?i)\b(?:communication|leadership|problem solving)\b`),
		regexp.MustCompile(`(?i)\b(?:sql|mysql|postgresql)\b`),
		regexp.MustCompile(`(?i)\b(?:html|css|react|angular)\b`),
	}

	educationRe = regexp.MustCompile(
		`(?i)\b((?:B\.?S\.?|B\.?Tech|M\.?S\.?|Ph\.?D\.?)[\w \t]*?)[ \t]*(?:\b(?:at|from)\b|,)[ \t]*([\w \t]+?(?:University|Institute|College))`,
	)

	experienceRe = regexp.MustCompile(
		`(?i)([\w \t]+?(?:Engineer|Developer|Analyst|Specialist))[ \t]*(?:\bat\b|,)[ \t]*([\w&]+(?:[ \t]+[\w&]+)*)(?:[ \t]*\((\d{4})[ \t]*[-–][ \t]*(\d{4}|Present)\))?`,
	)
)

// ExtractEmail returns the first e-mail address in text.
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone returns the first phone number in text.
func ExtractPhone(text string) string {
	return phoneRe.FindString(text)
}

// ExtractSkills returns the lowercased, deduplicated skills of the built-in
// keyword groups, sorted alphabetically.
func ExtractSkills(text string) []string {
	seen := make(map[string]struct{})
	for _, re := range skillPatterns {
		for _, match := range re.FindAllString(text, -1) {
			seen[strings.ToLower(match)] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for skill := range seen {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}

// ExtractEducation returns "<degree> from <institution>" entries in text order.
func ExtractEducation(text string) []string {
	out := make([]string, 0)
	for _, m := range educationRe.FindAllStringSubmatch(text, -1) {
		degree := strings.TrimSpace(m[1])
		institution := strings.TrimSpace(m[2])
		out = append(out, fmt.Sprintf("%s from %s", degree, institution))
	}
	return out
}

// ExtractExperience returns "<title> at <company> (<start>-<end>)" entries in text
// order. Without a year range the entry is "<title> at <company> ".
func ExtractExperience(text string) []string {
	out := make([]string, 0)
	for _, m := range experienceRe.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[1])
		company := strings.TrimSpace(m[2])
		duration := ""
		if m[3] != "" {
			duration = fmt.Sprintf("(%s-%s)", m[3], m[4])
		}
		out = append(out, fmt.Sprintf("%s at %s %s", title, company, duration))
	}
	return out
}

// BuildSections joins the extracted lists into their section texts.
func BuildSections(education, experience, skillList []string) Sections {
	return Sections{
		Education:  strings.Join(education, "\n"),
		Experience: strings.Join(experience, "\n"),
		Skills:     strings.Join(skillList, ", "),
		Projects:   "",
	}
}
