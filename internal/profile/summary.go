package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxAboutChars   = 200
	maxSummarySkill = 10
	maxSummaryExp   = 3
)

// Summarize returns a compact single-line representation of the profile
// suitable for injection into a prompt. Long fields are truncated so the
// result stays bounded regardless of profile size.
func Summarize(p UserProfile) string {
	var parts []string

	if p.FullName != "" {
		parts = append(parts, "Name: "+p.FullName)
	}
	if p.Headline != "" {
		parts = append(parts, "Headline: "+p.Headline)
	}
	if p.About != "" {
		parts = append(parts, "About: "+Truncate(p.About, maxAboutChars))
	}
	if len(p.Skills) > 0 {
		skills := p.Skills
		if len(skills) > maxSummarySkill {
			skills = skills[:maxSummarySkill]
		}
		parts = append(parts, "Skills: "+strings.Join(skills, ", "))
	}
	if len(p.Experience) > 0 {
		var exps []string
		for _, e := range p.Experience[:min(len(p.Experience), maxSummaryExp)] {
			exps = append(exps, fmt.Sprintf("%s at %s", e.Title, e.Company))
		}
		parts = append(parts, "Experience: "+strings.Join(exps, "; "))
	}

	if len(parts) == 0 {
		return "No profile data"
	}
	return strings.Join(parts, " | ")
}

// FormatExperience renders work history for prompts, most recent first,
// with descriptions truncated.
func FormatExperience(exps []Experience, limit int) string {
	if len(exps) == 0 {
		return "No experience data available"
	}
	if limit > 0 && len(exps) > limit {
		exps = exps[:limit]
	}

	var sb strings.Builder
	for i, e := range exps {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s at %s", i+1, orUnknown(e.Title, "Unknown Role"), orUnknown(e.Company, "Unknown Company"))
		if e.Duration != "" {
			sb.WriteString(" | " + e.Duration)
		}
		if e.Location != "" {
			sb.WriteString(" | " + e.Location)
		}
		if e.Description != "" {
			sb.WriteString("\n   " + Truncate(e.Description, 150))
		}
	}
	return sb.String()
}

// FormatEducation renders education entries for prompts.
func FormatEducation(edus []Education, limit int) string {
	if len(edus) == 0 {
		return "Not specified"
	}
	if limit > 0 && len(edus) > limit {
		edus = edus[:limit]
	}

	var parts []string
	for _, e := range edus {
		var s string
		switch {
		case e.Degree != "" && e.Field != "":
			s = e.Degree + " in " + e.Field
		case e.Degree != "":
			s = e.Degree
		case e.Field != "":
			s = e.Field
		}
		if e.School != "" {
			if s != "" {
				s += " from " + e.School
			} else {
				s = e.School
			}
		}
		if e.Duration != "" {
			s += " (" + e.Duration + ")"
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "Not specified"
	}
	return strings.Join(parts, "; ")
}

// FormatSkills joins skills for prompts, capped at limit entries.
func FormatSkills(skills []string, limit int) string {
	if len(skills) == 0 {
		return "Not specified"
	}
	if limit > 0 && len(skills) > limit {
		skills = skills[:limit]
	}
	return strings.Join(skills, ", ")
}

// Truncate shortens s to at most n bytes, appending "..." when cut. The cut
// never splits a multi-byte UTF-8 character.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	end := n
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + "..."
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
