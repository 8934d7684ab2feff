package profile

import "fmt"

// CompletenessReport is a deterministic completeness assessment of a profile.
type CompletenessReport struct {
	Score    int      // 0-100
	Level    string   // Excellent / Good / Fair / Needs Improvement
	Feedback []string // concrete gaps, in rubric order
}

const completenessTotal = 10

// Completeness scores a profile against a fixed 10-point rubric:
// name (1), headline (1), about length (2), experience count (2),
// experience descriptions (1), education (1), skills count (2).
func Completeness(p UserProfile) CompletenessReport {
	score := 0
	var feedback []string

	if p.FullName != "" {
		score++
	} else {
		feedback = append(feedback, "Add your full name")
	}
	if p.Headline != "" {
		score++
	} else {
		feedback = append(feedback, "Add a professional headline")
	}

	switch {
	case len(p.About) > 100:
		score += 2
	case len(p.About) > 0:
		score++
		feedback = append(feedback, "Expand your About section (aim for 200+ words)")
	default:
		feedback = append(feedback, "Add an About section")
	}

	switch {
	case len(p.Experience) >= 3:
		score += 2
	case len(p.Experience) >= 1:
		score++
		feedback = append(feedback, "Add more work experience entries")
	default:
		feedback = append(feedback, "Add your work experience")
	}

	hasDescription := false
	for _, e := range p.Experience {
		if e.Description != "" {
			hasDescription = true
			break
		}
	}
	if hasDescription {
		score++
	} else {
		feedback = append(feedback, "Add descriptions to your experience entries")
	}

	if len(p.Education) > 0 {
		score++
	} else {
		feedback = append(feedback, "Add your education background")
	}

	switch {
	case len(p.Skills) >= 10:
		score += 2
	case len(p.Skills) >= 5:
		score++
		feedback = append(feedback, "Add more relevant skills (aim for 10+)")
	default:
		feedback = append(feedback, "Add your key skills")
	}

	pct := score * 100 / completenessTotal
	return CompletenessReport{
		Score:    pct,
		Level:    completenessLevel(pct),
		Feedback: feedback,
	}
}

func completenessLevel(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 50:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// String renders the report as a short block for prompt injection.
func (r CompletenessReport) String() string {
	s := fmt.Sprintf("Completeness: %d/100 (%s)", r.Score, r.Level)
	for _, f := range r.Feedback {
		s += "\n- " + f
	}
	return s
}
