package capability

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kalambet/careerd/internal/profile"
)

// Counselor serves career_counseling, the default capability. Skill-gap
// wording triggers a structured gap analysis with target-role extraction;
// anything else gets general counseling. Works without a profile.
type Counselor struct {
	gen Generator
}

func NewCounselor(g Generator) *Counselor { return &Counselor{gen: g} }

func (c *Counselor) Name() ID { return CareerCounseling }

var skillGapIndicators = []string{
	"skill gap", "missing skills", "learning resources", "skill analysis",
	"target role", "skill development", "learning path", "career path",
	"skills needed", "skill requirements",
}

func isSkillGapQuery(query string) bool {
	q := strings.ToLower(query)
	for _, ind := range skillGapIndicators {
		if strings.Contains(q, ind) {
			return true
		}
	}
	return false
}

// targetRolePatterns extract an explicitly named role from the query, e.g.
// "skill gap analysis for the role of data scientist".
var targetRolePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)for the role of ['"]?([^'".\n?]+)['"]?`),
	regexp.MustCompile(`(?i)target role[:\s]+['"]?([^'".\n?]+)['"]?`),
	regexp.MustCompile(`(?i)role of ['"]?([^'".\n?]+)['"]?`),
	regexp.MustCompile(`(?i)position of ['"]?([^'".\n?]+)['"]?`),
	regexp.MustCompile(`(?i)as an? ['"]?([^'".\n?]+)['"]?`),
}

// ExtractTargetRole returns the role named in the query, or "" when none is.
func ExtractTargetRole(query string) string {
	for _, re := range targetRolePatterns {
		if m := re.FindStringSubmatch(query); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func (c *Counselor) Handle(ctx context.Context, req Request, contextStr string) Result {
	var prompt string
	if isSkillGapQuery(req.Query) {
		prompt = c.skillGapPrompt(req, contextStr)
	} else {
		prompt = c.counselingPrompt(req, contextStr)
	}
	return Result{Success: true, Message: generate(ctx, c.gen, prompt, defaultTemperature)}
}

func (c *Counselor) skillGapPrompt(req Request, contextStr string) string {
	target := ExtractTargetRole(req.Query)
	if target == "" && req.Goals != nil {
		target = req.Goals.TargetRole
	}
	if target == "" {
		target = "General market competitiveness"
	}

	var sb strings.Builder
	sb.WriteString("As a senior career development expert and skills analyst, perform a skill gap analysis.\n\n")
	if req.Profile != nil && !req.Profile.IsZero() {
		p := *req.Profile
		sb.WriteString("CURRENT PROFILE:\n")
		fmt.Fprintf(&sb, "Name: %s\nCurrent Role: %s\n", orUnknownName(p.FullName), orNA(p.Headline))
		fmt.Fprintf(&sb, "Current Skills (%d): %s\n", len(p.Skills), profile.FormatSkills(p.Skills, 0))
		fmt.Fprintf(&sb, "Education: %s\n\n", profile.FormatEducation(p.Education, 0))
		sb.WriteString("CAREER PROGRESSION:\n")
		sb.WriteString(profile.FormatExperience(p.Experience, 0))
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("No profile data is available; base the analysis on the request alone and note that capturing a profile would sharpen it.\n\n")
	}
	writeGoals(&sb, req.Goals)
	writeContext(&sb, contextStr)
	fmt.Fprintf(&sb, "ANALYSIS REQUEST: %s\n", req.Query)
	fmt.Fprintf(&sb, "TARGET ROLE: %s\n\n", target)
	sb.WriteString(`Provide:
1. What the target role requires: technical skills, soft skills, certifications
2. Strengths the candidate already has for it
3. Critical gaps, ranked high / medium / low priority
4. A learning roadmap: immediate actions (0-3 months) with concrete resources, then medium-term development (3-12 months)
5. How to demonstrate the new skills once learned`)
	return sb.String()
}

func (c *Counselor) counselingPrompt(req Request, contextStr string) string {
	var sb strings.Builder
	sb.WriteString("As an experienced career counselor, advise this professional.\n\n")
	if req.Profile != nil && !req.Profile.IsZero() {
		fmt.Fprintf(&sb, "BACKGROUND:\n%s\n\n", profile.Summarize(*req.Profile))
	}
	writeGoals(&sb, req.Goals)
	writeContext(&sb, contextStr)
	fmt.Fprintf(&sb, "QUESTION: %s\n\n", req.Query)
	sb.WriteString("Give thoughtful, practical advice grounded in what you know about the person. Be encouraging but honest, and end with one concrete next step they can take this week.")
	return sb.String()
}
