package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/careerd/internal/profile"
)

// Matcher serves job_matching. Queries that carry a job description (or
// job-fit vocabulary) get a detailed fit analysis with a score breakdown;
// anything else gets general opportunity matching. Requires a profile.
type Matcher struct {
	gen Generator
}

func NewMatcher(g Generator) *Matcher { return &Matcher{gen: g} }

func (m *Matcher) Name() ID { return JobMatching }

// jobFitIndicators mark queries that reference a concrete job posting.
var jobFitIndicators = []string{
	"job description", "analyze how well", "compare", "match score",
	"requirements", "qualifications", "responsibilities",
}

func isJobFitQuery(query string) bool {
	q := strings.ToLower(query)
	for _, ind := range jobFitIndicators {
		if strings.Contains(q, ind) {
			return true
		}
	}
	return false
}

func (m *Matcher) Handle(ctx context.Context, req Request, contextStr string) Result {
	if req.Profile == nil || req.Profile.IsZero() {
		return Result{
			Err:     ErrProfileRequired,
			Message: "I need your profile to match you against jobs. Capture it first, then ask again.",
		}
	}

	var prompt string
	if isJobFitQuery(req.Query) || req.JobDescription != "" {
		prompt = m.jobFitPrompt(req, contextStr)
	} else {
		prompt = m.generalMatchPrompt(req, contextStr)
	}
	return Result{Success: true, Message: generate(ctx, m.gen, prompt, defaultTemperature)}
}

func (m *Matcher) jobFitPrompt(req Request, contextStr string) string {
	p := *req.Profile

	var sb strings.Builder
	fmt.Fprintf(&sb, "As an expert recruiter and career advisor, perform a comprehensive job fit analysis for %s.\n\n", orUnknownName(p.FullName))
	writeCandidate(&sb, p)
	if req.JobDescription != "" {
		fmt.Fprintf(&sb, "JOB DESCRIPTION:\n%s\n\n", req.JobDescription)
	}
	writeContext(&sb, contextStr)
	fmt.Fprintf(&sb, "ANALYSIS REQUEST: %s\n\n", req.Query)
	sb.WriteString(`Provide:
1. Match score breakdown: overall, skills, experience, education, each X/100 with reasoning
2. Strengths and alignment with the role
3. Gaps and missing requirements, prioritized
4. Improvement recommendations: immediate (0-3 months) and medium-term (3-12 months)
5. Application strategy: positioning, cover letter emphasis, interview preparation

Be specific, actionable, and honest about both strengths and weaknesses.`)
	return sb.String()
}

func (m *Matcher) generalMatchPrompt(req Request, contextStr string) string {
	p := *req.Profile

	var sb strings.Builder
	sb.WriteString("As a career advisor and job matching expert, analyze this profile for optimal job opportunities.\n\n")
	writeCandidate(&sb, p)
	writeGoals(&sb, req.Goals)
	writeContext(&sb, contextStr)
	fmt.Fprintf(&sb, "USER QUERY: %s\n\n", req.Query)
	sb.WriteString(`Provide:
1. Best job matches: primary target roles, growth opportunities, adjacent fields
2. Top 3 industries to target
3. Skill gaps holding the candidate back from better matches
4. Competitive advantages in the current market
5. A short-term and a medium-term career move`)
	return sb.String()
}

// writeCandidate renders the shared profile block used by job-fit prompts.
func writeCandidate(sb *strings.Builder, p profile.UserProfile) {
	sb.WriteString("CANDIDATE PROFILE:\n")
	fmt.Fprintf(sb, "Name: %s\n", orUnknownName(p.FullName))
	fmt.Fprintf(sb, "Current Role: %s\n", orNA(p.Headline))
	fmt.Fprintf(sb, "Education: %s\n", profile.FormatEducation(p.Education, 0))
	fmt.Fprintf(sb, "Skills: %s\n", profile.FormatSkills(p.Skills, 15))
	fmt.Fprintf(sb, "About: %s\n\n", orNA(profile.Truncate(p.About, 400)))
	sb.WriteString("EXPERIENCE:\n")
	sb.WriteString(profile.FormatExperience(p.Experience, 4))
	sb.WriteString("\n\n")
}

func writeGoals(sb *strings.Builder, g *profile.Goals) {
	if g == nil || g.IsZero() {
		return
	}
	sb.WriteString("STATED GOALS:\n")
	if g.TargetRole != "" {
		fmt.Fprintf(sb, "Target role: %s\n", g.TargetRole)
	}
	if g.TargetIndustry != "" {
		fmt.Fprintf(sb, "Target industry: %s\n", g.TargetIndustry)
	}
	if len(g.DesiredSkills) > 0 {
		fmt.Fprintf(sb, "Skills to develop: %s\n", strings.Join(g.DesiredSkills, ", "))
	}
	sb.WriteString("\n")
}

func orUnknownName(s string) string {
	if s == "" {
		return "Candidate"
	}
	return s
}
