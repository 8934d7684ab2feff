package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/careerd/internal/profile"
)

const defaultTemperature = 0.7

// Analyzer serves profile_analysis: a deterministic completeness score plus
// generated optimization advice. It refuses to run without a stored profile.
type Analyzer struct {
	gen Generator
}

func NewAnalyzer(g Generator) *Analyzer { return &Analyzer{gen: g} }

func (a *Analyzer) Name() ID { return ProfileAnalysis }

func (a *Analyzer) Handle(ctx context.Context, req Request, contextStr string) Result {
	if req.Profile == nil || req.Profile.IsZero() {
		return Result{
			Err:     ErrProfileRequired,
			Message: "I don't have your profile yet. Capture it first (for example with `careerd profile capture`), then ask me to analyze it again.",
		}
	}
	p := *req.Profile

	report := profile.Completeness(p)

	var sb strings.Builder
	sb.WriteString("As a LinkedIn profile optimization expert, analyze this profile and provide actionable insights.\n\n")
	sb.WriteString("PROFILE:\n")
	fmt.Fprintf(&sb, "Name: %s\nHeadline: %s\n", orNA(p.FullName), orNA(p.Headline))
	fmt.Fprintf(&sb, "About: %s\n", orNA(profile.Truncate(p.About, 500)))
	fmt.Fprintf(&sb, "Skills: %s\n", profile.FormatSkills(p.Skills, 0))
	fmt.Fprintf(&sb, "Education: %s\n", profile.FormatEducation(p.Education, 0))
	sb.WriteString("Experience:\n")
	sb.WriteString(profile.FormatExperience(p.Experience, 0))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "COMPLETENESS ASSESSMENT (computed, do not recalculate):\n%s\n\n", report)
	writeContext(&sb, contextStr)
	fmt.Fprintf(&sb, "USER QUESTION: %s\n\n", req.Query)
	sb.WriteString(`Cover, in order:
1. Overall impression and the completeness assessment above
2. Headline effectiveness
3. About section quality
4. Experience descriptions
5. Skills relevance
6. Top 3 specific improvements, most impactful first`)

	return Result{Success: true, Message: generate(ctx, a.gen, sb.String(), defaultTemperature)}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// writeContext appends the assembled memory context block when there is one.
func writeContext(sb *strings.Builder, contextStr string) {
	if contextStr == "" {
		return
	}
	fmt.Fprintf(sb, "CONTEXT:\n%s\n\n", contextStr)
}
