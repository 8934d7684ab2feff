package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/careerd/internal/profile"
)

// ContentWriter serves content_generation. Enhancement requests target one
// profile section (About by default); everything else gets general content
// ideas. Works without a profile, degrading to generic guidance.
type ContentWriter struct {
	gen Generator
}

func NewContentWriter(g Generator) *ContentWriter { return &ContentWriter{gen: g} }

func (c *ContentWriter) Name() ID { return ContentGeneration }

var enhancementIndicators = []string{
	"rewrite", "enhance", "improve", "optimize", "best practices",
	"about section", "headline", "experience descriptions", "skills section",
}

func isEnhancementQuery(query string) bool {
	q := strings.ToLower(query)
	for _, ind := range enhancementIndicators {
		if strings.Contains(q, ind) {
			return true
		}
	}
	return false
}

// identifySection picks the profile section a query targets. About is the
// default when nothing more specific is named.
func identifySection(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "about section") || strings.Contains(q, "summary"):
		return "About Section"
	case strings.Contains(q, "headline"):
		return "Headline"
	case strings.Contains(q, "experience") || strings.Contains(q, "job description"):
		return "Experience Descriptions"
	case strings.Contains(q, "skill"):
		return "Skills Section"
	default:
		return "About Section"
	}
}

func (c *ContentWriter) Handle(ctx context.Context, req Request, contextStr string) Result {
	var prompt string
	switch {
	case req.Profile == nil || req.Profile.IsZero():
		prompt = c.noProfilePrompt(req, contextStr)
	case isEnhancementQuery(req.Query):
		prompt = c.enhancementPrompt(req, contextStr)
	default:
		prompt = c.generalPrompt(req, contextStr)
	}
	return Result{Success: true, Message: generate(ctx, c.gen, prompt, defaultTemperature)}
}

// noProfilePrompt asks for generic guidance and tells the model to steer the
// user toward capturing a profile for a personalized version.
func (c *ContentWriter) noProfilePrompt(req Request, contextStr string) string {
	var sb strings.Builder
	sb.WriteString("As a LinkedIn optimization expert, answer this content request with general best practices.\n\n")
	writeContext(&sb, contextStr)
	fmt.Fprintf(&sb, "REQUEST: %s\n\n", req.Query)
	sb.WriteString("No profile data is available for this user. Give useful generic guidance, and close by suggesting they capture their profile so the advice can be personalized to their actual content.")
	return sb.String()
}

func (c *ContentWriter) enhancementPrompt(req Request, contextStr string) string {
	p := *req.Profile
	section := identifySection(req.Query)

	var sb strings.Builder
	fmt.Fprintf(&sb, "As a LinkedIn optimization expert and professional copywriter, enhance the %s for this professional using industry best practices.\n\n", section)
	sb.WriteString("CURRENT PROFILE:\n")
	fmt.Fprintf(&sb, "Name: %s\nHeadline: %s\n", orUnknownName(p.FullName), orNA(p.Headline))
	fmt.Fprintf(&sb, "Skills: %s\n", profile.FormatSkills(p.Skills, 0))
	fmt.Fprintf(&sb, "About: %s\n\n", orNA(p.About))
	sb.WriteString("EXPERIENCE:\n")
	sb.WriteString(profile.FormatExperience(p.Experience, 3))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "CURRENT %s:\n%s\n\n", strings.ToUpper(section), sectionContent(section, p))
	writeContext(&sb, contextStr)
	fmt.Fprintf(&sb, "ENHANCEMENT REQUEST: %s\n\n", req.Query)
	sb.WriteString(`Provide:
1. The enhanced version, ready to paste
2. Key improvements made and why
3. Keywords incorporated for recruiter search and ATS
4. One alternative phrasing to consider`)
	return sb.String()
}

func (c *ContentWriter) generalPrompt(req Request, contextStr string) string {
	p := *req.Profile

	var sb strings.Builder
	sb.WriteString("As a LinkedIn content strategist, create content for this professional.\n\n")
	fmt.Fprintf(&sb, "Name: %s\nHeadline: %s\n", orUnknownName(p.FullName), orNA(p.Headline))
	fmt.Fprintf(&sb, "Skills: %s\n\n", profile.FormatSkills(p.Skills, 10))
	writeContext(&sb, contextStr)
	fmt.Fprintf(&sb, "REQUEST: %s\n\n", req.Query)
	sb.WriteString("Produce the requested content in the user's professional voice, with a hook, substance, and a closing call to action where that fits the format.")
	return sb.String()
}

// sectionContent returns the user's current text for a section so the model
// rewrites real content instead of inventing it.
func sectionContent(section string, p profile.UserProfile) string {
	switch section {
	case "About Section":
		return orNA(p.About)
	case "Headline":
		return orNA(p.Headline)
	case "Experience Descriptions":
		return profile.FormatExperience(p.Experience, 0)
	case "Skills Section":
		return profile.FormatSkills(p.Skills, 0)
	}
	return "Not provided"
}
