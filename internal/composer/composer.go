// Package composer assembles the conversational context block injected ahead
// of every generation prompt: who the user is, what they recently asked of
// the same capability, and what they are working toward.
package composer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/careerd/internal/profile"
	"github.com/kalambet/careerd/internal/storage"
)

const (
	maxContextInteractions = 3
	previewChars           = 100
)

// ContextSource defines the memory reads the Assembler needs. Implemented by
// memory.Memory.
type ContextSource interface {
	GetProfile(userID string) (profile.UserProfile, bool)
	GetGoals(userID string) (profile.Goals, bool)
	RecentInteractions(userID, capability string, limit int) []storage.Interaction
}

// Assembler builds context blocks from a user's stored memory.
type Assembler struct {
	source ContextSource
}

// New creates an Assembler over source.
func New(source ContextSource) *Assembler {
	return &Assembler{source: source}
}

// BuildContext assembles the context block for one request: profile summary,
// then up to three most-recent interactions of the same capability with
// bounded previews, then goals. Sections with no data are omitted. The three
// reads run concurrently; if any of them blows up, or nothing is stored for
// the user, the degraded placeholder is returned. BuildContext never fails.
func (a *Assembler) BuildContext(ctx context.Context, userID, capability string) string {
	var (
		prof    profile.UserProfile
		profOK  bool
		goals   profile.Goals
		goalsOK bool
		recent  []storage.Interaction
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(safe(func() { prof, profOK = a.source.GetProfile(userID) }))
	g.Go(safe(func() { goals, goalsOK = a.source.GetGoals(userID) }))
	g.Go(safe(func() { recent = a.source.RecentInteractions(userID, capability, maxContextInteractions) }))
	if err := g.Wait(); err != nil {
		return NoContext
	}

	var sb strings.Builder

	if profOK && !prof.IsZero() {
		sb.WriteString("User Profile:\n")
		sb.WriteString(profile.Summarize(prof))
	}

	if len(recent) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Recent %s interactions:\n", capability)
		for i, it := range recent {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "- Q: %s\n  A: %s",
				profile.Truncate(it.Query, previewChars),
				profile.Truncate(it.Response, previewChars))
		}
	}

	if goalsOK && !goals.IsZero() {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Career Goals:\n")
		sb.WriteString(formatGoals(goals))
	}

	if sb.Len() == 0 {
		return NoContext
	}
	return sb.String()
}

// NoContext is the placeholder returned when no usable memory exists or a
// read failed.
const NoContext = "No previous context available."

func formatGoals(g profile.Goals) string {
	var parts []string
	if g.TargetRole != "" {
		parts = append(parts, "Target role: "+g.TargetRole)
	}
	if g.TargetIndustry != "" {
		parts = append(parts, "Target industry: "+g.TargetIndustry)
	}
	if len(g.DesiredSkills) > 0 {
		parts = append(parts, "Desired skills: "+strings.Join(g.DesiredSkills, ", "))
	}
	return strings.Join(parts, " | ")
}

// safe adapts fn for errgroup, converting a panic into an error instead of
// taking the process down. Memory reads are not supposed to panic; a bug
// there must degrade the context, not the request.
func safe(fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("context read panicked: %v", r)
			}
		}()
		fn()
		return nil
	}
}
