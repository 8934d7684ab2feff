package composer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kalambet/careerd/internal/profile"
	"github.com/kalambet/careerd/internal/storage"
)

type fakeSource struct {
	profile      profile.UserProfile
	hasProfile   bool
	goals        profile.Goals
	hasGoals     bool
	interactions []storage.Interaction
	panics       bool
}

func (f *fakeSource) GetProfile(userID string) (profile.UserProfile, bool) {
	if f.panics {
		panic("boom")
	}
	return f.profile, f.hasProfile
}

func (f *fakeSource) GetGoals(userID string) (profile.Goals, bool) {
	return f.goals, f.hasGoals
}

func (f *fakeSource) RecentInteractions(userID, capability string, limit int) []storage.Interaction {
	var out []storage.Interaction
	for _, i := range f.interactions {
		if capability != "" && i.Capability != capability {
			continue
		}
		out = append(out, i)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func TestBuildContextEmpty(t *testing.T) {
	a := New(&fakeSource{})
	got := a.BuildContext(context.Background(), "u1", "career_counseling")
	if got != NoContext {
		t.Errorf("BuildContext = %q, want placeholder", got)
	}
}

func TestBuildContextSectionOrder(t *testing.T) {
	src := &fakeSource{
		profile:    profile.UserProfile{FullName: "Ada", Headline: "Engineer"},
		hasProfile: true,
		goals:      profile.Goals{TargetRole: "Staff Engineer", DesiredSkills: []string{"Go", "SQL"}},
		hasGoals:   true,
		interactions: []storage.Interaction{
			{Capability: "career_counseling", Query: "how do I grow?", Response: "mentorship"},
		},
	}
	got := New(src).BuildContext(context.Background(), "u1", "career_counseling")

	ip := strings.Index(got, "User Profile:")
	ii := strings.Index(got, "Recent career_counseling interactions:")
	ig := strings.Index(got, "Career Goals:")
	if ip < 0 || ii < 0 || ig < 0 {
		t.Fatalf("missing section in %q", got)
	}
	if !(ip < ii && ii < ig) {
		t.Errorf("section order wrong: profile=%d interactions=%d goals=%d", ip, ii, ig)
	}
	if !strings.Contains(got, "Target role: Staff Engineer") {
		t.Errorf("goals malformed: %q", got)
	}
}

// Four stored interactions for the capability: only the three most recent
// appear, newest first.
func TestBuildContextInteractionCap(t *testing.T) {
	src := &fakeSource{}
	for i := 3; i >= 0; i-- { // source returns most recent first
		src.interactions = append(src.interactions, storage.Interaction{
			Capability: "job_matching",
			Query:      fmt.Sprintf("question %d", i),
			Response:   "answer",
		})
	}
	got := New(src).BuildContext(context.Background(), "u1", "job_matching")

	if strings.Contains(got, "question 0") {
		t.Errorf("oldest interaction leaked into context: %q", got)
	}
	i3 := strings.Index(got, "question 3")
	i1 := strings.Index(got, "question 1")
	if i3 < 0 || i1 < 0 || i3 > i1 {
		t.Errorf("interactions not most-recent-first: %q", got)
	}
}

func TestBuildContextPreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 250)
	src := &fakeSource{
		interactions: []storage.Interaction{{Capability: "job_matching", Query: long, Response: long}},
	}
	got := New(src).BuildContext(context.Background(), "u1", "job_matching")

	if !strings.Contains(got, strings.Repeat("a", 100)+"...") {
		t.Errorf("preview not truncated: %q", got)
	}
	if strings.Contains(got, strings.Repeat("a", 101)) {
		t.Errorf("preview too long: %q", got)
	}
}

func TestBuildContextSkipsOtherCapabilities(t *testing.T) {
	src := &fakeSource{
		interactions: []storage.Interaction{
			{Capability: "content_generation", Query: "rewrite my about", Response: "done"},
		},
	}
	got := New(src).BuildContext(context.Background(), "u1", "job_matching")
	if got != NoContext {
		t.Errorf("foreign-capability interaction leaked: %q", got)
	}
}

func TestBuildContextSurvivesPanickingSource(t *testing.T) {
	a := New(&fakeSource{panics: true, hasGoals: true, goals: profile.Goals{TargetRole: "PM"}})
	got := a.BuildContext(context.Background(), "u1", "career_counseling")
	if got != NoContext {
		t.Errorf("BuildContext = %q, want placeholder", got)
	}
}
