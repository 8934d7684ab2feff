package profile

import (
	"strings"
	"testing"
)

func fullProfile() UserProfile {
	return UserProfile{
		FullName: "Ada Lovelace",
		Headline: "Analytical Engine Programmer",
		About:    strings.Repeat("Writes programs before hardware exists. ", 5),
		Experience: []Experience{
			{Title: "Programmer", Company: "Analytical Engine Ltd", Description: "Wrote the first published algorithm", Duration: "1842-1843"},
			{Title: "Mathematician", Company: "Independent"},
			{Title: "Translator", Company: "Menabrea"},
		},
		Education: []Education{{School: "Home tutoring", Field: "Mathematics"}},
		Skills:    []string{"Mathematics", "Algorithms", "Translation", "Writing", "Analysis", "Logic", "Notation", "Proofs", "Mechanics", "Poetry"},
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(UserProfile{}); got != "No profile data" {
		t.Fatalf("Summarize(zero) = %q", got)
	}
}

func TestSummarizeCapsSections(t *testing.T) {
	p := fullProfile()
	p.About = strings.Repeat("x", 500)
	p.Skills = make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		p.Skills = append(p.Skills, "skill")
	}
	p.Experience = append(p.Experience, Experience{Title: "Fourth", Company: "Nope"})

	got := Summarize(p)
	if !strings.Contains(got, "Name: Ada Lovelace") {
		t.Errorf("missing name in %q", got)
	}
	if !strings.Contains(got, strings.Repeat("x", 200)+"...") {
		t.Errorf("about not truncated to 200 chars: %q", got)
	}
	if strings.Contains(got, strings.Repeat("x", 201)) {
		t.Errorf("about too long: %q", got)
	}
	if n := strings.Count(got, "skill"); n != 10 {
		t.Errorf("skills count = %d, want 10", n)
	}
	if strings.Contains(got, "Fourth") {
		t.Errorf("fourth experience should be dropped: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	if got := Truncate("abcdefgh", 4); got != "abcd..." {
		t.Errorf("Truncate = %q", got)
	}
	// Cut point lands mid-rune; must back off to the rune boundary.
	got := Truncate("aé", 2)
	if got != "a..." {
		t.Errorf("Truncate multi-byte = %q", got)
	}
}

func TestFormatExperience(t *testing.T) {
	if got := FormatExperience(nil, 3); got != "No experience data available" {
		t.Fatalf("FormatExperience(nil) = %q", got)
	}

	got := FormatExperience([]Experience{
		{Title: "Engineer", Company: "Acme", Duration: "2020-2023", Description: "Built things"},
		{Company: "Solo"},
	}, 0)
	if !strings.Contains(got, "1. Engineer at Acme | 2020-2023") {
		t.Errorf("first entry malformed: %q", got)
	}
	if !strings.Contains(got, "Built things") {
		t.Errorf("description missing: %q", got)
	}
	if !strings.Contains(got, "2. Unknown Role at Solo") {
		t.Errorf("missing title fallback: %q", got)
	}
}

func TestFormatEducation(t *testing.T) {
	if got := FormatEducation(nil, 0); got != "Not specified" {
		t.Fatalf("FormatEducation(nil) = %q", got)
	}
	got := FormatEducation([]Education{
		{School: "MIT", Degree: "BSc", Field: "CS", Duration: "2010-2014"},
		{School: "Stanford"},
	}, 0)
	want := "BSc in CS from MIT (2010-2014); Stanford"
	if got != want {
		t.Errorf("FormatEducation = %q, want %q", got, want)
	}
}

func TestCompletenessEmpty(t *testing.T) {
	r := Completeness(UserProfile{})
	if r.Score != 0 {
		t.Errorf("score = %d, want 0", r.Score)
	}
	if r.Level != "Needs Improvement" {
		t.Errorf("level = %q", r.Level)
	}
	if len(r.Feedback) != 7 {
		t.Errorf("feedback entries = %d, want 7: %v", len(r.Feedback), r.Feedback)
	}
}

func TestCompletenessFull(t *testing.T) {
	r := Completeness(fullProfile())
	if r.Score != 100 {
		t.Errorf("score = %d, want 100", r.Score)
	}
	if r.Level != "Excellent" {
		t.Errorf("level = %q", r.Level)
	}
	if len(r.Feedback) != 0 {
		t.Errorf("unexpected feedback: %v", r.Feedback)
	}
}

func TestCompletenessPartial(t *testing.T) {
	p := UserProfile{
		FullName:   "Grace Hopper",
		Headline:   "Rear Admiral",
		About:      "short bio",
		Experience: []Experience{{Title: "Programmer", Company: "Navy"}},
		Skills:     []string{"COBOL", "Compilers", "Teaching", "Debugging", "Leadership"},
	}
	r := Completeness(p)
	// 1 name + 1 headline + 1 short about + 1 single experience + 0 no
	// description + 0 no education + 1 five skills = 5/10.
	if r.Score != 50 {
		t.Errorf("score = %d, want 50", r.Score)
	}
	if r.Level != "Fair" {
		t.Errorf("level = %q", r.Level)
	}
}

func TestCompletenessLevels(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "Excellent"}, {90, "Excellent"},
		{80, "Good"}, {75, "Good"},
		{60, "Fair"}, {50, "Fair"},
		{40, "Needs Improvement"}, {0, "Needs Improvement"},
	}
	for _, c := range cases {
		if got := completenessLevel(c.score); got != c.want {
			t.Errorf("completenessLevel(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}
