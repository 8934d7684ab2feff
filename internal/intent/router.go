// Package intent maps free-text queries onto assistant capabilities with an
// ordered keyword cascade. Classification is pure string matching: no model
// call, no state, same answer for the same query every time.
package intent

import (
	"strings"

	"github.com/kalambet/careerd/internal/capability"
)

// DefaultCapability receives every query no other rule claims.
const DefaultCapability = capability.CareerCounseling

// rule associates a capability with the substrings that select it. Rules are
// evaluated in order; within a rule, any single keyword hit wins.
type rule struct {
	target   capability.ID
	keywords []string
}

// rules go from specific to generic. Content-enhancement wording ("rewrite
// my headline") is checked before job-fit wording because queries about
// rewriting for recruiters mention job-fit vocabulary without being job-fit
// requests.
var rules = []rule{
	{capability.ContentGeneration, []string{
		"rewrite", "headline", "about section", "cover letter",
		"linkedin post", "enhance my", "make my profile sound",
	}},
	{capability.JobMatching, []string{
		"job description", "analyze how well", "match score",
		"good fit", "fit for this", "requirements", "qualifications",
		"responsibilities",
	}},
	{capability.CareerCounseling, []string{
		"skill gap", "skills gap", "what skills", "skills do i need",
		"missing skills", "gap analysis",
	}},
	{capability.ProfileAnalysis, []string{
		"analyze my profile", "profile analysis", "review my profile",
		"profile completeness", "completeness", "profile feedback",
		"how complete", "improve my profile", "profile strength",
	}},
	{capability.JobMatching, []string{
		"job", "position", "role", "vacancy", "opportunity", "career change",
		"match", "hiring", "application", "interview", "company",
	}},
	{capability.ContentGeneration, []string{
		"write", "generate", "create", "draft", "content", "post", "summary",
	}},
}

// Classify returns the capability responsible for query. It is a total
// function: every input, including the empty string, maps to a capability.
func Classify(query string) capability.ID {
	q := strings.ToLower(query)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.target
			}
		}
	}
	return DefaultCapability
}
