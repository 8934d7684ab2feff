// Package capability defines the closed set of assistant capabilities and
// the handlers that serve them. Every user query is routed to exactly one
// capability; each handler turns the query plus assembled context into a
// fully formed prompt for the text generator.
package capability

import (
	"context"
	"fmt"
	"sort"

	"github.com/kalambet/careerd/internal/profile"
)

// ID identifies a capability. The set is closed: the four constants below
// are the only valid values, and the router always yields one of them.
type ID string

const (
	ProfileAnalysis   ID = "profile_analysis"
	JobMatching       ID = "job_matching"
	ContentGeneration ID = "content_generation"
	CareerCounseling  ID = "career_counseling"
)

// Request carries one user query into a handler. Profile and Goals are nil
// when the user has no stored record. JobDescription is optional free text
// supplied alongside job-fit queries.
type Request struct {
	UserID         string
	Query          string
	Profile        *profile.UserProfile
	Goals          *profile.Goals
	JobDescription string
}

// Result is a handler's outcome. Failed results carry a user-facing Message
// explaining what to do (for example, capture a profile first); Err holds
// the machine-readable reason.
type Result struct {
	Success bool
	Message string
	Err     string
}

// ErrProfileRequired marks results rejected because the handler cannot work
// without a stored profile.
const ErrProfileRequired = "profile required"

// Generator produces text from a prompt. Implemented by gemini.Client; tests
// substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Apology is returned in place of generated text when the backend fails.
// The interaction is still recorded so the failure is visible in history.
const Apology = "I apologize, but I'm having trouble generating a response right now. Please try again."

// generate calls g and substitutes the apology on any backend error, so a
// handler's success path never propagates generator faults.
func generate(ctx context.Context, g Generator, prompt string, temperature float32) string {
	text, err := g.Generate(ctx, prompt, temperature)
	if err != nil || text == "" {
		return Apology
	}
	return text
}

// Handler serves one capability.
type Handler interface {
	Name() ID
	// Handle serves the request using contextStr, the pre-assembled memory
	// context for this user and capability. Handlers never panic and never
	// return an error; degradation is expressed through Result.
	Handle(ctx context.Context, req Request, contextStr string) Result
}

// Registry is the closed lookup table from ID to Handler.
type Registry struct {
	handlers map[ID]Handler
}

// NewRegistry builds a registry with the four standard handlers, all backed
// by the same generator.
func NewRegistry(g Generator) *Registry {
	r := &Registry{handlers: make(map[ID]Handler)}
	for _, h := range []Handler{
		NewAnalyzer(g),
		NewMatcher(g),
		NewContentWriter(g),
		NewCounselor(g),
	} {
		r.handlers[h.Name()] = h
	}
	return r
}

// Lookup returns the handler for id.
func (r *Registry) Lookup(id ID) (Handler, error) {
	h, ok := r.handlers[id]
	if !ok {
		return nil, fmt.Errorf("unknown capability %q", id)
	}
	return h, nil
}

// IDs returns the registered capability identifiers in sorted order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
