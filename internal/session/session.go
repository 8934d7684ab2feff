// Package session orchestrates one user request end to end: route the query
// to a capability, assemble context from memory, invoke the handler, record
// the exchange. It is the fault boundary of the system; nothing below it is
// allowed to take a request down.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kalambet/careerd/internal/capability"
	"github.com/kalambet/careerd/internal/composer"
	"github.com/kalambet/careerd/internal/intent"
	"github.com/kalambet/careerd/internal/memory"
	"github.com/kalambet/careerd/internal/profile"
	"github.com/kalambet/careerd/internal/scraper"
	"github.com/kalambet/careerd/internal/storage"
)

const (
	// BusyMessage rejects a request that arrives while another one for the
	// same user is still running.
	BusyMessage = "Another request for this user is still in progress. Please wait for it to finish."

	// FailureMessage is all a user sees when a request dies unexpectedly.
	FailureMessage = "The request could not be completed. Please try again."
)

// AskRequest is one user query.
type AskRequest struct {
	UserID         string
	Query          string
	JobDescription string
}

// Answer is the outcome of one request.
type Answer struct {
	Capability capability.ID `json:"capability"`
	Message    string        `json:"message"`
	Success    bool          `json:"success"`
	Err        string        `json:"error,omitempty"`
}

// ProfileFetcher captures a profile from a URL. Implemented by
// scraper.Scraper.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, url string) profile.UserProfile
}

// Orchestrator serves requests. At most one request per user runs at a
// time; different users are fully independent.
type Orchestrator struct {
	mem      *memory.Memory
	assembly *composer.Assembler
	registry *capability.Registry
	fetcher  ProfileFetcher
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// New creates an Orchestrator. fetcher may be nil when profile capture from
// URLs is not wired (CaptureProfile then stores the placeholder).
func New(mem *memory.Memory, registry *capability.Registry, fetcher ProfileFetcher, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		mem:      mem,
		assembly: composer.New(mem),
		registry: registry,
		fetcher:  fetcher,
		logger:   logger,
		inflight: make(map[string]bool),
	}
}

// Ask serves one query. Never returns an error and never panics: failures
// come back as an unsuccessful Answer.
func (o *Orchestrator) Ask(ctx context.Context, req AskRequest) Answer {
	if !o.begin(req.UserID) {
		return Answer{Success: false, Message: BusyMessage, Err: "user busy"}
	}
	defer o.end(req.UserID)

	return o.serve(ctx, req)
}

// serve runs the routed pipeline inside the recover boundary.
func (o *Orchestrator) serve(ctx context.Context, req AskRequest) (ans Answer) {
	id := intent.Classify(req.Query)
	ans.Capability = id

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("request panicked", "user_id", req.UserID, "capability", id, "panic", r)
			ans = Answer{Capability: id, Success: false, Message: FailureMessage, Err: "internal error"}
			o.recordFailedSafely(req, id)
		}
	}()

	contextStr := o.assembly.BuildContext(ctx, req.UserID, string(id))

	handler, err := o.registry.Lookup(id)
	if err != nil {
		// Classify is total over the registered set; reaching this means a
		// wiring bug, not a user mistake.
		o.logger.Error("no handler for capability", "capability", id, "error", err)
		o.record(req, id, FailureMessage, "failed")
		return Answer{Capability: id, Success: false, Message: FailureMessage, Err: "internal error"}
	}

	creq := capability.Request{
		UserID:         req.UserID,
		Query:          req.Query,
		JobDescription: req.JobDescription,
	}
	if p, ok := o.mem.GetProfile(req.UserID); ok {
		creq.Profile = &p
	}
	if g, ok := o.mem.GetGoals(req.UserID); ok {
		creq.Goals = &g
	}

	res := handler.Handle(ctx, creq, contextStr)

	status := "completed"
	if !res.Success {
		status = "failed"
	}
	o.record(req, id, res.Message, status)

	return Answer{
		Capability: id,
		Message:    res.Message,
		Success:    res.Success,
		Err:        res.Err,
	}
}

// record appends the exchange to the user's history. Recording failures as
// well keeps the history an honest account of what the user was told.
func (o *Orchestrator) record(req AskRequest, id capability.ID, response, status string) {
	o.mem.AppendInteraction(storage.Interaction{
		UserID:     req.UserID,
		Capability: string(id),
		Query:      req.Query,
		Response:   response,
		Status:     status,
	})
}

// recordFailedSafely is the audit write used inside the recover path. A
// second panic here must not escape the boundary the caller just restored,
// so it is downgraded to a log line and the history entry is skipped.
func (o *Orchestrator) recordFailedSafely(req AskRequest, id capability.ID) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("recording failed interaction panicked", "user_id", req.UserID, "capability", id, "panic", r)
		}
	}()
	o.record(req, id, FailureMessage, "failed")
}

// CaptureProfile fetches the page at url and stores the result as the
// user's profile, replacing any previous one. The stored profile may be the
// scraper's placeholder; it is returned so callers can show the user what
// was captured.
func (o *Orchestrator) CaptureProfile(ctx context.Context, userID, url string) profile.UserProfile {
	var p profile.UserProfile
	if o.fetcher != nil {
		p = o.fetcher.FetchProfile(ctx, url)
	} else {
		p = scraper.Placeholder(url, "profile fetching is not configured")
	}
	o.mem.PutProfile(userID, p)
	return p
}

// SetProfile stores a user-supplied profile wholesale.
func (o *Orchestrator) SetProfile(userID string, p profile.UserProfile) {
	o.mem.PutProfile(userID, p)
}

// SetGoals stores the user's goals wholesale.
func (o *Orchestrator) SetGoals(userID string, g profile.Goals) {
	o.mem.PutGoals(userID, g)
}

func (o *Orchestrator) begin(userID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight[userID] {
		return false
	}
	o.inflight[userID] = true
	return true
}

func (o *Orchestrator) end(userID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, userID)
}
