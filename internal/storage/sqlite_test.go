package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

func TestIndexesExist(t *testing.T) {
	s := openTestStore(t)

	indexes := []string{"idx_interactions_user_created", "idx_interactions_user_capability"}
	for _, idx := range indexes {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&count)
		if err != nil {
			t.Fatalf("querying sqlite_master: %v", err)
		}
		if count != 1 {
			t.Errorf("index %s not found", idx)
		}
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetProfile("u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetProfile before save: err = %v, want ErrNotFound", err)
	}

	if err := s.SaveProfile("u1", `{"full_name":"Ada"}`); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	got, err := s.GetProfile("u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got != `{"full_name":"Ada"}` {
		t.Errorf("GetProfile = %q", got)
	}

	// Overwrite replaces, never merges.
	if err := s.SaveProfile("u1", `{"full_name":"Grace"}`); err != nil {
		t.Fatalf("SaveProfile overwrite: %v", err)
	}
	got, err = s.GetProfile("u1")
	if err != nil {
		t.Fatalf("GetProfile after overwrite: %v", err)
	}
	if got != `{"full_name":"Grace"}` {
		t.Errorf("GetProfile after overwrite = %q", got)
	}
}

func TestGoalsIsolatedPerUser(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveGoals("u1", `{"target_role":"SRE"}`); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}
	if err := s.SaveGoals("u2", `{"target_role":"PM"}`); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}

	g1, err := s.GetGoals("u1")
	if err != nil {
		t.Fatalf("GetGoals u1: %v", err)
	}
	if g1 != `{"target_role":"SRE"}` {
		t.Errorf("u1 goals = %q", g1)
	}
	if _, err := s.GetGoals("u3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetGoals u3: err = %v, want ErrNotFound", err)
	}
}

func TestSaveInteractionDefaults(t *testing.T) {
	s := openTestStore(t)

	err := s.SaveInteraction(Interaction{
		ID: "i1", UserID: "u1", Capability: "career_counseling",
		Query: "q", Response: "r",
	})
	if err != nil {
		t.Fatalf("SaveInteraction: %v", err)
	}

	got, err := s.RecentInteractions("u1", "", 0)
	if err != nil {
		t.Fatalf("RecentInteractions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Status != "completed" {
		t.Errorf("default status = %q", got[0].Status)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("created_at not defaulted")
	}
}

func TestRecentInteractionsFilterAndOrder(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		cap := "career_counseling"
		if i%2 == 0 {
			cap = "job_matching"
		}
		err := s.SaveInteraction(Interaction{
			ID:         fmt.Sprintf("i%d", i),
			UserID:     "u1",
			Capability: cap,
			Query:      fmt.Sprintf("q%d", i),
			Response:   "r",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveInteraction %d: %v", i, err)
		}
	}

	all, err := s.RecentInteractions("u1", "", 0)
	if err != nil {
		t.Fatalf("RecentInteractions: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("all len = %d, want 6", len(all))
	}
	if all[0].ID != "i5" || all[5].ID != "i0" {
		t.Errorf("order wrong: first=%s last=%s", all[0].ID, all[5].ID)
	}

	jm, err := s.RecentInteractions("u1", "job_matching", 2)
	if err != nil {
		t.Fatalf("RecentInteractions filtered: %v", err)
	}
	if len(jm) != 2 {
		t.Fatalf("filtered len = %d, want 2", len(jm))
	}
	if jm[0].ID != "i4" || jm[1].ID != "i2" {
		t.Errorf("filtered order wrong: %s, %s", jm[0].ID, jm[1].ID)
	}
}

func TestInteractionRetention(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < RetentionLimit+10; i++ {
		err := s.SaveInteraction(Interaction{
			ID:         fmt.Sprintf("i%d", i),
			UserID:     "u1",
			Capability: "career_counseling",
			Query:      fmt.Sprintf("q%d", i),
			Response:   "r",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("SaveInteraction %d: %v", i, err)
		}
	}

	n, err := s.CountInteractions("u1")
	if err != nil {
		t.Fatalf("CountInteractions: %v", err)
	}
	if n != RetentionLimit {
		t.Errorf("count = %d, want %d", n, RetentionLimit)
	}

	// The newest rows survive, the oldest are gone.
	recent, err := s.RecentInteractions("u1", "", 0)
	if err != nil {
		t.Fatalf("RecentInteractions: %v", err)
	}
	if recent[0].ID != fmt.Sprintf("i%d", RetentionLimit+9) {
		t.Errorf("newest = %s", recent[0].ID)
	}
	if recent[len(recent)-1].ID != "i10" {
		t.Errorf("oldest surviving = %s, want i10", recent[len(recent)-1].ID)
	}
}

// TestRetentionPerUser verifies pruning for one user never touches another's rows.
func TestRetentionPerUser(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := s.SaveInteraction(Interaction{
			ID: fmt.Sprintf("other%d", i), UserID: "u2",
			Capability: "job_matching", Query: "q", Response: "r",
			CreatedAt: base,
		}); err != nil {
			t.Fatalf("SaveInteraction u2: %v", err)
		}
	}
	for i := 0; i < RetentionLimit+5; i++ {
		if err := s.SaveInteraction(Interaction{
			ID: fmt.Sprintf("i%d", i), UserID: "u1",
			Capability: "job_matching", Query: "q", Response: "r",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("SaveInteraction u1: %v", err)
		}
	}

	n, err := s.CountInteractions("u2")
	if err != nil {
		t.Fatalf("CountInteractions u2: %v", err)
	}
	if n != 5 {
		t.Errorf("u2 count = %d, want 5", n)
	}
}
