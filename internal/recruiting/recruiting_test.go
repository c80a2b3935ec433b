package recruiting

import (
	"encoding/json"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/spigell/recruiter/internal/roles"
)

func sampleCandidates() *Candidates {
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	cs := &Candidates{}
	cs.Add(&Candidate{Name: "Ana", Email: "ana@example.com", Role: roles.BackendEngineer, Status: StatusSelected, Score: 90, AnalyzedAt: base})
	cs.Add(&Candidate{Name: "Bob", Email: "bob@example.com", Role: roles.FrontendEngineer, Status: StatusRejected, Score: 30, AnalyzedAt: base.Add(time.Hour)})
	cs.Add(&Candidate{Name: "Cid", Email: "cid@example.com", Role: roles.BackendEngineer, Status: StatusRejected, Score: 40, AnalyzedAt: base.Add(2 * time.Hour)})
	return cs
}

func TestAddAssignsMonotonicIDs(t *testing.T) {
	cs := sampleCandidates()
	for i, c := range cs.Items {
		if c.ID != i+1 {
			t.Fatalf("expected id %d, got %d", i+1, c.ID)
		}
	}
	if cs.FindByID(2).Name != "Bob" || cs.FindByID(42) != nil {
		t.Fatalf("unexpected lookup results")
	}
}

func TestByStatusAndRecent(t *testing.T) {
	cs := sampleCandidates()

	if got := cs.ByStatus(StatusRejected); len(got) != 2 || got[0].Name != "Bob" {
		t.Fatalf("unexpected rejected list: %+v", got)
	}

	recent := cs.Recent(2)
	if len(recent) != 2 || recent[0].Name != "Cid" || recent[1].Name != "Bob" {
		t.Fatalf("unexpected recent order: %v, %v", recent[0].Name, recent[1].Name)
	}
	if len(cs.Recent(10)) != 3 {
		t.Fatalf("expected all candidates when n exceeds length")
	}
}

func TestReportByRole(t *testing.T) {
	report := sampleCandidates().ReportByRole()

	entries, ok := report["Backend Engineer (backend_engineer)"]
	if !ok {
		t.Fatalf("expected role key in report, got %v", report)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["status"] != "selected" || entries[0]["score"] != "90" {
		t.Fatalf("unexpected entry: %v", entries[0])
	}

	counts := sampleCandidates().CountByRole()
	if counts[roles.BackendEngineer] != 2 || counts[roles.FrontendEngineer] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	path, err := sampleCandidates().DumpToTmpFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	var decoded Candidates
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if len(decoded.Items) != 3 || decoded.Items[2].Email != "cid@example.com" {
		t.Fatalf("unexpected dump contents: %+v", decoded.Items)
	}
}

func TestScoreBands(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		if s := Score(rng, true); s < 60 || s > 95 {
			t.Fatalf("selected score out of band: %d", s)
		}
		if s := Score(rng, false); s < 20 || s > 60 {
			t.Fatalf("rejected score out of band: %d", s)
		}
	}
}

func TestInterviewRecordRequiresSelected(t *testing.T) {
	cs := sampleCandidates()
	now := time.Now()

	if _, err := NewInterviewRecord(cs.FindByID(2), now, now, "confirmation", "link"); err == nil {
		t.Fatalf("expected error for rejected candidate")
	}

	rec, err := NewInterviewRecord(cs.FindByID(1), now.Add(24*time.Hour), now, "confirmation", "link")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" || rec.Status != InterviewScheduled || rec.CandidateEmail != "ana@example.com" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	var is Interviews
	is.Add(rec)
	if is.Len() != 1 || len(is.ForCandidate(1)) != 1 || len(is.ForCandidate(2)) != 0 {
		t.Fatalf("unexpected interview lookups")
	}
}

func TestNotifications(t *testing.T) {
	var ns Notifications
	now := time.Now()
	ns.Add(LevelInfo, "first", now)
	ns.Add(LevelSuccess, "second", now)

	last, ok := ns.Last()
	if !ok || last.ID != 2 || last.Message != "second" {
		t.Fatalf("unexpected last notification: %+v", last)
	}
	if got := ns.Since(1); len(got) != 1 || got[0].Message != "second" {
		t.Fatalf("unexpected since result: %+v", got)
	}
	if ns.Since(5) != nil {
		t.Fatalf("expected nothing past the end")
	}
}
