// Package recruiting holds the in-memory records a recruiting session produces.
package recruiting

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/spigell/recruiter/internal/roles"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusSelected Status = "selected"
	StatusRejected Status = "rejected"
)

// Candidate is one analysed résumé. Status and Feedback are set once by the
// analysis; re-analysis creates a new Candidate.
type Candidate struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            roles.Role `json:"role"`
	ResumeText      string     `json:"resume_text,omitempty"`
	Status          Status     `json:"status"`
	Feedback        string     `json:"feedback"`
	Score           int        `json:"score"`
	AnalyzedAt      time.Time  `json:"analyzed_at"`
	MatchingSkills  []string   `json:"matching_skills,omitempty"`
	MissingSkills   []string   `json:"missing_skills,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
}

// Score returns a display score in [60,95] for selected candidates and
// [20,60] otherwise. It carries no analytical meaning.
func Score(rng *rand.Rand, selected bool) int {
	if selected {
		return 60 + rng.Intn(36)
	}
	return 20 + rng.Intn(41)
}

type Candidates struct {
	Items  []*Candidate
	nextID int
}

// Add assigns the next ID to c and appends it.
func (cs *Candidates) Add(c *Candidate) *Candidate {
	cs.nextID++
	c.ID = cs.nextID
	cs.Items = append(cs.Items, c)
	return c
}

func (cs *Candidates) Len() int {
	return len(cs.Items)
}

func (cs *Candidates) FindByID(id int) *Candidate {
	for _, c := range cs.Items {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ByStatus returns candidates with the given status in insertion order.
func (cs *Candidates) ByStatus(status Status) []*Candidate {
	var result []*Candidate
	for _, c := range cs.Items {
		if c.Status == status {
			result = append(result, c)
		}
	}
	return result
}

// Recent returns up to n candidates, newest analysis first.
func (cs *Candidates) Recent(n int) []*Candidate {
	sorted := make([]*Candidate, len(cs.Items))
	copy(sorted, cs.Items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AnalyzedAt.Equal(sorted[j].AnalyzedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].AnalyzedAt.After(sorted[j].AnalyzedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CountByRole returns the number of candidates per role.
func (cs *Candidates) CountByRole() map[roles.Role]int {
	counts := make(map[roles.Role]int)
	for _, c := range cs.Items {
		counts[c.Role]++
	}
	return counts
}

// ReportByRole groups a printable summary of each candidate by role title.
func (cs *Candidates) ReportByRole() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, c := range cs.Items {
		key := fmt.Sprintf("%s (%s)", roles.Title(c.Role), c.Role)
		report[key] = append(report[key], map[string]string{
			"id":       fmt.Sprintf("%d", c.ID),
			"name":     c.Name,
			"email":    c.Email,
			"status":   string(c.Status),
			"score":    fmt.Sprintf("%d", c.Score),
			"feedback": c.Feedback,
			"analyzed": c.AnalyzedAt.Format(time.RFC3339),
		})
	}
	return report
}

// DumpToTmpFile writes the candidates as indented JSON and returns the path.
func (cs *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cs); err != nil {
		return "", err
	}
	return file.Name(), nil
}
