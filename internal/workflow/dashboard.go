package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/recruiter/internal/recruiting"
	"github.com/spigell/recruiter/internal/roles"
)

const recentCandidates = 5

// Dashboard summarises the session.
type Dashboard struct {
	TotalCandidates int
	Selected        int
	Rejected        int
	Interviews      int
	// SuccessRate is the selected share in percent, zero without candidates.
	SuccessRate float64
	ByRole      map[roles.Role]int
	Recent      []*recruiting.Candidate
	GeneratedAt time.Time
}

func (s *Session) Dashboard() Dashboard {
	d := Dashboard{
		TotalCandidates: s.candidates.Len(),
		Selected:        len(s.candidates.ByStatus(recruiting.StatusSelected)),
		Rejected:        len(s.candidates.ByStatus(recruiting.StatusRejected)),
		Interviews:      s.interviews.Len(),
		ByRole:          s.candidates.CountByRole(),
		Recent:          s.candidates.Recent(recentCandidates),
		GeneratedAt:     s.now(),
	}
	if d.TotalCandidates > 0 {
		d.SuccessRate = float64(d.Selected) / float64(d.TotalCandidates) * 100
	}
	return d
}

// Report renders the dashboard as plain text.
func (d Dashboard) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "AI Recruitment System Report\nGenerated: %s\n\n", d.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "- Total Candidates: %d\n", d.TotalCandidates)
	fmt.Fprintf(&b, "- Selected: %d\n", d.Selected)
	fmt.Fprintf(&b, "- Rejected: %d\n", d.Rejected)
	fmt.Fprintf(&b, "- Scheduled Interviews: %d\n\n", d.Interviews)
	fmt.Fprintf(&b, "Success Rate: %.1f%%\n\n", d.SuccessRate)

	if len(d.ByRole) > 0 {
		b.WriteString("Candidates by Role:\n")
		for _, r := range roles.All() {
			if n := d.ByRole[r]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", roles.Title(r), n)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Recent Candidates:\n")
	for _, c := range d.Recent {
		fmt.Fprintf(&b, "- %s (%s) - %s\n", c.Name, c.Role, c.Status)
	}
	return b.String()
}
