package recruiting

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/recruiter/internal/roles"
)

const InterviewScheduled = "scheduled"

// InterviewRecord is a booked interview.
type InterviewRecord struct {
	ID             string     `json:"id"`
	CandidateID    int        `json:"candidate_id"`
	CandidateName  string     `json:"candidate_name"`
	CandidateEmail string     `json:"candidate_email"`
	Role           roles.Role `json:"role"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	CreatedAt      time.Time  `json:"created_at"`
	Status         string     `json:"status"`
	Template       string     `json:"template"`
	MeetingDetails string     `json:"meeting_details"`
}

// NewInterviewRecord builds a record for a selected candidate.
func NewInterviewRecord(c *Candidate, slot, now time.Time, template, details string) (*InterviewRecord, error) {
	if c == nil {
		return nil, errors.New("candidate is required")
	}
	if c.Status != StatusSelected {
		return nil, fmt.Errorf("candidate %d is %s, only selected candidates can be interviewed", c.ID, c.Status)
	}
	return &InterviewRecord{
		ID:             uuid.NewString(),
		CandidateID:    c.ID,
		CandidateName:  c.Name,
		CandidateEmail: c.Email,
		Role:           c.Role,
		ScheduledAt:    slot,
		CreatedAt:      now,
		Status:         InterviewScheduled,
		Template:       template,
		MeetingDetails: details,
	}, nil
}

type Interviews struct {
	Items []*InterviewRecord
}

func (is *Interviews) Add(r *InterviewRecord) {
	is.Items = append(is.Items, r)
}

func (is *Interviews) Len() int {
	return len(is.Items)
}

// ForCandidate returns the interviews booked for the candidate.
func (is *Interviews) ForCandidate(id int) []*InterviewRecord {
	var result []*InterviewRecord
	for _, r := range is.Items {
		if r.CandidateID == id {
			result = append(result, r)
		}
	}
	return result
}
