package notify

import (
	"fmt"
	"strings"

	"github.com/spigell/recruiter/internal/sanitize"
)

// Request is a structured notification intent. Instruction renders it as the
// natural-language prompt the model drafts the email body from.
type Request interface {
	Kind() string
	Instruction() string
}

// SelectionNotice congratulates a selected candidate.
type SelectionNotice struct {
	To      string
	Role    string
	Company string
}

func (SelectionNotice) Kind() string { return "selection" }

func (n SelectionNotice) Instruction() string {
	return fmt.Sprintf(`Send an email to %s about selection for the %s position.
Congratulate them and mention next steps.
Include company name: %s.`, n.To, n.Role, n.Company)
}

// RejectionNotice carries the analysis feedback to a rejected candidate.
type RejectionNotice struct {
	To       string
	Role     string
	Feedback string
}

const rejectionSignature = "best,\nthe ai recruiting team"

func (RejectionNotice) Kind() string { return "rejection" }

func (n RejectionNotice) Instruction() string {
	return fmt.Sprintf(`send an email to %s regarding the %s application.
Use all lowercase, be empathetic and human.
Mention feedback: %s
Encourage upskilling and retry.
Suggest learning resources based on missing skills.
End with exactly:
%s`, n.To, n.Role, sanitize.Clean(n.Feedback), rejectionSignature)
}

// InterviewConfirmation tells the candidate about a scheduled interview.
// It names no recipient of its own; the address comes from MeetingDetails.
type InterviewConfirmation struct {
	Role           string
	MeetingDetails string
	Timezone       string
	Template       string
}

func (InterviewConfirmation) Kind() string { return "interview_confirmation" }

func (n InterviewConfirmation) Instruction() string {
	var b strings.Builder
	fmt.Fprintf(&b, `Send interview confirmation email:
- Role: %s
- Meeting Details: %s
- Timezone: %s
- Ask candidate to join 5 minutes early`, n.Role, n.MeetingDetails, n.Timezone)

	if tmpl := strings.TrimSpace(n.Template); tmpl != "" {
		fmt.Fprintf(&b, "\n- Base the message on this template:\n%s", tmpl)
	}
	return b.String()
}
