// Package templates keeps the editable interview email templates for the
// lifetime of the process.
package templates

import (
	"fmt"
	"strings"
)

// Purpose keys a template.
type Purpose string

const (
	Invitation   Purpose = "invitation"
	Confirmation Purpose = "confirmation"
	Reminder     Purpose = "reminder"
)

var purposes = []Purpose{Invitation, Confirmation, Reminder}

type Template struct {
	Subject string
	Body    string
}

// Data fills the {placeholder} fields of a template.
type Data struct {
	CandidateName string
	CompanyName   string
	Role          string
	InterviewDate string
	InterviewTime string
	MeetingLink   string
}

func (d Data) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{candidate_name}", d.CandidateName,
		"{company_name}", d.CompanyName,
		"{role}", d.Role,
		"{interview_date}", d.InterviewDate,
		"{interview_time}", d.InterviewTime,
		"{zoom_link}", d.MeetingLink,
	)
}

// Store is not safe for concurrent use.
type Store struct {
	items map[Purpose]Template
}

func NewStore() *Store {
	items := make(map[Purpose]Template, len(defaults))
	for k, v := range defaults {
		items[k] = v
	}
	return &Store{items: items}
}

// Purposes returns the template keys in display order.
func Purposes() []Purpose {
	return append([]Purpose(nil), purposes...)
}

func (s *Store) Get(p Purpose) (Template, error) {
	t, ok := s.items[p]
	if !ok {
		return Template{}, fmt.Errorf("unknown email template %q", p)
	}
	return t, nil
}

// Update replaces the subject and body of an existing template.
func (s *Store) Update(p Purpose, subject, body string) error {
	if _, ok := s.items[p]; !ok {
		return fmt.Errorf("unknown email template %q", p)
	}
	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("email template %q: subject must not be empty", p)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("email template %q: body must not be empty", p)
	}
	s.items[p] = Template{Subject: subject, Body: body}
	return nil
}

// Render fills the template placeholders. Unknown placeholders are left as-is.
func (s *Store) Render(p Purpose, d Data) (Template, error) {
	t, err := s.Get(p)
	if err != nil {
		return Template{}, err
	}
	r := d.replacer()
	return Template{Subject: r.Replace(t.Subject), Body: r.Replace(t.Body)}, nil
}

func (p Purpose) Title() string {
	s := string(p)
	if s == "" {
		return s
	}
	return "Interview " + strings.ToUpper(s[:1]) + s[1:]
}
