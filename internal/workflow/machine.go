package workflow

import (
	"fmt"

	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/recruiting"
	"github.com/spigell/recruiter/internal/templates"
)

type Step int

const (
	StepConfiguration Step = iota + 1
	StepAnalysis
	StepScheduling
	StepDashboard
)

func (s Step) String() string {
	switch s {
	case StepConfiguration:
		return "Configuration"
	case StepAnalysis:
		return "Analysis"
	case StepScheduling:
		return "Scheduling"
	case StepDashboard:
		return "Dashboard"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Steps lists the top-level steps in order.
func Steps() []Step {
	return []Step{StepConfiguration, StepAnalysis, StepScheduling, StepDashboard}
}

func (s Step) valid() bool {
	return s >= StepConfiguration && s <= StepDashboard
}

// SubState is the scheduling dialog position. It is one of Idle,
// ChoosingTemplate, EditingTemplate or ConfirmingSchedule.
type SubState interface {
	subState()
	Name() string
}

// Idle shows the selected-candidate list.
type Idle struct{}

type ChoosingTemplate struct {
	CandidateID int
	Purpose     templates.Purpose
}

type EditingTemplate struct {
	CandidateID int
	Purpose     templates.Purpose
}

type ConfirmingSchedule struct {
	CandidateID int
	Purpose     templates.Purpose
}

func (Idle) subState()               {}
func (ChoosingTemplate) subState()   {}
func (EditingTemplate) subState()    {}
func (ConfirmingSchedule) subState() {}

func (Idle) Name() string               { return "candidate_list" }
func (ChoosingTemplate) Name() string   { return "email_template" }
func (EditingTemplate) Name() string    { return "edit_email" }
func (ConfirmingSchedule) Name() string { return "confirm_schedule" }

// State is the whole workflow position.
type State struct {
	Step       Step
	Scheduling SubState
}

// Initial is the state a session starts in.
func Initial() State {
	return State{Step: StepConfiguration, Scheduling: Idle{}}
}

// Target returns the candidate and template the scheduling dialog is working
// on, if any.
func (s State) Target() (candidateID int, purpose templates.Purpose, ok bool) {
	switch sub := s.Scheduling.(type) {
	case ChoosingTemplate:
		return sub.CandidateID, sub.Purpose, true
	case EditingTemplate:
		return sub.CandidateID, sub.Purpose, true
	case ConfirmingSchedule:
		return sub.CandidateID, sub.Purpose, true
	default:
		return 0, "", false
	}
}

// Event is an operator action.
type Event interface {
	event()
}

type (
	Proceed         struct{}
	Navigate        struct{ To Step }
	BeginScheduling struct{ CandidateID int }
	ChooseTemplate  struct{ Purpose templates.Purpose }
	EditTemplate    struct{}
	SaveTemplate    struct{}
	SaveAndSchedule struct{}
	AcceptTemplate  struct{}
	Confirm         struct{}
	Cancel          struct{}
)

func (Proceed) event()         {}
func (Navigate) event()        {}
func (BeginScheduling) event() {}
func (ChooseTemplate) event()  {}
func (EditTemplate) event()    {}
func (SaveTemplate) event()    {}
func (SaveAndSchedule) event() {}
func (AcceptTemplate) event()  {}
func (Confirm) event()         {}
func (Cancel) event()          {}

// Guards carry the facts transitions depend on.
type Guards struct {
	// Missing lists empty mandatory configuration fields.
	Missing []string
	// CandidateStatus looks a candidate up by ID.
	CandidateStatus func(id int) (recruiting.Status, bool)
}

// Next computes the state after ev. It has no side effects; s is returned
// unchanged together with an error when the transition is not allowed.
func Next(s State, ev Event, g Guards) (State, error) {
	if s.Scheduling == nil {
		s.Scheduling = Idle{}
	}

	switch e := ev.(type) {
	case Proceed:
		if s.Step == StepDashboard {
			return s, invalid(s, "proceed")
		}
		return moveTo(s, s.Step+1, g)
	case Navigate:
		if !e.To.valid() {
			return s, apperr.New(apperr.KindValidation, "workflow", fmt.Sprintf("unknown step %d", int(e.To)), nil)
		}
		return moveTo(s, e.To, g)
	}

	if s.Step != StepScheduling {
		return s, invalid(s, eventName(ev))
	}

	switch e := ev.(type) {
	case BeginScheduling:
		if _, ok := s.Scheduling.(Idle); !ok {
			return s, invalid(s, eventName(ev))
		}
		status, found := lookup(g, e.CandidateID)
		if !found {
			return s, apperr.New(apperr.KindValidation, "workflow", fmt.Sprintf("candidate %d not found", e.CandidateID), nil)
		}
		if status != recruiting.StatusSelected {
			return s, apperr.New(apperr.KindValidation, "workflow",
				fmt.Sprintf("candidate %d is %s, only selected candidates can be scheduled", e.CandidateID, status), nil)
		}
		s.Scheduling = ChoosingTemplate{CandidateID: e.CandidateID, Purpose: templates.Invitation}
		return s, nil

	case ChooseTemplate:
		sub, ok := s.Scheduling.(ChoosingTemplate)
		if !ok {
			return s, invalid(s, eventName(ev))
		}
		if !knownPurpose(e.Purpose) {
			return s, apperr.New(apperr.KindValidation, "workflow", fmt.Sprintf("unknown email template %q", e.Purpose), nil)
		}
		sub.Purpose = e.Purpose
		s.Scheduling = sub
		return s, nil

	case EditTemplate:
		sub, ok := s.Scheduling.(ChoosingTemplate)
		if !ok {
			return s, invalid(s, eventName(ev))
		}
		s.Scheduling = EditingTemplate(sub)
		return s, nil

	case AcceptTemplate:
		sub, ok := s.Scheduling.(ChoosingTemplate)
		if !ok {
			return s, invalid(s, eventName(ev))
		}
		s.Scheduling = ConfirmingSchedule(sub)
		return s, nil

	case SaveTemplate:
		sub, ok := s.Scheduling.(EditingTemplate)
		if !ok {
			return s, invalid(s, eventName(ev))
		}
		s.Scheduling = ChoosingTemplate(sub)
		return s, nil

	case SaveAndSchedule:
		sub, ok := s.Scheduling.(EditingTemplate)
		if !ok {
			return s, invalid(s, eventName(ev))
		}
		s.Scheduling = ConfirmingSchedule(sub)
		return s, nil

	case Confirm:
		if _, ok := s.Scheduling.(ConfirmingSchedule); !ok {
			return s, invalid(s, eventName(ev))
		}
		s.Scheduling = Idle{}
		return s, nil

	case Cancel:
		switch sub := s.Scheduling.(type) {
		case ChoosingTemplate:
			s.Scheduling = Idle{}
		case EditingTemplate:
			s.Scheduling = ChoosingTemplate(sub)
		case ConfirmingSchedule:
			s.Scheduling = ChoosingTemplate(sub)
		default:
			return s, invalid(s, eventName(ev))
		}
		return s, nil
	}

	return s, apperr.New(apperr.KindValidation, "workflow", fmt.Sprintf("unsupported event %T", ev), nil)
}

func moveTo(s State, to Step, g Guards) (State, error) {
	if s.Step == StepConfiguration && to > StepConfiguration && len(g.Missing) > 0 {
		return s, apperr.New(apperr.KindConfigurationIncomplete, "workflow",
			"please configure the following", nil).WithFields(g.Missing...)
	}
	if s.Step == StepScheduling && to != StepScheduling {
		s.Scheduling = Idle{}
	}
	s.Step = to
	return s, nil
}

func lookup(g Guards, id int) (recruiting.Status, bool) {
	if g.CandidateStatus == nil {
		return "", false
	}
	return g.CandidateStatus(id)
}

func knownPurpose(p templates.Purpose) bool {
	for _, known := range templates.Purposes() {
		if known == p {
			return true
		}
	}
	return false
}

func invalid(s State, action string) error {
	where := s.Step.String()
	if s.Step == StepScheduling {
		where = s.Scheduling.Name()
	}
	return apperr.New(apperr.KindValidation, "workflow", fmt.Sprintf("cannot %s from %s", action, where), nil)
}

func eventName(ev Event) string {
	switch ev.(type) {
	case BeginScheduling:
		return "begin scheduling"
	case ChooseTemplate:
		return "choose template"
	case EditTemplate:
		return "edit template"
	case SaveTemplate:
		return "save template"
	case SaveAndSchedule:
		return "save and schedule"
	case AcceptTemplate:
		return "accept template"
	case Confirm:
		return "confirm"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("%T", ev)
	}
}
