// Package workflow drives one operator through configuration, résumé
// analysis, interview scheduling and the dashboard.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/analyzer"
	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/extract"
	"github.com/spigell/recruiter/internal/notify"
	"github.com/spigell/recruiter/internal/recruiting"
	"github.com/spigell/recruiter/internal/roles"
	"github.com/spigell/recruiter/internal/scheduler"
	"github.com/spigell/recruiter/internal/templates"
)

const (
	// PreviewMeetingLink stands in for the real link in template previews.
	PreviewMeetingLink = "https://zoom.us/j/123456789"
	// confirmationMeetingLink fills {zoom_link} in the template handed to the
	// confirmation draft. The real link arrives with the meeting details.
	confirmationMeetingLink = "see the meeting details above"
)

type Analyzer interface {
	Evaluate(ctx context.Context, role roles.Role, resumeText string) (*analyzer.Verdict, error)
}

type Notifier interface {
	Draft(ctx context.Context, req notify.Request) (*notify.Message, error)
	Deliver(ctx context.Context, msg *notify.Message) error
}

type Scheduler interface {
	Schedule(ctx context.Context, req scheduler.Request) (*scheduler.Meeting, error)
}

// Services are the collaborators built from complete settings.
type Services struct {
	Analyzer  Analyzer
	Notifier  Notifier
	Scheduler Scheduler
}

// ServiceBuilder creates services when the operator leaves configuration.
type ServiceBuilder func(ctx context.Context, settings Settings) (*Services, error)

// AnalysisInput is one résumé submission.
type AnalysisInput struct {
	Name       string
	Email      string
	Role       roles.Role
	ResumeText string
}

// Session holds everything one operator produces. It is not safe for
// concurrent use.
type Session struct {
	settings      Settings
	state         State
	candidates    recruiting.Candidates
	interviews    recruiting.Interviews
	notifications recruiting.Notifications
	templates     *templates.Store

	build    ServiceBuilder
	services *Services
	zone     scheduler.Zone

	now    func() time.Time
	rng    *rand.Rand
	logger *zap.Logger
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRand sets the source of the cosmetic candidate score.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithZone sets the timezone used for template previews.
func WithZone(zone scheduler.Zone) Option {
	return func(s *Session) { s.zone = zone }
}

func NewSession(settings Settings, build ServiceBuilder, opts ...Option) *Session {
	s := &Session{
		settings:  settings,
		state:     Initial(),
		templates: templates.NewStore(),
		build:     build,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.zone.Location == nil {
		s.zone = scheduler.Zone{Location: time.UTC, Label: "UTC"}
	}
	return s
}

func (s *Session) Settings() Settings                          { return s.settings }
func (s *Session) State() State                                { return s.state }
func (s *Session) Candidates() *recruiting.Candidates          { return &s.candidates }
func (s *Session) Interviews() *recruiting.Interviews          { return &s.interviews }
func (s *Session) Notifications() *recruiting.Notifications    { return &s.notifications }
func (s *Session) Templates() *templates.Store                 { return s.templates }
func (s *Session) SelectedCandidates() []*recruiting.Candidate { return s.candidates.ByStatus(recruiting.StatusSelected) }

// UpdateSettings replaces the settings. Services are rebuilt on the next
// transition out of configuration.
func (s *Session) UpdateSettings(settings Settings) {
	s.settings = settings
	s.services = nil
}

func (s *Session) Proceed(ctx context.Context) error {
	return s.move(ctx, Proceed{})
}

func (s *Session) Navigate(ctx context.Context, to Step) error {
	return s.move(ctx, Navigate{To: to})
}

func (s *Session) move(ctx context.Context, ev Event) error {
	next, err := Next(s.state, ev, s.guards())
	if err != nil {
		return s.warn(err)
	}

	if s.state.Step == StepConfiguration && next.Step != StepConfiguration {
		if err := s.ensureServices(ctx); err != nil {
			return s.fail("build services", err)
		}
		s.notify(recruiting.LevelSuccess, "Configuration completed successfully!")
	}

	s.logger.Debug("workflow step changed",
		zap.Stringer("from", s.state.Step),
		zap.Stringer("to", next.Step),
	)
	s.state = next
	return nil
}

func (s *Session) ensureServices(ctx context.Context) error {
	if s.services != nil {
		return nil
	}
	if s.build == nil {
		return errors.New("no service builder configured")
	}
	services, err := s.build(ctx, s.settings)
	if err != nil {
		return err
	}
	s.services = services
	return nil
}

// ReadResume extracts the text of a PDF résumé.
func (s *Session) ReadResume(ctx context.Context, path string) (string, error) {
	text, err := extract.File(ctx, path)
	if err != nil {
		return "", s.fail("read resume", err)
	}
	s.notify(recruiting.LevelInfo, "Resume processed successfully!")
	return text, nil
}

// Analyze evaluates a résumé and records the candidate. A malformed model reply
// still records a rejected candidate and returns the error alongside it.
func (s *Session) Analyze(ctx context.Context, in AnalysisInput) (*recruiting.Candidate, error) {
	if err := s.requireStep(StepAnalysis, "analyze"); err != nil {
		return nil, err
	}

	switch {
	case strings.TrimSpace(in.ResumeText) == "":
		return nil, s.warn(apperr.New(apperr.KindValidation, "analyze", "please upload a resume first", nil))
	case strings.TrimSpace(in.Email) == "":
		return nil, s.warn(apperr.New(apperr.KindValidation, "analyze", "please enter candidate email", nil))
	case strings.TrimSpace(in.Name) == "":
		return nil, s.warn(apperr.New(apperr.KindValidation, "analyze", "please enter candidate name", nil))
	}

	verdict, err := s.services.Analyzer.Evaluate(ctx, in.Role, in.ResumeText)
	if verdict == nil {
		if err == nil {
			err = errors.New("analyzer returned no verdict")
		}
		return nil, s.fail("analysis failed", err)
	}

	status := recruiting.StatusRejected
	if verdict.Selected {
		status = recruiting.StatusSelected
	}

	c := s.candidates.Add(&recruiting.Candidate{
		Name:            strings.TrimSpace(in.Name),
		Email:           strings.TrimSpace(in.Email),
		Role:            in.Role,
		ResumeText:      in.ResumeText,
		Status:          status,
		Feedback:        verdict.Feedback,
		Score:           recruiting.Score(s.rng, verdict.Selected),
		AnalyzedAt:      s.now(),
		MatchingSkills:  verdict.MatchingSkills,
		MissingSkills:   verdict.MissingSkills,
		ExperienceLevel: string(verdict.ExperienceLevel),
	})
	s.notify(recruiting.LevelSuccess, fmt.Sprintf("Candidate %s added successfully!", c.Name))

	s.logger.Info("candidate analysed",
		zap.Int("candidate_id", c.ID),
		zap.String("role", string(c.Role)),
		zap.String("status", string(c.Status)),
	)

	if err != nil {
		return c, s.fail("analysis failed", err)
	}
	return c, nil
}

// PreviewDecision drafts the selection or rejection email without sending it.
func (s *Session) PreviewDecision(ctx context.Context, candidateID int) (*notify.Message, error) {
	if err := s.requireServices("preview email"); err != nil {
		return nil, err
	}
	c := s.candidates.FindByID(candidateID)
	if c == nil {
		return nil, s.warn(apperr.New(apperr.KindValidation, "preview email", fmt.Sprintf("candidate %d not found", candidateID), nil))
	}

	msg, err := s.services.Notifier.Draft(ctx, s.decisionRequest(c))
	if err != nil {
		return nil, s.fail("failed to generate email preview", err)
	}
	return msg, nil
}

// SendDecision drafts and sends the selection or rejection email.
func (s *Session) SendDecision(ctx context.Context, candidateID int) (*notify.Message, error) {
	msg, err := s.PreviewDecision(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return msg, s.SendDraft(ctx, msg)
}

// SendDraft delivers exactly the given drafted message.
func (s *Session) SendDraft(ctx context.Context, msg *notify.Message) error {
	if err := s.requireServices("send email"); err != nil {
		return err
	}
	if msg == nil {
		return s.warn(apperr.New(apperr.KindValidation, "send email", "no drafted email to send", nil))
	}

	if err := s.services.Notifier.Deliver(ctx, msg); err != nil {
		return s.fail("failed to send email", err)
	}

	label := "Email"
	switch msg.Kind {
	case notify.SelectionNotice{}.Kind():
		label = "Selection email"
	case notify.RejectionNotice{}.Kind():
		label = "Rejection email"
	}
	s.notify(recruiting.LevelSuccess, fmt.Sprintf("%s sent to %s!", label, msg.To))
	return nil
}

func (s *Session) decisionRequest(c *recruiting.Candidate) notify.Request {
	if c.Status == recruiting.StatusSelected {
		return notify.SelectionNotice{To: c.Email, Role: roles.Title(c.Role), Company: s.settings.CompanyName}
	}
	return notify.RejectionNotice{To: c.Email, Role: roles.Title(c.Role), Feedback: c.Feedback}
}

func (s *Session) BeginScheduling(candidateID int) error {
	return s.transition(BeginScheduling{CandidateID: candidateID})
}

func (s *Session) ChooseTemplate(p templates.Purpose) error {
	return s.transition(ChooseTemplate{Purpose: p})
}

func (s *Session) EditTemplate() error {
	return s.transition(EditTemplate{})
}

func (s *Session) AcceptTemplate() error {
	return s.transition(AcceptTemplate{})
}

func (s *Session) Cancel() error {
	return s.transition(Cancel{})
}

// SaveTemplate stores the edited template and returns to template selection.
func (s *Session) SaveTemplate(subject, body string) error {
	if err := s.saveTemplate(SaveTemplate{}, subject, body); err != nil {
		return err
	}
	s.notify(recruiting.LevelSuccess, "Email template updated successfully!")
	return nil
}

// SaveAndSchedule stores the edited template and moves to confirmation.
func (s *Session) SaveAndSchedule(subject, body string) error {
	return s.saveTemplate(SaveAndSchedule{}, subject, body)
}

func (s *Session) saveTemplate(ev Event, subject, body string) error {
	next, err := Next(s.state, ev, s.guards())
	if err != nil {
		return s.warn(err)
	}
	_, purpose, _ := s.state.Target()
	if err := s.templates.Update(purpose, subject, body); err != nil {
		return s.warn(apperr.New(apperr.KindValidation, "save template", "", err))
	}
	s.state = next
	return nil
}

// PreviewTemplate renders the template being worked on for the candidate being
// scheduled, using the slot that would be booked at now.
func (s *Session) PreviewTemplate(now time.Time) (templates.Template, error) {
	return s.renderTarget(now, PreviewMeetingLink)
}

func (s *Session) renderTarget(now time.Time, meetingLink string) (templates.Template, error) {
	candidateID, purpose, ok := s.state.Target()
	if !ok {
		return templates.Template{}, apperr.New(apperr.KindValidation, "preview template", "no candidate is being scheduled", nil)
	}
	c := s.candidates.FindByID(candidateID)
	if c == nil {
		return templates.Template{}, apperr.New(apperr.KindValidation, "preview template", fmt.Sprintf("candidate %d not found", candidateID), nil)
	}

	slot := scheduler.NextSlot(now, s.zone.Location)
	return s.templates.Render(purpose, templates.Data{
		CandidateName: c.Name,
		CompanyName:   s.settings.CompanyName,
		Role:          roles.Title(c.Role),
		InterviewDate: slot.Format("January 02, 2006"),
		InterviewTime: slot.Format("03:04 PM") + " " + s.zone.Label,
		MeetingLink:   meetingLink,
	})
}

// Confirm books the interview and records it. On failure nothing is recorded
// and the dialog stays on confirmation.
func (s *Session) Confirm(ctx context.Context) (*recruiting.InterviewRecord, error) {
	next, err := Next(s.state, Confirm{}, s.guards())
	if err != nil {
		return nil, s.warn(err)
	}
	if err := s.requireServices("schedule interview"); err != nil {
		return nil, err
	}
	if missing := s.settings.Videoconf().Missing(); len(missing) > 0 {
		return nil, s.warn(apperr.New(apperr.KindConfigurationIncomplete, "schedule interview",
			"videoconference credentials are required to schedule", nil).WithFields(missing...))
	}

	candidateID, purpose, _ := s.state.Target()
	c := s.candidates.FindByID(candidateID)
	if c == nil || c.Status != recruiting.StatusSelected {
		return nil, s.warn(apperr.New(apperr.KindValidation, "schedule interview", fmt.Sprintf("candidate %d cannot be scheduled", candidateID), nil))
	}

	rendered, err := s.renderTarget(s.now(), confirmationMeetingLink)
	if err != nil {
		return nil, s.fail("failed to schedule interview", err)
	}

	meeting, err := s.services.Scheduler.Schedule(ctx, scheduler.Request{
		Email:    c.Email,
		Role:     roles.Title(c.Role),
		Template: rendered.Body,
	})
	if err != nil {
		return nil, s.fail("failed to schedule interview", err)
	}

	record, err := recruiting.NewInterviewRecord(c, meeting.Slot, s.now(), string(purpose), meeting.Details)
	if err != nil {
		return nil, s.fail("failed to schedule interview", err)
	}
	s.interviews.Add(record)
	s.state = next

	s.notify(recruiting.LevelSuccess, fmt.Sprintf("Interview scheduled and email sent to %s!", c.Name))
	return record, nil
}

func (s *Session) transition(ev Event) error {
	next, err := Next(s.state, ev, s.guards())
	if err != nil {
		return s.warn(err)
	}
	s.state = next
	return nil
}

func (s *Session) guards() Guards {
	return Guards{
		Missing: s.settings.Missing(),
		CandidateStatus: func(id int) (recruiting.Status, bool) {
			c := s.candidates.FindByID(id)
			if c == nil {
				return "", false
			}
			return c.Status, true
		},
	}
}

func (s *Session) requireStep(step Step, op string) error {
	if s.state.Step != step {
		return s.warn(apperr.New(apperr.KindValidation, op, fmt.Sprintf("available on the %s step only", step), nil))
	}
	return s.requireServices(op)
}

func (s *Session) requireServices(op string) error {
	if s.services == nil {
		return s.warn(apperr.New(apperr.KindConfigurationIncomplete, op, "complete the configuration first", nil).
			WithFields(s.settings.Missing()...))
	}
	return nil
}

func (s *Session) notify(level recruiting.Level, message string) {
	s.notifications.Add(level, message, s.now())
}

// warn records an operator mistake.
func (s *Session) warn(err error) error {
	s.logger.Warn("operator action rejected", zap.Error(err))
	s.notify(recruiting.LevelWarning, err.Error())
	return err
}

// fail records a failed operator action.
func (s *Session) fail(action string, err error) error {
	s.logger.Error(action, zap.Error(err))
	s.notify(recruiting.LevelError, fmt.Sprintf("%s: %v", capitalize(action), err))
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
