// Package scheduler books interview slots and confirms them with the candidate.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/notify"
)

const (
	DefaultTimezone = "Asia/Kolkata"
	DefaultLabel    = "IST"

	Duration  = 60 * time.Minute
	startHour = 11

	timestampLayout = "2006-01-02T15:04:05"
)

// Agent produces meeting details for a scheduling instruction.
type Agent interface {
	Schedule(ctx context.Context, instruction string) (string, error)
}

// Confirmer sends the interview confirmation.
type Confirmer interface {
	Notify(ctx context.Context, req notify.Request) (*notify.Message, error)
}

// Request describes the interview to book.
type Request struct {
	Email string
	Role  string
	// Template is the rendered body the confirmation should follow. Optional.
	Template string
}

// Meeting is a booked interview.
type Meeting struct {
	Slot         time.Time
	Duration     time.Duration
	Details      string
	Confirmation *notify.Message
}

// Zone is the fixed timezone interviews are booked in.
type Zone struct {
	Location *time.Location
	Label    string
}

// LoadZone resolves an IANA timezone name. Empty values fall back to the defaults.
func LoadZone(name, label string) (Zone, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultTimezone
	}
	if strings.TrimSpace(label) == "" {
		label = DefaultLabel
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return Zone{Location: loc, Label: label}, nil
}

type Scheduler struct {
	agent     Agent
	confirmer Confirmer
	zone      Zone
	now       func() time.Time
	logger    *zap.Logger
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the clock used to compute the slot.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(agent Agent, confirmer Confirmer, zone Zone, logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if zone.Location == nil {
		zone.Location = time.UTC
	}
	s := &Scheduler{
		agent:     agent,
		confirmer: confirmer,
		zone:      zone,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Zone returns the timezone slots are computed in.
func (s *Scheduler) Zone() Zone {
	return s.zone
}

// NextSlot returns 11:00 on the day after now, in the scheduler's timezone.
func (s *Scheduler) NextSlot() time.Time {
	return NextSlot(s.now(), s.zone.Location)
}

// NextSlot returns 11:00:00 local time on the calendar day after now in loc.
func NextSlot(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d+1, startHour, 0, 0, 0, loc)
}

// Instruction renders the prompt the agent books the meeting from.
func (s *Scheduler) Instruction(req Request, slot time.Time) string {
	return fmt.Sprintf(`Schedule a 60-minute technical interview:
- Title: '%s Technical Interview'
- Date: %s
- Timezone: %s
- Attendee: %s`, req.Role, slot.Format(timestampLayout), s.zone.Label, req.Email)
}

// Schedule books the next slot and sends the confirmation. Failures are logged
// with their cause and reported to the caller as a generic delivery failure.
func (s *Scheduler) Schedule(ctx context.Context, req Request) (*Meeting, error) {
	slot := s.NextSlot()
	log := s.logger.With(
		zap.String("email", req.Email),
		zap.String("role", req.Role),
		zap.Time("slot", slot),
	)

	details, err := s.agent.Schedule(ctx, s.Instruction(req, slot))
	if err != nil {
		log.Error("scheduling interview failed", zap.Error(err))
		return nil, errUnableToSchedule()
	}

	msg, err := s.confirmer.Notify(ctx, notify.InterviewConfirmation{
		Role:           req.Role,
		MeetingDetails: details,
		Timezone:       s.zone.Label,
		Template:       req.Template,
	})
	if err != nil {
		log.Error("sending interview confirmation failed", zap.Error(err))
		return nil, errUnableToSchedule()
	}

	log.Info("interview scheduled")
	return &Meeting{
		Slot:         slot,
		Duration:     Duration,
		Details:      details,
		Confirmation: msg,
	}, nil
}

// The cause is logged, not returned.
func errUnableToSchedule() error {
	return apperr.New(apperr.KindDeliveryFailed, "schedule", "unable to schedule interview", nil)
}
