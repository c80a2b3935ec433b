package workflow

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/recruiting"
	"github.com/spigell/recruiter/internal/templates"
)

func statusGuard(statuses map[int]recruiting.Status) func(int) (recruiting.Status, bool) {
	return func(id int) (recruiting.Status, bool) {
		s, ok := statuses[id]
		return s, ok
	}
}

func TestNextTopLevel(t *testing.T) {
	t.Parallel()

	complete := Guards{}
	incomplete := Guards{Missing: []string{FieldMailPassword}}

	tests := []struct {
		name    string
		from    State
		event   Event
		guards  Guards
		want    Step
		errKind apperr.Kind
	}{
		{name: "proceed from configuration", from: Initial(), event: Proceed{}, guards: complete, want: StepAnalysis},
		{name: "blocked by missing field", from: Initial(), event: Proceed{}, guards: incomplete, want: StepConfiguration, errKind: apperr.KindConfigurationIncomplete},
		{name: "navigate past analysis blocked too", from: Initial(), event: Navigate{To: StepDashboard}, guards: incomplete, want: StepConfiguration, errKind: apperr.KindConfigurationIncomplete},
		{name: "analysis to scheduling is free", from: State{Step: StepAnalysis, Scheduling: Idle{}}, event: Proceed{}, guards: incomplete, want: StepScheduling},
		{name: "back to configuration always allowed", from: State{Step: StepDashboard, Scheduling: Idle{}}, event: Navigate{To: StepConfiguration}, guards: incomplete, want: StepConfiguration},
		{name: "jump to dashboard", from: State{Step: StepAnalysis, Scheduling: Idle{}}, event: Navigate{To: StepDashboard}, want: StepDashboard},
		{name: "nothing after dashboard", from: State{Step: StepDashboard, Scheduling: Idle{}}, event: Proceed{}, want: StepDashboard, errKind: apperr.KindValidation},
		{name: "unknown step", from: Initial(), event: Navigate{To: Step(9)}, want: StepConfiguration, errKind: apperr.KindValidation},
		{name: "scheduling events outside scheduling", from: State{Step: StepAnalysis, Scheduling: Idle{}}, event: BeginScheduling{CandidateID: 1}, want: StepAnalysis, errKind: apperr.KindValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Next(tt.from, tt.event, tt.guards)
			if tt.errKind == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.errKind != "" && apperr.KindOf(err) != tt.errKind {
				t.Fatalf("expected %s error, got %v", tt.errKind, err)
			}
			if got.Step != tt.want {
				t.Fatalf("expected step %s, got %s", tt.want, got.Step)
			}
		})
	}
}

func TestNextReportsExactlyMissingFields(t *testing.T) {
	settings := Settings{ModelKey: "k", MailSender: "hr@company.io", CompanyName: "Acme"}

	_, err := Next(Initial(), Proceed{}, Guards{Missing: settings.Missing()})
	if !errors.Is(err, apperr.ErrConfigurationIncomplete) {
		t.Fatalf("expected configuration incomplete, got %v", err)
	}
	if fields := apperr.FieldsOf(err); !reflect.DeepEqual(fields, []string{FieldMailPassword}) {
		t.Fatalf("expected only the mail password flagged, got %v", fields)
	}
}

func TestSchedulingSubMachine(t *testing.T) {
	t.Parallel()

	g := Guards{CandidateStatus: statusGuard(map[int]recruiting.Status{
		1: recruiting.StatusSelected,
		2: recruiting.StatusRejected,
	})}
	at := func(sub SubState) State { return State{Step: StepScheduling, Scheduling: sub} }
	choosing := ChoosingTemplate{CandidateID: 1, Purpose: templates.Confirmation}
	editing := EditingTemplate(choosing)
	confirming := ConfirmingSchedule(choosing)

	tests := []struct {
		name    string
		from    SubState
		event   Event
		want    SubState
		wantErr bool
	}{
		{name: "begin", from: Idle{}, event: BeginScheduling{CandidateID: 1}, want: ChoosingTemplate{CandidateID: 1, Purpose: templates.Invitation}},
		{name: "begin rejected candidate", from: Idle{}, event: BeginScheduling{CandidateID: 2}, want: Idle{}, wantErr: true},
		{name: "begin unknown candidate", from: Idle{}, event: BeginScheduling{CandidateID: 3}, want: Idle{}, wantErr: true},
		{name: "choose template", from: ChoosingTemplate{CandidateID: 1, Purpose: templates.Invitation}, event: ChooseTemplate{Purpose: templates.Confirmation}, want: choosing},
		{name: "choose unknown template", from: choosing, event: ChooseTemplate{Purpose: "farewell"}, want: choosing, wantErr: true},
		{name: "edit", from: choosing, event: EditTemplate{}, want: editing},
		{name: "accept as is", from: choosing, event: AcceptTemplate{}, want: confirming},
		{name: "save and return", from: editing, event: SaveTemplate{}, want: choosing},
		{name: "save and schedule", from: editing, event: SaveAndSchedule{}, want: confirming},
		{name: "cancel edit", from: editing, event: Cancel{}, want: choosing},
		{name: "confirm", from: confirming, event: Confirm{}, want: Idle{}},
		{name: "cancel confirmation", from: confirming, event: Cancel{}, want: choosing},
		{name: "cancel choosing", from: choosing, event: Cancel{}, want: Idle{}},
		{name: "confirm without template", from: choosing, event: Confirm{}, want: choosing, wantErr: true},
		{name: "save outside editing", from: choosing, event: SaveTemplate{}, want: choosing, wantErr: true},
		{name: "cancel idle", from: Idle{}, event: Cancel{}, want: Idle{}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Next(at(tt.from), tt.event, g)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if !reflect.DeepEqual(got.Scheduling, tt.want) {
				t.Fatalf("expected %#v, got %#v", tt.want, got.Scheduling)
			}
		})
	}
}

func TestLeavingSchedulingResetsDialog(t *testing.T) {
	from := State{Step: StepScheduling, Scheduling: EditingTemplate{CandidateID: 1, Purpose: templates.Reminder}}

	got, err := Next(from, Navigate{To: StepAnalysis}, Guards{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Step != StepAnalysis || got.Scheduling != (Idle{}) {
		t.Fatalf("unexpected state: %+v", got)
	}
	if _, _, ok := got.Target(); ok {
		t.Fatalf("expected no scheduling target")
	}
}
