package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/logger"
	"github.com/spigell/recruiter/internal/recruiting"
	"github.com/spigell/recruiter/internal/roles"
	"github.com/spigell/recruiter/internal/scheduler"
	"github.com/spigell/recruiter/internal/templates"
	"github.com/spigell/recruiter/internal/workflow"
)

const (
	PromptExit              = "Exit"
	PromptBack              = "back"
	PromptProceed           = "Proceed"
	PromptGoTo              = "Go to step"
	PromptStatus            = "Show configuration status"
	PromptAnalyze           = "Analyze resume"
	PromptDecision          = "Preview and send decision email"
	PromptRecent            = "Recent candidates"
	PromptInterviews        = "Scheduled interviews"
	PromptChooseTemplate    = "Choose template"
	PromptEditEmail         = "Edit email"
	PromptScheduleAndSend   = "Schedule & send"
	PromptSaveTemplate      = "Save template"
	PromptConfirm           = "Confirm & schedule"
	PromptCancel            = "Cancel"
	PromptSend              = "Send"
	PromptReportByRoles     = "Report by roles"
	PromptReport            = "Print report"
	PromptCandidatesToFile  = "Dump candidates to file"
	scheduleCandidatePrefix = "Schedule interview: "
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive recruiting workflow",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// operator is the terminal driver over a workflow session.
type operator struct {
	session *workflow.Session
	logger  *zap.Logger
	seen    int
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the recruiter", zap.String("version", version))

	zone, err := scheduler.LoadZone(config.Interview.Timezone, config.Interview.TimezoneLabel)
	if err != nil {
		logger.Fatal("loading interview timezone", zap.Error(err))
	}

	settings, err := initialSettings(config)
	if err != nil {
		logger.Fatal("loading secrets", zap.Error(err))
	}

	op := &operator{
		session: workflow.NewSession(settings, serviceBuilder(config, zone, logger), workflow.WithLogger(logger), workflow.WithZone(zone)),
		logger:  logger,
	}

	for {
		if err := op.step(ctx); err != nil {
			if errors.Is(err, errExit) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("reason", "requested by operator"))
				return
			}
			// Session failures are already logged and shown as notifications.
			if apperr.KindOf(err) == "" {
				logger.Error("operator action failed", zap.Error(err))
			}
		}
		op.flushNotifications()
	}
}

func (o *operator) step(ctx context.Context) error {
	state := o.session.State()
	fmt.Printf("\n== Step %d/4: %s ==\n", state.Step, state.Step)

	switch state.Step {
	case workflow.StepConfiguration:
		return o.configuration(ctx)
	case workflow.StepAnalysis:
		return o.analysis(ctx)
	case workflow.StepScheduling:
		return o.scheduling(ctx)
	case workflow.StepDashboard:
		return o.dashboard(ctx)
	default:
		return fmt.Errorf("invalid step: %s", state.Step)
	}
}

func (o *operator) flushNotifications() {
	for _, n := range o.session.Notifications().Since(o.seen) {
		fmt.Printf("[%s] %s\n", strings.ToUpper(string(n.Level)), n.Message)
		o.seen = n.ID
	}
}

func choose(label string, items []string) (string, error) {
	p := promptui.Select{Label: label, Items: items, Size: 12}
	_, selected, err := p.Run()
	return selected, err
}

func ask(label, current string, mask bool) (string, error) {
	p := promptui.Prompt{Label: label, Default: current, AllowEdit: !mask}
	if mask {
		p.Mask = '*'
	}
	value, err := p.Run()
	if err != nil {
		return "", err
	}
	if mask && value == "" {
		return current, nil
	}
	return strings.TrimSpace(value), nil
}

// navigation handles the items every step menu shares.
func (o *operator) navigation(ctx context.Context, action string) error {
	switch action {
	case PromptExit:
		return errExit
	case PromptProceed:
		return o.session.Proceed(ctx)
	case PromptGoTo:
		items := make([]string, 0, len(workflow.Steps())+1)
		for _, s := range workflow.Steps() {
			items = append(items, fmt.Sprintf("%d %s", s, s))
		}
		selected, err := choose("Go to step", append(items, PromptBack))
		if err != nil || selected == PromptBack {
			return err
		}
		n, err := strconv.Atoi(strings.Fields(selected)[0])
		if err != nil {
			return err
		}
		return o.session.Navigate(ctx, workflow.Step(n))
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

type settingField struct {
	label  string
	secret bool
	get    func(*workflow.Settings) *string
}

var settingFields = []settingField{
	{label: workflow.FieldModelKey, secret: true, get: func(s *workflow.Settings) *string { return &s.ModelKey }},
	{label: workflow.FieldMailSender, get: func(s *workflow.Settings) *string { return &s.MailSender }},
	{label: workflow.FieldMailPassword, secret: true, get: func(s *workflow.Settings) *string { return &s.MailPassword }},
	{label: workflow.FieldCompanyName, get: func(s *workflow.Settings) *string { return &s.CompanyName }},
	{label: "Zoom Account ID", get: func(s *workflow.Settings) *string { return &s.ZoomAccountID }},
	{label: "Zoom Client ID", get: func(s *workflow.Settings) *string { return &s.ZoomClientID }},
	{label: "Zoom Client Secret", secret: true, get: func(s *workflow.Settings) *string { return &s.ZoomClientSecret }},
}

func (o *operator) configuration(ctx context.Context) error {
	items := make([]string, 0, len(settingFields)+4)
	for _, f := range settingFields {
		items = append(items, "Edit "+f.label)
	}
	items = append(items, PromptStatus, PromptProceed, PromptGoTo, PromptExit)

	action, err := choose("Configuration", items)
	if err != nil {
		return err
	}

	for _, f := range settingFields {
		if action != "Edit "+f.label {
			continue
		}
		settings := o.session.Settings()
		value, err := ask(f.label, *f.get(&settings), f.secret)
		if err != nil {
			return err
		}
		*f.get(&settings) = value
		o.session.UpdateSettings(settings)
		return nil
	}

	if action == PromptStatus {
		settings := o.session.Settings()
		missing := settings.Missing()
		for _, f := range settingFields[:4] {
			mark := "ok"
			for _, m := range missing {
				if m == f.label {
					mark = "required"
				}
			}
			fmt.Printf("  %-20s %s\n", f.label, mark)
		}
		for _, m := range settings.Videoconf().Missing() {
			fmt.Printf("  %-20s optional (needed for interview scheduling)\n", m)
		}
		return nil
	}

	return o.navigation(ctx, action)
}

func (o *operator) analysis(ctx context.Context) error {
	action, err := choose("Candidate analysis", []string{PromptAnalyze, PromptDecision, PromptRecent, PromptProceed, PromptGoTo, PromptExit})
	if err != nil {
		return err
	}

	switch action {
	case PromptAnalyze:
		return o.analyze(ctx)
	case PromptDecision:
		id, err := o.pickCandidate(o.session.Candidates().Items)
		if err != nil || id == 0 {
			return err
		}
		return o.decision(ctx, id)
	case PromptRecent:
		for _, c := range o.session.Candidates().Recent(3) {
			printCandidate(c)
		}
		return nil
	default:
		return o.navigation(ctx, action)
	}
}

func (o *operator) analyze(ctx context.Context) error {
	roleItems := make([]string, 0, len(roles.All()))
	for _, r := range roles.All() {
		roleItems = append(roleItems, string(r))
	}
	selectedRole, err := choose("Role", roleItems)
	if err != nil {
		return err
	}
	role, err := roles.Parse(selectedRole)
	if err != nil {
		return err
	}

	name, err := ask("Candidate name", "", false)
	if err != nil {
		return err
	}
	email, err := ask("Candidate email", "", false)
	if err != nil {
		return err
	}
	path, err := ask("Resume PDF path", "", false)
	if err != nil {
		return err
	}

	var text string
	if path != "" {
		if text, err = o.session.ReadResume(ctx, path); err != nil {
			return err
		}
	}

	c, err := o.session.Analyze(ctx, workflow.AnalysisInput{Name: name, Email: email, Role: role, ResumeText: text})
	if c != nil {
		printCandidate(c)
	}
	if err != nil {
		return err
	}
	return o.decision(ctx, c.ID)
}

func (o *operator) decision(ctx context.Context, candidateID int) error {
	draft, err := o.session.PreviewDecision(ctx, candidateID)
	if err != nil {
		return err
	}
	fmt.Printf("\nTo: %s\nSubject: %s\n\n%s\n\n", draft.To, draft.Subject, draft.Body)
	if draft.FallbackRecipient {
		fmt.Println("Warning: no candidate address was found, the email is addressed to the sender.")
	}

	action, err := choose("Send this email?", []string{PromptSend, PromptBack})
	if err != nil || action == PromptBack {
		return err
	}
	return o.session.SendDraft(ctx, draft)
}

func (o *operator) pickCandidate(candidates []*recruiting.Candidate) (int, error) {
	if len(candidates) == 0 {
		fmt.Println("No candidates yet.")
		return 0, nil
	}
	items := make([]string, 0, len(candidates)+1)
	for _, c := range candidates {
		items = append(items, candidateLabel(c))
	}
	selected, err := choose("Choose a candidate and press ENTER", append(items, PromptBack))
	if err != nil || selected == PromptBack {
		return 0, err
	}
	return strconv.Atoi(strings.Fields(selected)[0])
}

func candidateLabel(c *recruiting.Candidate) string {
	return fmt.Sprintf("%d %s <%s> / %s / %s", c.ID, c.Name, c.Email, roles.Title(c.Role), c.Status)
}

func printCandidate(c *recruiting.Candidate) {
	fmt.Printf("\n%s\n  Score: %d/100 (illustrative)\n  Date: %s\n  Feedback: %s\n",
		candidateLabel(c), c.Score, c.AnalyzedAt.Format("2006-01-02"), c.Feedback)
}

func (o *operator) scheduling(ctx context.Context) error {
	switch sub := o.session.State().Scheduling.(type) {
	case workflow.ChoosingTemplate:
		return o.chooseTemplate()
	case workflow.EditingTemplate:
		return o.editTemplate(sub.Purpose)
	case workflow.ConfirmingSchedule:
		return o.confirm(ctx, sub)
	}

	selected := o.session.SelectedCandidates()
	if len(selected) == 0 {
		fmt.Println("No selected candidates found. Please analyze candidates first.")
	}

	items := make([]string, 0, len(selected)+4)
	for _, c := range selected {
		items = append(items, scheduleCandidatePrefix+candidateLabel(c))
	}
	items = append(items, PromptInterviews, PromptProceed, PromptGoTo, PromptExit)

	action, err := choose("Interview scheduling", items)
	if err != nil {
		return err
	}

	switch {
	case strings.HasPrefix(action, scheduleCandidatePrefix):
		id, err := strconv.Atoi(strings.Fields(strings.TrimPrefix(action, scheduleCandidatePrefix))[0])
		if err != nil {
			return err
		}
		return o.session.BeginScheduling(id)
	case action == PromptInterviews:
		for _, r := range o.session.Interviews().Items {
			fmt.Printf("  %s <%s> %s at %s [%s]\n", r.CandidateName, r.CandidateEmail, roles.Title(r.Role), r.ScheduledAt.Format(time.RFC1123), r.Status)
		}
		return nil
	default:
		return o.navigation(ctx, action)
	}
}

func (o *operator) previewTemplate() {
	preview, err := o.session.PreviewTemplate(time.Now())
	if err != nil {
		o.logger.Warn("rendering template preview", zap.Error(err))
		return
	}
	fmt.Printf("\nSubject: %s\n\n%s\n\nMeeting link: %s\n\n", preview.Subject, preview.Body, workflow.PreviewMeetingLink)
}

func (o *operator) chooseTemplate() error {
	o.previewTemplate()

	action, err := choose("Email template", []string{PromptChooseTemplate, PromptEditEmail, PromptScheduleAndSend, PromptCancel})
	if err != nil {
		return err
	}

	switch action {
	case PromptChooseTemplate:
		items := make([]string, 0, len(templates.Purposes()))
		for _, p := range templates.Purposes() {
			items = append(items, string(p))
		}
		selected, err := choose("Choose email template", items)
		if err != nil {
			return err
		}
		return o.session.ChooseTemplate(templates.Purpose(selected))
	case PromptEditEmail:
		return o.session.EditTemplate()
	case PromptScheduleAndSend:
		return o.session.AcceptTemplate()
	default:
		return o.session.Cancel()
	}
}

func (o *operator) editTemplate(purpose templates.Purpose) error {
	current, err := o.session.Templates().Get(purpose)
	if err != nil {
		return err
	}

	fmt.Printf("\nEditing %s. Placeholders: {candidate_name} {company_name} {role} {interview_date} {interview_time} {zoom_link}\n", purpose.Title())
	subject, err := ask("Subject", current.Subject, false)
	if err != nil {
		return err
	}
	body, err := ask(`Body (use \n for new lines)`, strings.ReplaceAll(current.Body, "\n", `\n`), false)
	if err != nil {
		return err
	}
	body = strings.ReplaceAll(body, `\n`, "\n")

	action, err := choose("Edited template", []string{PromptSaveTemplate, PromptScheduleAndSend, PromptCancel})
	if err != nil {
		return err
	}

	switch action {
	case PromptSaveTemplate:
		return o.session.SaveTemplate(subject, body)
	case PromptScheduleAndSend:
		return o.session.SaveAndSchedule(subject, body)
	default:
		return o.session.Cancel()
	}
}

func (o *operator) confirm(ctx context.Context, sub workflow.ConfirmingSchedule) error {
	c := o.session.Candidates().FindByID(sub.CandidateID)
	if c != nil {
		fmt.Printf("\nCandidate: %s\nEmail: %s\nRole: %s\nTemplate: %s\n\n", c.Name, c.Email, roles.Title(c.Role), sub.Purpose.Title())
	}

	action, err := choose("Confirm interview scheduling", []string{PromptConfirm, PromptCancel})
	if err != nil {
		return err
	}
	if action == PromptCancel {
		return o.session.Cancel()
	}

	record, err := o.session.Confirm(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Interview for %s at %s\n%s\n", record.CandidateName, record.ScheduledAt.Format(time.RFC1123), record.MeetingDetails)
	return nil
}

func (o *operator) dashboard(ctx context.Context) error {
	d := o.session.Dashboard()
	fmt.Printf("Total candidates: %d  Selected: %d  Rejected: %d  Scheduled interviews: %d  Success rate: %.1f%%\n",
		d.TotalCandidates, d.Selected, d.Rejected, d.Interviews, d.SuccessRate)
	for _, r := range roles.All() {
		if n := d.ByRole[r]; n > 0 {
			fmt.Printf("  %s: %d\n", roles.Title(r), n)
		}
	}

	action, err := choose("Dashboard", []string{PromptReport, PromptReportByRoles, PromptCandidatesToFile, PromptGoTo, PromptExit})
	if err != nil {
		return err
	}

	switch action {
	case PromptReport:
		fmt.Println(d.Report())
		return nil
	case PromptReportByRoles:
		pretty, _ := json.MarshalIndent(o.session.Candidates().ReportByRole(), "", "  ")
		o.logger.Info(string(pretty), zap.Int("candidates count", o.session.Candidates().Len()))
		return nil
	case PromptCandidatesToFile:
		filename, err := o.session.Candidates().DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump candidates to file: %w", err)
		}
		o.logger.Info("dumping candidates to file", zap.String("filename", filename))
		return nil
	default:
		return o.navigation(ctx, action)
	}
}
