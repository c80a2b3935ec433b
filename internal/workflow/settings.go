package workflow

import (
	"strings"

	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/videoconf"
)

// Settings are the operator-supplied credentials and identities.
type Settings struct {
	ModelKey     string
	MailSender   string
	MailPassword string
	CompanyName  string

	ZoomAccountID    string
	ZoomClientID     string
	ZoomClientSecret string
}

const (
	FieldModelKey     = "Model API Key"
	FieldMailSender   = "Email Sender"
	FieldMailPassword = "Email Password"
	FieldCompanyName  = "Company Name"
)

// Missing returns the names of empty mandatory fields in a fixed order.
func (s Settings) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{FieldModelKey, s.ModelKey},
		{FieldMailSender, s.MailSender},
		{FieldMailPassword, s.MailPassword},
		{FieldCompanyName, s.CompanyName},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Videoconf returns the optional videoconference account credentials.
func (s Settings) Videoconf() videoconf.Credentials {
	return videoconf.Credentials{
		AccountID:    s.ZoomAccountID,
		ClientID:     s.ZoomClientID,
		ClientSecret: s.ZoomClientSecret,
	}
}

// VideoconfReady reports whether the videoconference account is set. It only
// gates confirming an interview, not entering the scheduling step.
func (s Settings) VideoconfReady() bool {
	return len(s.Videoconf().Missing()) == 0
}

// Validate returns a ConfigurationIncomplete error naming the missing fields.
func (s Settings) Validate() error {
	missing := s.Missing()
	if len(missing) == 0 {
		return nil
	}
	return apperr.New(apperr.KindConfigurationIncomplete, "configuration",
		"please configure the following", nil).WithFields(missing...)
}
