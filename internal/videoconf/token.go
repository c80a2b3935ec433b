package videoconf

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spigell/recruiter/internal/apperr"
)

const (
	DefaultTokenURL = "https://zoom.us/oauth/token"

	// Tokens are refreshed this long before the vendor-declared expiry.
	expiryMargin = 60 * time.Second
)

// Credentials identify a server-to-server videoconference application.
type Credentials struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Missing returns the names of empty credential fields.
func (c Credentials) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.AccountID) == "" {
		missing = append(missing, "Zoom Account ID")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "Zoom Client ID")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "Zoom Client Secret")
	}
	return missing
}

type accountTokenSource struct {
	ctx context.Context
	cfg *clientcredentials.Config
}

func (s *accountTokenSource) Token() (*oauth2.Token, error) {
	return s.cfg.Token(s.ctx)
}

// NewTokenSource returns a cached token source using the account credentials
// grant. The returned source is safe for concurrent use.
func NewTokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	if missing := creds.Missing(); len(missing) > 0 {
		return nil, apperr.New(apperr.KindConfigurationIncomplete, "videoconf", "videoconference credentials are incomplete", nil).
			WithFields(missing...)
	}

	tokenURL := strings.TrimSpace(creds.TokenURL)
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	cfg := &clientcredentials.Config{
		ClientID:     strings.TrimSpace(creds.ClientID),
		ClientSecret: strings.TrimSpace(creds.ClientSecret),
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		EndpointParams: url.Values{
			"grant_type": {"account_credentials"},
			"account_id": {strings.TrimSpace(creds.AccountID)},
		},
	}

	return oauth2.ReuseTokenSourceWithExpiry(nil, &accountTokenSource{ctx: ctx, cfg: cfg}, expiryMargin), nil
}
