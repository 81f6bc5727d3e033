package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dimitrije/hackteam-api/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	// ErrEmailNotVerified is returned when Google reports an unverified address.
	ErrEmailNotVerified = errors.New("google account email is not verified")
	// ErrIncompleteIdentity is returned when the userinfo response lacks an id or email.
	ErrIncompleteIdentity = errors.New("google user info is missing id or email")
)

// Google exchanges authorization codes for verified identities.
type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogle(cfg config.OAuthConfig) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// AuthCodeURL is the consent page the participant is sent to. It always asks
// which account to use so shared lab machines do not sign in the wrong person.
func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Identify trades code for a token and reads the account behind it.
func (g *Google) Identify(ctx context.Context, code string) (*Identity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	account, err := g.fetchAccount(ctx, g.config.Client(ctx, token))
	if err != nil {
		return nil, err
	}

	if account.ID == "" || account.Email == "" {
		return nil, ErrIncompleteIdentity
	}
	if !account.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}

	email := strings.ToLower(strings.TrimSpace(account.Email))
	name := strings.TrimSpace(account.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	return &Identity{
		Subject: account.ID,
		Email:   email,
		Name:    name,
		Picture: account.Picture,
	}, nil
}

type googleAccount struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (g *Google) fetchAccount(ctx context.Context, client *http.Client) (*googleAccount, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user info request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var account googleAccount
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &account, nil
}
