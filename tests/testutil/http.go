package testutil

import (
	"html"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/dimitrije/hackteam-api/internal/services"
	"github.com/google/uuid"
)

const jwtSecret = "hackteam-test-secret"

// TestJWTService signs tokens the way the API does, with a fixed test secret.
func TestJWTService() *services.JWTService {
	return services.NewJWTService(jwtSecret, 15*time.Minute, 24*time.Hour)
}

// GenerateTestToken returns an access token for a signed-in participant.
func GenerateTestToken(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	pair, err := TestJWTService().GenerateTokenPair(userID, email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return pair.AccessToken
}

var continueLink = regexp.MustCompile(`<a href="([^"]+)">Continue</a>`)

// CallbackRedirect pulls the registration page URL out of a rendered sign-in
// callback page and returns its query, which holds either code and stage or
// error.
func CallbackRedirect(t *testing.T, page string) url.Values {
	t.Helper()
	m := continueLink.FindStringSubmatch(page)
	if m == nil {
		t.Fatalf("no continue link in callback page:\n%s", page)
	}
	u, err := url.Parse(html.UnescapeString(m[1]))
	if err != nil {
		t.Fatalf("bad continue link %q: %v", m[1], err)
	}
	return u.Query()
}
