// Package oauth signs participants in with their Google account.
package oauth

// Provider is the value stored in users.provider for Google identities.
const Provider = "google"

// Identity is a verified Google account as reported by the userinfo endpoint.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}
