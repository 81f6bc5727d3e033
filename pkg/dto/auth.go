package dto

type ConsentURLResponse struct {
	URL string `json:"url"`
}

type ExchangeCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Registration stages, in the order a participant goes through them.
const (
	StageBasicProfile    = "basic_profile"
	StageCategoryProfile = "category_profile"
	StageComplete        = "complete"
)

// RegistrationStatus tells the frontend which registration step to show next.
type RegistrationStatus struct {
	Stage             string            `json:"stage"`
	IsProfileComplete ProfileCompletion `json:"is_profile_complete"`
}

// SessionResponse is returned when a sign-in code is traded for tokens.
type SessionResponse struct {
	TokenResponse
	User         UserResponse       `json:"user"`
	Registration RegistrationStatus `json:"registration"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
