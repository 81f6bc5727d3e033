package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/dimitrije/hackteam-api/internal/config"
	"github.com/dimitrije/hackteam-api/internal/middleware"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/internal/oauth"
	"github.com/dimitrije/hackteam-api/internal/services"
	"github.com/dimitrije/hackteam-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

const (
	stateTTL       = 10 * time.Minute
	signInCodeTTL  = 30 * time.Second
	googleTimeout  = 30 * time.Second
	errNoGoogle    = "google sign-in is not configured"
	errNoSignInKey = "invalid or expired code"
)

// AuthHandler runs the Google sign-in flow and the session endpoints.
// A participant signs in, is sent to the registration page with a one-time
// code and their registration stage, and trades the code for a session.
type AuthHandler struct {
	cfg      *config.Config
	google   GoogleSignInInterface
	users    UserServiceInterface
	profiles ProfileServiceInterface
	tokens   TokenServiceInterface
	jwt      JWTServiceInterface
	log      logrus.FieldLogger

	states *oauth.Tickets[struct{}]
	logins *oauth.Tickets[uuid.UUID]
}

// NewAuthHandler builds the handler. google may be nil when no client id is
// configured; the sign-in endpoints then answer 503.
func NewAuthHandler(
	cfg *config.Config,
	google GoogleSignInInterface,
	users UserServiceInterface,
	profiles ProfileServiceInterface,
	tokens TokenServiceInterface,
	jwt JWTServiceInterface,
	log logrus.FieldLogger,
) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		google:   google,
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		jwt:      jwt,
		log:      log,
		states:   oauth.NewTickets[struct{}](stateTTL),
		logins:   oauth.NewTickets[uuid.UUID](signInCodeTTL),
	}
}

// Sweep drops expired states and sign-in codes.
func (h *AuthHandler) Sweep() int {
	return h.states.Sweep() + h.logins.Sweep()
}

func (h *AuthHandler) Consent(c *drift.Context) {
	if h.google == nil {
		_ = c.JSON(503, map[string]string{"error": errNoGoogle})
		return
	}

	state, err := h.states.Issue(struct{}{})
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	_ = c.JSON(200, dto.ConsentURLResponse{URL: h.google.AuthCodeURL(state)})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	if h.google == nil {
		h.renderSignInFailed(c, errNoGoogle)
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.renderSignInFailed(c, "missing state parameter")
		return
	}
	if _, ok := h.states.Redeem(state); !ok {
		h.renderSignInFailed(c, "invalid or expired state")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.renderSignInFailed(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), googleTimeout)
	defer cancel()

	identity, err := h.google.Identify(ctx, code)
	switch {
	case errors.Is(err, oauth.ErrEmailNotVerified):
		h.renderSignInFailed(c, "your Google email address is not verified")
		return
	case err != nil:
		h.log.WithError(err).Warn("google sign-in failed")
		h.renderSignInFailed(c, "failed to exchange code")
		return
	}

	user, err := h.users.FindOrCreateFromGoogle(ctx, identity)
	if err != nil {
		h.log.WithError(err).WithField("email", identity.Email).Error("failed to sign in user")
		h.renderSignInFailed(c, "failed to create user")
		return
	}

	status, _, err := registrationStatus(ctx, h.profiles, user)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to load registration status")
		h.renderSignInFailed(c, "failed to load your registration")
		return
	}

	signInCode, err := h.logins.Issue(user.ID)
	if err != nil {
		h.renderSignInFailed(c, "failed to generate sign-in code")
		return
	}

	h.log.WithFields(logrus.Fields{"user_id": user.ID, "stage": status.Stage}).Info("user signed in")
	h.renderSignedIn(c, signInCode, status.Stage)
}

// Exchange trades a sign-in code for a session and reports where the
// participant is in registration.
func (h *AuthHandler) Exchange(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, ok := h.logins.Redeem(req.Code)
	if !ok {
		c.Unauthorized(errNoSignInKey)
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	status, _, err := registrationStatus(ctx, h.profiles, user)
	if err != nil {
		respondError(c, h.log, err, "failed to load registration status")
		return
	}

	pair, ok := h.issueSession(c, user)
	if !ok {
		return
	}

	_ = c.JSON(200, dto.SessionResponse{
		TokenResponse: pair,
		User:          toUserResponse(user),
		Registration:  status,
	})
}

func (h *AuthHandler) issueSession(c *drift.Context, user *models.User) (dto.TokenResponse, bool) {
	pair, err := h.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return dto.TokenResponse{}, false
	}

	expiresAt := time.Now().Add(h.jwt.RefreshExpiry())
	if err := h.tokens.StoreRefreshToken(c.Request.Context(), user.ID, services.HashToken(pair.RefreshToken), expiresAt); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to store refresh token")
		c.InternalServerError("failed to store refresh token")
		return dto.TokenResponse{}, false
	}

	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, true
}

func (h *AuthHandler) Refresh(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := h.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	pair, err := h.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return
	}

	expiresAt := time.Now().Add(h.jwt.RefreshExpiry())
	err = h.tokens.RotateRefreshToken(ctx, user.ID, services.HashToken(req.RefreshToken), services.HashToken(pair.RefreshToken), expiresAt)
	if errors.Is(err, services.ErrRefreshTokenInvalid) {
		c.Unauthorized("refresh token not found or expired")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to rotate refresh token")
		c.InternalServerError("failed to store refresh token")
		return
	}

	_ = c.JSON(200, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Logout revokes one refresh token. Unknown tokens are not an error.
func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		if err := h.tokens.RevokeRefreshToken(c.Request.Context(), services.HashToken(req.RefreshToken)); err != nil {
			h.log.WithError(err).Warn("failed to revoke refresh token")
		}
	}

	_ = c.JSON(200, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.tokens.RevokeAllUserTokens(c.Request.Context(), userID); err != nil {
		c.InternalServerError("failed to revoke tokens")
		return
	}

	h.log.WithField("user_id", userID).Info("all sessions revoked")
	_ = c.JSON(200, map[string]string{"message": "all sessions logged out"})
}
