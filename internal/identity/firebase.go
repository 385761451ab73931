package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// identityToolkitBaseURL is the Firebase Identity Toolkit REST endpoint.
// Password sign-in is a client-SDK concern that the Admin SDK deliberately
// omits, so credential verification goes through the REST API with the
// project's Web API key.
const identityToolkitBaseURL = "https://identitytoolkit.googleapis.com/v1"

// adminAuthClient is the slice of the Firebase Admin auth client the
// provider needs. *auth.Client satisfies it.
type adminAuthClient interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
}

// FirebaseProvider implements Provider against Firebase Authentication:
// Identity Toolkit REST for the credential flows, the Admin SDK for
// password updates and refresh-token revocation on sign-out.
type FirebaseProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	admin      adminAuthClient
	logger     *zap.Logger
	hub        hub
}

// NewFirebaseProvider creates a FirebaseProvider. timeout bounds each REST
// round-trip.
func NewFirebaseProvider(apiKey string, admin *fbauth.Client, timeout time.Duration, logger *zap.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		apiKey:     apiKey,
		baseURL:    identityToolkitBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		admin:      admin,
		logger:     logger,
	}
}

type credentialRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type toolkitErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn verifies the credentials and publishes the resulting identity to
// all identity-change observers.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	ident, err := p.credentialCall(ctx, "accounts:signInWithPassword", email, password)
	if err != nil {
		return nil, err
	}
	p.hub.publish(ident)
	return ident, nil
}

// SignUp creates the account and publishes the resulting identity to all
// identity-change observers.
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	ident, err := p.credentialCall(ctx, "accounts:signUp", email, password)
	if err != nil {
		return nil, err
	}
	p.hub.publish(ident)
	return ident, nil
}

// SignOut revokes the user's refresh tokens and publishes a nil identity.
// A revocation failure is returned without a notification: the session
// layer decides whether to clear its local state anyway.
func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	if err := p.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for uid '%s': %w", uid, err)
	}
	p.hub.publish(nil)
	return nil
}

// UpdatePassword sets a new password via the Admin SDK. The caller is
// responsible for re-verifying the current password first.
func (p *FirebaseProvider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	update := (&fbauth.UserToUpdate{}).Password(newPassword)
	if _, err := p.admin.UpdateUser(ctx, uid, update); err != nil {
		if strings.Contains(err.Error(), "PASSWORD") {
			return ErrWeakPassword
		}
		return fmt.Errorf("failed to update password for uid '%s': %w", uid, err)
	}
	return nil
}

// OnIdentityChange registers fn for identity-change notifications.
func (p *FirebaseProvider) OnIdentityChange(fn func(*Identity)) func() {
	return p.hub.subscribe(fn)
}

func (p *FirebaseProvider) credentialCall(ctx context.Context, endpoint, email, password string) (*Identity, error) {
	body, err := json.Marshal(credentialRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.baseURL, endpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, p.mapToolkitError(endpoint, resp.StatusCode, respBody)
	}

	var cred credentialResponse
	if err := json.Unmarshal(respBody, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	return &Identity{
		UID:          cred.LocalID,
		Email:        cred.Email,
		IDToken:      cred.IDToken,
		RefreshToken: cred.RefreshToken,
	}, nil
}

// mapToolkitError translates Identity Toolkit error codes into the
// package sentinels the UI layer maps to user-facing messages.
func (p *FirebaseProvider) mapToolkitError(endpoint string, status int, body []byte) error {
	var toolkitErr toolkitErrorResponse
	if err := json.Unmarshal(body, &toolkitErr); err != nil {
		return fmt.Errorf("%s failed with status %d", endpoint, status)
	}

	code := toolkitErr.Error.Message
	switch {
	case code == "EMAIL_EXISTS":
		return ErrEmailInUse
	case code == "INVALID_EMAIL" || code == "MISSING_EMAIL":
		return ErrInvalidEmail
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return ErrWeakPassword
	case code == "INVALID_LOGIN_CREDENTIALS" || code == "EMAIL_NOT_FOUND" ||
		code == "INVALID_PASSWORD" || code == "USER_DISABLED":
		return ErrInvalidCredentials
	default:
		p.logger.Warn("Unrecognized Identity Toolkit error code",
			zap.String("endpoint", endpoint), zap.String("code", code), zap.Int("status", status))
		return fmt.Errorf("%s failed: %s", endpoint, code)
	}
}
