package api

import "pestguide-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API. The
// client renders Error as a modal-style notification.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level, human-readable error message
	Details string `json:"details,omitempty"` // More specific details, if available
}

// AuthResponse is returned from login and signup: the provider tokens for
// subsequent authenticated requests plus the published profile.
type AuthResponse struct {
	IDToken      string             `json:"idToken"`
	RefreshToken string             `json:"refreshToken"`
	Profile      models.UserProfile `json:"profile"`
}

// GuideSummary is a list-view projection of a guide: no content body, plus
// the lock flag the client uses for its premium badge.
type GuideSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPaid      bool   `json:"isPaid"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Locked      bool   `json:"locked"`
}

// ChemicalSummary is the list-view projection of a chemical.
type ChemicalSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPaid      bool   `json:"isPaid"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Locked      bool   `json:"locked"`
}

// ServiceSummary is the list-view projection of a service offering.
type ServiceSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PriceRange  string `json:"priceRange,omitempty"`
}

// LockedContentResponse is the paywall payload for a locked detail view.
// The content body is withheld; UpgradePath is the call-to-action target.
type LockedContentResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	UpgradePath string `json:"upgradePath"`
}
