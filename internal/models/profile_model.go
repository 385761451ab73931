package models

// UserProfile is the application-level record for an authenticated user,
// stored in the `users` collection with the Firebase Auth UID as the
// document ID. Exactly one profile exists per identity; if the document is
// missing when an identity becomes active, the session layer synthesizes a
// default one (IsPremium=false) and persists it.
type UserProfile struct {
	UID       string `json:"uid" firestore:"-"` // Firebase Auth UID, equals the document ID
	Email     string `json:"email" firestore:"email"`
	IsPremium bool   `json:"isPremium" firestore:"isPremium"`
	PhotoURL  string `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
}
