package models

// Guide is a pest-control how-to article from the `guides` collection.
// Content is markdown or HTML rendered by the client. Paid guides are
// gated on the reader's premium entitlement.
type Guide struct {
	ID          string `json:"id" firestore:"-"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
	Content     string `json:"content" firestore:"content"`
	IsPaid      bool   `json:"isPaid" firestore:"isPaid"`
	ImageURL    string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
}

// Chemical is a pesticide reference sheet from the `chemicals` collection.
// Same gating rules as guides.
type Chemical struct {
	ID          string `json:"id" firestore:"-"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
	Content     string `json:"content" firestore:"content"`
	IsPaid      bool   `json:"isPaid" firestore:"isPaid"`
	ImageURL    string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
}

// Service is a company service offering from the `services` collection.
// Services are informational only and never gated.
type Service struct {
	ID          string `json:"id" firestore:"-"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
	Content     string `json:"content" firestore:"content"`
	ImageURL    string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	PriceRange  string `json:"priceRange,omitempty" firestore:"priceRange,omitempty"`
}
