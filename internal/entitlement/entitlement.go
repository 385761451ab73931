// Package entitlement decides whether content is visible to a profile.
package entitlement

import "pestguide-backend-go/internal/models"

// IsLocked is the gating predicate applied identically to every
// content-detail view: paid content is locked unless the profile exists
// and is premium. Free content is never locked, including for an absent
// profile. Pure, no side effects, no I/O.
func IsLocked(isPaid bool, profile *models.UserProfile) bool {
	return isPaid && (profile == nil || !profile.IsPremium)
}
