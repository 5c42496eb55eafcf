package auth

import (
	"github.com/yukikurage/earn-your-wings-api/internal/models"
)

// Allows reports whether the caller's role satisfies the required set.
// Admin satisfies every requirement; an empty requirement means any
// authenticated caller is acceptable.
func Allows(caller models.Role, required ...models.Role) bool {
	if len(required) == 0 {
		return true
	}
	if caller == models.RoleAdmin {
		return true
	}
	for _, r := range required {
		if caller == r {
			return true
		}
	}
	return false
}
