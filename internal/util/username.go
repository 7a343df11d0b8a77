package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenUsername returns a random unique handle. Users can pick a real
// one later through the profile update endpoint.
func GenUsername() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return "user-" + suffix
}
