package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// UnknownClient is the guest key used when no address can be determined.
// All such clients share one ticket bucket.
const UnknownClient = "unknown"

// ResolveGuestKey picks the client address: the first X-Forwarded-For hop,
// then the remote address.
func ResolveGuestKey(forwarded, remote string) string {
	if forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if remote = strings.TrimSpace(remote); remote != "" {
		return remote
	}
	return UnknownClient
}

// ClientIP resolves the guest key of the request.
func ClientIP(c fiber.Ctx) string {
	return ResolveGuestKey(c.Get(fiber.HeaderXForwardedFor), c.IP())
}
