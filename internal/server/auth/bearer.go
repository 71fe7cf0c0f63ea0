package auth

import "strings"

const bearerPrefix = "Bearer "

// ExtractBearer returns the token from an "Authorization: Bearer <token>"
// header, or "" when the header is missing or uses any other scheme. Callers
// treat "" as unauthenticated.
func ExtractBearer(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}
