package utils

// MaskToken hides all but the last four characters of a credential so it
// can appear in logs.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return "***"
	}
	return "***" + token[len(token)-4:]
}
