package stringutil

const (
	ShortenLogLength = 16
	ellipsis         = ".."
)

// Shorten keeps head leading and tail trailing characters of s. Strings
// that would not get shorter are returned unchanged.
func Shorten(s string, head, tail int) string {
	if head < 0 || tail < 0 || len(s) <= head+tail+len(ellipsis) {
		return s
	}
	return s[:head] + ellipsis + s[len(s)-tail:]
}

// ShortenLog shortens signatures and batch ids for log lines.
func ShortenLog(id string) string {
	return Shorten(id, ShortenLogLength/2, ShortenLogLength/2)
}
