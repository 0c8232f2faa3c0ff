package utils

import "strings"

// SanitizeHeaderFilename reduces an uploader-supplied original name to
// something safe inside a Content-Disposition header. Path components are
// dropped so a stored name like "../x" cannot suggest a location to the
// client.
func SanitizeHeaderFilename(name string) string {
	clean := strings.TrimSpace(name)
	if idx := strings.LastIndexAny(clean, `/\`); idx >= 0 {
		clean = clean[idx+1:]
	}
	for _, ch := range []string{"\r", "\n", "\""} {
		clean = strings.ReplaceAll(clean, ch, "")
	}
	if clean == "" {
		return "download"
	}
	return clean
}
