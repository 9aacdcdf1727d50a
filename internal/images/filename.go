package images

import (
	"fmt"
	"regexp"
	"time"
)

var (
	disallowed  = regexp.MustCompile(`[^a-zA-Z0-9.]`)
	underscores = regexp.MustCompile(`__+`)
)

// SanitizeFilename replaces every character outside [a-zA-Z0-9.] with an
// underscore and collapses runs of underscores.
func SanitizeFilename(name string) string {
	sanitized := disallowed.ReplaceAllString(name, "_")
	return underscores.ReplaceAllString(sanitized, "_")
}

// StampFilename prefixes a sanitized name with the creation timestamp in
// unix milliseconds so repeated uploads of the same file never collide.
func StampFilename(name string, now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeFilename(name))
}
