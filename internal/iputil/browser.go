package iputil

import (
	"strings"

	"github.com/mssola/useragent"
)

// Browser renders a user agent as "<name> <version>", e.g. "Chrome 120.0.0.0".
func Browser(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	name, version := useragent.New(userAgent).Browser()
	if version == "" {
		return name
	}
	return name + " " + version
}
