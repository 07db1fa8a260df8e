package notifications

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

func isMobile(raw string) bool {
	return useragent.New(raw).Mobile()
}

// ParseUserAgent turns a raw User-Agent header into a short display name
// such as "Chrome on Mac OS X" for the device list.
func ParseUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	os := ua.OSInfo().Name
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}

	return fmt.Sprintf("%s on %s", browser, os)
}
