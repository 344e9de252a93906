// Package agent classifies raw User-Agent strings into the OS and
// device type recorded on click events.
package agent

import ua "github.com/mileusna/useragent"

// Parsed is the classification of one User-Agent string.
type Parsed struct {
	OS     string
	Device string
}

// Parser turns a raw User-Agent header into a Parsed classification.
// Injected into the click recorder so analytics stay testable with
// synthetic events.
type Parser func(userAgent string) Parsed

// Parse is the default Parser. Device falls back to "desktop" when the
// string gives no signal, OS to "unknown".
func Parse(userAgent string) Parsed {
	parsed := ua.Parse(userAgent)

	device := "desktop"
	switch {
	case parsed.Mobile:
		device = "mobile"
	case parsed.Tablet:
		device = "tablet"
	case parsed.Bot:
		device = "bot"
	}

	os := parsed.OS
	if os == "" {
		os = "unknown"
	}

	return Parsed{OS: os, Device: device}
}
