package validator

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/marelvy/linkpulse/internal/errors"
)

// URLValidator validates URL and alias inputs at the HTTP boundary.
type URLValidator struct {
	maxLength       int
	allowedSchemes  []string
	blockedDomains  []string
	blockPrivateIPs bool
}

// NewURLValidator creates a validator with default settings
func NewURLValidator() *URLValidator {
	return &URLValidator{
		maxLength:       2048,
		allowedSchemes:  []string{"http", "https"},
		blockedDomains:  []string{},
		blockPrivateIPs: true,
	}
}

// ValidateURL validates a destination URL string
func (v *URLValidator) ValidateURL(rawURL string) *errors.AppError {
	if strings.TrimSpace(rawURL) == "" {
		return errors.MissingField("url")
	}

	if len(rawURL) > v.maxLength {
		return errors.InvalidURL("URL exceeds maximum length of 2048 characters")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return errors.InvalidURL("URL could not be parsed")
	}

	if !v.isAllowedScheme(parsedURL.Scheme) {
		return errors.InvalidURL("URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return errors.InvalidURL("URL must have a valid host")
	}

	if v.isBlockedDomain(parsedURL.Host) {
		return errors.InvalidURL("This domain is not allowed")
	}

	if v.blockPrivateIPs && v.isPrivateIP(parsedURL.Host) {
		return errors.InvalidURL("URLs pointing to private addresses are not allowed")
	}

	return nil
}

var validAlias = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateAlias validates an alias taken from the URL path
func (v *URLValidator) ValidateAlias(alias string) *errors.AppError {
	if alias == "" {
		return errors.MissingField("alias")
	}

	if len(alias) > 20 {
		return errors.BadRequest("Alias cannot exceed 20 characters")
	}

	if !validAlias.MatchString(alias) {
		return errors.BadRequest("Alias can only contain letters, numbers, hyphens, and underscores")
	}

	return nil
}

// ValidateCustomAlias validates a caller-chosen alias
func (v *URLValidator) ValidateCustomAlias(alias string) *errors.AppError {
	if alias == "" {
		return nil // Custom alias is optional
	}

	// Check reserved words
	reserved := []string{"api", "admin", "health", "shorten", "analytics", "static"}
	for _, r := range reserved {
		if strings.EqualFold(alias, r) {
			return errors.BadRequest("This alias is reserved and cannot be used")
		}
	}

	return v.ValidateAlias(alias)
}

// ============================================================
// HELPER METHODS
// ============================================================

func (v *URLValidator) isAllowedScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

func (v *URLValidator) isBlockedDomain(host string) bool {
	host = strings.ToLower(host)
	for _, blocked := range v.blockedDomains {
		if strings.Contains(host, blocked) {
			return true
		}
	}
	return false
}

func (v *URLValidator) isPrivateIP(host string) bool {
	// Remove port if present
	hostOnly := host
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		hostOnly = host[:idx]
	}

	// Check for localhost variants
	localPatterns := []string{
		"localhost",
		"127.",
		"0.0.0.0",
		"::1",
		"10.",
		"192.168.",
		"172.16.", "172.17.", "172.18.", "172.19.",
		"172.20.", "172.21.", "172.22.", "172.23.",
		"172.24.", "172.25.", "172.26.", "172.27.",
		"172.28.", "172.29.", "172.30.", "172.31.",
	}

	for _, pattern := range localPatterns {
		if strings.HasPrefix(hostOnly, pattern) || hostOnly == pattern {
			return true
		}
	}

	return false
}

// ============================================================
// CONFIGURATION METHODS
// ============================================================

// WithMaxLength sets maximum URL length
func (v *URLValidator) WithMaxLength(length int) *URLValidator {
	v.maxLength = length
	return v
}

// WithBlockedDomains adds domains to block list
func (v *URLValidator) WithBlockedDomains(domains ...string) *URLValidator {
	v.blockedDomains = append(v.blockedDomains, domains...)
	return v
}

// WithAllowPrivateIPs allows private IP addresses
func (v *URLValidator) WithAllowPrivateIPs() *URLValidator {
	v.blockPrivateIPs = false
	return v
}
