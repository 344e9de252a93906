package model

import "time"

// Alias maps a short alias to its destination URL and accumulates click
// analytics. ClickCount always equals the number of stored click events
// for the alias; the repository enforces this with an atomic
// increment-and-append update.
type Alias struct {
	Alias      string    `json:"alias"`       // unique short identifier
	LongURL    string    `json:"long_url"`    // destination URL
	OwnerID    string    `json:"owner_id"`    // owning user
	Topic      string    `json:"topic,omitempty"`
	ClickCount int64     `json:"click_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClickEvent records a single redirect. Immutable once appended.
type ClickEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `json:"ip_address"`
	Location   *Location `json:"location,omitempty"` // nil when lookup unavailable
	OSType     string    `json:"os_type"`
	DeviceType string    `json:"device_type"` // "desktop" when undetected
}

// Location is a resolved geolocation for a client IP.
type Location struct {
	Country   string  `json:"country,omitempty"`
	City      string  `json:"city,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// CreateAliasRequest is the API request body for shortening a URL
type CreateAliasRequest struct {
	URL         string `json:"url"`
	CustomAlias string `json:"custom_alias,omitempty"`
	Topic       string `json:"topic,omitempty"`
}

// CreateAliasResponse is the API response for a shortened URL
type CreateAliasResponse struct {
	ShortURL  string    `json:"short_url"`
	CreatedAt time.Time `json:"created_at"`
}
