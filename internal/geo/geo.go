// Package geo resolves client IPs to coarse locations via a local
// MaxMind database. The lookup is optional end to end: a nil Lookup
// simply records clicks without location.
package geo

import (
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/marelvy/linkpulse/internal/model"
)

// Lookup resolves an IP to a location, or nil when unresolvable.
type Lookup func(ip string) *model.Location

// MaxMind wraps a GeoIP2/GeoLite2 city database file.
type MaxMind struct {
	db *geoip2.Reader
}

func OpenMaxMind(path string) (*MaxMind, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &MaxMind{db: db}, nil
}

// Lookup never fails: a private, malformed or unknown IP yields nil.
func (m *MaxMind) Lookup(ip string) *model.Location {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil
	}

	rec, err := m.db.City(parsed)
	if err != nil || rec.Country.IsoCode == "" {
		return nil
	}

	return &model.Location{
		Country:   rec.Country.IsoCode,
		City:      rec.City.Names["en"],
		Timezone:  rec.Location.TimeZone,
		Latitude:  rec.Location.Latitude,
		Longitude: rec.Location.Longitude,
	}
}

func (m *MaxMind) Close() error {
	return m.db.Close()
}
