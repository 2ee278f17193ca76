package iputil

import (
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/sirupsen/logrus"
)

const (
	InternalIP      = "Internal IP"
	UnknownLocation = "Unknown"
)

// Locator resolves a client IP to a human readable location.
type Locator interface {
	Locate(ip string) string
}

// IsInternal reports whether ip is loopback, private or link-local.
func IsInternal(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified()
}

// GeoIPLocator looks addresses up in a GeoLite2-City database.
type GeoIPLocator struct {
	reader *geoip2.Reader
}

// NewGeoIPLocator opens the database at path. An empty path yields a locator
// that only distinguishes internal addresses.
func NewGeoIPLocator(path string) (*GeoIPLocator, error) {
	if path == "" {
		return &GeoIPLocator{}, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &GeoIPLocator{reader: reader}, nil
}

func (l *GeoIPLocator) Locate(ip string) string {
	if IsInternal(ip) {
		return InternalIP
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil || l.reader == nil {
		return UnknownLocation
	}

	record, err := l.reader.City(parsed)
	if err != nil {
		logrus.WithError(err).WithField("ip", ip).Warn("GeoIP lookup failed")
		return UnknownLocation
	}
	region := ""
	if len(record.Subdivisions) > 0 {
		region = record.Subdivisions[0].Names["en"]
	}
	return formatLocation(record.Country.Names["en"], region, record.City.Names["en"])
}

func (l *GeoIPLocator) Close() error {
	if l.reader == nil {
		return nil
	}
	return l.reader.Close()
}

func formatLocation(country, region, city string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{country, region, city} {
		if p == "" || (len(parts) > 0 && parts[len(parts)-1] == p) {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return UnknownLocation
	}
	return strings.Join(parts, " ")
}
