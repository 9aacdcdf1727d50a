// Package geocode recovers latitude/longitude pairs from map-share URLs.
// Extraction is best effort: a URL with no recognizable pattern yields nil
// coordinates rather than an error, and the event is simply stored without a
// map marker.
package geocode

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/campuspulse/campus-events-api/internal/models"
)

var (
	atCoords   = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
	pairCoords = regexp.MustCompile(`(-?\d+\.\d+),(-?\d+\.\d+)`)
)

// ExtractCoordinates parses a Google Maps share URL. Two shapes are
// recognized: shortened maps.app.goo.gl links carrying an "@lat,lon"
// fragment, and full google.com/maps URLs with coordinates either after "@"
// in the path or inside a "q=lat,lon" query parameter. Any other input
// returns (nil, nil).
func ExtractCoordinates(rawURL string) (*models.Coordinates, error) {
	if rawURL == "" {
		return nil, nil
	}

	if strings.Contains(rawURL, "maps.app.goo.gl") {
		if _, after, found := strings.Cut(rawURL, "@"); found {
			if c := parsePair(after); c != nil {
				return c, nil
			}
		}
		return nil, nil
	}

	if strings.Contains(rawURL, "google.com/maps") {
		if m := atCoords.FindStringSubmatch(rawURL); m != nil {
			return toCoords(m[1], m[2]), nil
		}
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return nil, nil
		}
		if q := parsed.Query().Get("q"); q != "" {
			if m := pairCoords.FindStringSubmatch(q); m != nil {
				return toCoords(m[1], m[2]), nil
			}
		}
	}

	return nil, nil
}

func parsePair(raw string) *models.Coordinates {
	m := pairCoords.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	return toCoords(m[1], m[2])
}

func toCoords(latRaw, lonRaw string) *models.Coordinates {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return nil
	}
	return &models.Coordinates{Latitude: lat, Longitude: lon}
}
