package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCoordinatesShortLink(t *testing.T) {
	got, err := ExtractCoordinates("https://maps.app.goo.gl/abc123@38.9869,-76.9426")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 38.9869, got.Latitude)
	assert.Equal(t, -76.9426, got.Longitude)
}

func TestExtractCoordinatesFullURLPath(t *testing.T) {
	got, err := ExtractCoordinates("https://www.google.com/maps/place/McKeldin+Mall/@38.9869,-76.9426,17z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 38.9869, got.Latitude)
	assert.Equal(t, -76.9426, got.Longitude)
}

func TestExtractCoordinatesQueryParameter(t *testing.T) {
	got, err := ExtractCoordinates("https://www.google.com/maps?q=38.9869,-76.9426")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 38.9869, got.Latitude)
	assert.Equal(t, -76.9426, got.Longitude)
}

func TestExtractCoordinatesNoPatternYieldsNil(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://example.com/not-a-map",
		"https://maps.app.goo.gl/shortcode",
		"https://www.google.com/maps/place/Somewhere",
		"not even a url @@@",
	} {
		got, err := ExtractCoordinates(raw)
		require.NoError(t, err, raw)
		assert.Nil(t, got, raw)
	}
}

func TestExtractCoordinatesNegativeValues(t *testing.T) {
	got, err := ExtractCoordinates("https://www.google.com/maps/@-33.8688,151.2093,12z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, -33.8688, got.Latitude)
	assert.Equal(t, 151.2093, got.Longitude)
}
