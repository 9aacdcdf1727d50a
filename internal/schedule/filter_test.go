package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/campus-events-api/internal/models"
)

func sampleEvents() []models.Event {
	return []models.Event{
		{ID: "1", Title: "Quad Picnic", Description: "Food on the mall", Location: "https://maps.example/mall", EventType: models.TagList{"Social"}, Date: "2024-05-01"},
		{ID: "2", Title: "Algorithms Review", Description: "Midterm prep", Location: "https://maps.example/library", EventType: models.TagList{"Academic", "Study Group"}, Date: "2024-05-02"},
		{ID: "3", Title: "Pickup Soccer", Description: "Bring cleats", Location: "https://maps.example/fields", EventType: models.TagList{"Sports"}, Date: "2024-05-01"},
	}
}

func TestFilterAllTypesPassesEverything(t *testing.T) {
	got := Filter(sampleEvents(), FilterConfig{AllTypes: true})
	assert.Len(t, got, 3)
}

func TestFilterExplicitEmptySetShowsNothing(t *testing.T) {
	got := Filter(sampleEvents(), FilterConfig{AllTypes: false, Types: []string{}})
	assert.Empty(t, got)
}

func TestFilterTypeMembership(t *testing.T) {
	got := Filter(sampleEvents(), FilterConfig{Types: []string{"Academic"}})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterSingleTagRowMatchesSetPredicate(t *testing.T) {
	events := []models.Event{{ID: "solo", EventType: models.TagList{"Social"}, Date: "2024-05-01"}}
	got := Filter(events, FilterConfig{Types: []string{"Social", "Sports"}})
	assert.Len(t, got, 1)
}

func TestFilterSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	events := sampleEvents()

	byTitle := Filter(events, FilterConfig{AllTypes: true, SearchTerm: "PICNIC"})
	require.Len(t, byTitle, 1)
	assert.Equal(t, "1", byTitle[0].ID)

	byDescription := Filter(events, FilterConfig{AllTypes: true, SearchTerm: "cleats"})
	require.Len(t, byDescription, 1)
	assert.Equal(t, "3", byDescription[0].ID)

	byLocation := Filter(events, FilterConfig{AllTypes: true, SearchTerm: "LIBRARY"})
	require.Len(t, byLocation, 1)
	assert.Equal(t, "2", byLocation[0].ID)
}

func TestFilterDateEquality(t *testing.T) {
	got := Filter(sampleEvents(), FilterConfig{AllTypes: true, SelectedDate: "2024-05-01"})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFilterEndToEndScenario(t *testing.T) {
	events := []models.Event{
		{ID: "1", EventType: models.TagList{"Social"}, Date: "2024-05-01"},
		{ID: "2", EventType: models.TagList{"Academic"}, Date: "2024-05-02"},
	}
	got := Filter(events, FilterConfig{AllTypes: true, SelectedDate: "2024-05-01"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	events := sampleEvents()
	_ = Filter(events, FilterConfig{Types: []string{"Sports"}})
	assert.Equal(t, sampleEvents(), events)
}

func TestFilterIsDeterministicAndOrderPreserving(t *testing.T) {
	cfg := FilterConfig{AllTypes: true, SearchTerm: "maps.example"}
	first := Filter(sampleEvents(), cfg)
	second := Filter(sampleEvents(), cfg)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"1", "2", "3"}, []string{first[0].ID, first[1].ID, first[2].ID})
}
