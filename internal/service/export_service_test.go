package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/campus-events-api/internal/dto"
	"github.com/campuspulse/campus-events-api/internal/models"
)

func TestExportCSV(t *testing.T) {
	repo := newStubRepo()
	start := "12:00"
	require.NoError(t, repo.Create(context.Background(), &models.Event{
		Title: "Quad Picnic", Date: "2024-05-01", StartTime: &start,
		EventType: models.TagList{"Social", "Sports"}, OrganizerName: "Sam",
		Location: "https://maps.app.goo.gl/abc", MaxParticipants: 50,
	}))
	events, _ := newTestService(repo, &stubCache{})
	svc := NewExportService(events)

	data, contentType, filename, err := svc.Export(context.Background(), dto.ListEventsRequest{AllTypes: true}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "events.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Start,End,Title,Types,Organizer,Location,Capacity", lines[0])
	assert.Contains(t, lines[1], "Quad Picnic")
	assert.Contains(t, lines[1], `"Social, Sports"`)
	// Missing end time renders as a dash.
	assert.Contains(t, lines[1], ",-,")
}

func TestExportPDF(t *testing.T) {
	events, _ := newTestService(newStubRepo(), &stubCache{})
	svc := NewExportService(events)

	data, contentType, filename, err := svc.Export(context.Background(), dto.ListEventsRequest{AllTypes: true}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "events.pdf", filename)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	events, _ := newTestService(newStubRepo(), &stubCache{})
	svc := NewExportService(events)

	_, _, _, err := svc.Export(context.Background(), dto.ListEventsRequest{AllTypes: true}, ExportFormat("xlsx"))
	require.Error(t, err)
}
