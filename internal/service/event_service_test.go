package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuspulse/campus-events-api/internal/dto"
	"github.com/campuspulse/campus-events-api/internal/models"
	appErrors "github.com/campuspulse/campus-events-api/pkg/errors"
)

type stubRepo struct {
	events   map[string]*models.Event
	listErr  error
	listHits int
}

func newStubRepo() *stubRepo {
	return &stubRepo{events: map[string]*models.Event{}}
}

func (r *stubRepo) List(_ context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	r.listHits++
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var out []models.Event
	for _, e := range r.events {
		if filter.Date != "" && e.Date != filter.Date {
			continue
		}
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (r *stubRepo) PasswordHash(_ context.Context, id string) (string, error) {
	e, ok := r.events[id]
	if !ok {
		return "", sql.ErrNoRows
	}
	return e.PasswordHash, nil
}

func (r *stubRepo) Create(_ context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = fmt.Sprintf("event-%d", len(r.events)+1)
	}
	event.CurrentParticipants = 0
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *stubRepo) Update(_ context.Context, event *models.Event) error {
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

type stubCache struct {
	snapshot    []models.Event
	has         bool
	invalidated int
	sets        int
}

func (c *stubCache) Get(_ context.Context, _ string, dest interface{}) error {
	if !c.has {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*[]models.Event)) = c.snapshot
	return nil
}

func (c *stubCache) Set(_ context.Context, _ string, value interface{}, _ time.Duration) error {
	c.sets++
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, _ string) {
	c.invalidated++
	c.has = false
}

type stubStore struct {
	saved map[string][]byte
	err   error
}

func (s *stubStore) Save(filename string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[filename] = data
	return "/event-images/" + filename, nil
}

type stubProcessor struct{ err error }

func (p *stubProcessor) Process(r io.Reader) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return io.ReadAll(r)
}

func newTestService(repo *stubRepo, cache *stubCache) (*EventService, *stubStore) {
	store := &stubStore{}
	svc := NewEventService(repo, cache, store, &stubProcessor{}, nil, nil, EventServiceConfig{
		CacheTTL:    time.Minute,
		TokenSecret: "test-secret",
		TokenTTL:    15 * time.Minute,
	})
	return svc, store
}

func validCreateRequest() dto.CreateEventRequest {
	return dto.CreateEventRequest{
		Title:           "Quad Picnic",
		Description:     "Food and games on the mall",
		OrganizerEmail:  "sam@terpmail.edu",
		OrganizerName:   "Sam",
		Date:            "2024-05-01",
		StartTime:       "12:00",
		EndTime:         "14:00",
		Location:        "https://maps.app.goo.gl/abc@38.9869,-76.9426",
		EventType:       models.TagList{"Social"},
		MaxParticipants: 50,
		RSVPLink:        "https://forms.example/rsvp",
		Password:        "hunter22",
	}
}

func TestCreateRejectsNonEduEmail(t *testing.T) {
	svc, _ := newTestService(newStubRepo(), &stubCache{})
	req := validCreateRequest()
	req.OrganizerEmail = "sam@gmail.com"

	_, err := svc.Create(context.Background(), req, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "organizer_email", appErr.Field)
	assert.Contains(t, appErr.Message, ".edu")
}

func TestCreateRejectsUnknownEventType(t *testing.T) {
	svc, _ := newTestService(newStubRepo(), &stubCache{})
	req := validCreateRequest()
	req.EventType = models.TagList{"Rave"}

	_, err := svc.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, "event_type", appErrors.FromError(err).Field)
}

func TestCreateHashesPasswordAndExtractsCoordinates(t *testing.T) {
	repo := newStubRepo()
	cache := &stubCache{has: true}
	svc, _ := newTestService(repo, cache)

	view, err := svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, view.ID)

	stored := repo.events[view.ID]
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))
	require.NotNil(t, stored.Latitude)
	assert.InDelta(t, 38.9869, *stored.Latitude, 1e-9)
	assert.InDelta(t, -76.9426, *stored.Longitude, 1e-9)
	assert.Equal(t, 0, stored.CurrentParticipants)
	assert.Equal(t, 1, cache.invalidated)
}

func TestCreateWithoutExtractableCoordinatesStillSucceeds(t *testing.T) {
	repo := newStubRepo()
	svc, _ := newTestService(repo, &stubCache{})
	req := validCreateRequest()
	req.Location = "https://example.com/student-union"

	view, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Nil(t, repo.events[view.ID].Latitude)
	assert.Nil(t, repo.events[view.ID].Longitude)
}

func TestCreateStoresProcessedImage(t *testing.T) {
	repo := newStubRepo()
	svc, store := newTestService(repo, &stubCache{})
	svc.now = func() time.Time { return time.UnixMilli(1714500000000) }

	image := &ImageUpload{Filename: "my photo!.png", Reader: bytes.NewReader([]byte("img-bytes"))}
	view, err := svc.Create(context.Background(), validCreateRequest(), image)
	require.NoError(t, err)
	require.NotNil(t, view.ImageURL)
	assert.True(t, strings.HasPrefix(*view.ImageURL, "/event-images/1714500000000-"))
	assert.NotContains(t, *view.ImageURL, "!")
	assert.Len(t, store.saved, 1)
}

func TestCreateAbortsWhenImageStorageFails(t *testing.T) {
	repo := newStubRepo()
	svc, store := newTestService(repo, &stubCache{})
	store.err = errors.New("InvalidKey: bad object name")

	image := &ImageUpload{Filename: "photo.png", Reader: bytes.NewReader([]byte("img"))}
	_, err := svc.Create(context.Background(), validCreateRequest(), image)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "rename the file")
	assert.Empty(t, repo.events)
}

func TestVerifyPasswordIssuesScopedToken(t *testing.T) {
	repo := newStubRepo()
	svc, _ := newTestService(repo, &stubCache{})
	view, err := svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	_, err = svc.VerifyPassword(context.Background(), view.ID, "wrong-pass")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPassword.Code, appErrors.FromError(err).Code)

	token, err := svc.VerifyPassword(context.Background(), view.ID, "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Greater(t, token.ExpiresAt, time.Now().Unix())
}

func TestUpdateMergesFieldsAndChecksToken(t *testing.T) {
	repo := newStubRepo()
	svc, _ := newTestService(repo, &stubCache{})
	view, err := svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), view.ID, "garbage-token", dto.UpdateEventRequest{}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	token, err := svc.VerifyPassword(context.Background(), view.ID, "hunter22")
	require.NoError(t, err)

	newTitle := "Renamed Picnic"
	updated, err := svc.Update(context.Background(), view.ID, token.Token, dto.UpdateEventRequest{Title: &newTitle}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Picnic", updated.Title)
	// Untouched fields survive the merge.
	assert.Equal(t, "Food and games on the mall", updated.Description)
	require.NotNil(t, updated.Latitude)
}

func TestUpdateTokenBoundToEvent(t *testing.T) {
	repo := newStubRepo()
	svc, _ := newTestService(repo, &stubCache{})
	first, err := svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	token, err := svc.VerifyPassword(context.Background(), first.ID, "hunter22")
	require.NoError(t, err)

	title := "Hijacked"
	_, err = svc.Update(context.Background(), second.ID, token.Token, dto.UpdateEventRequest{Title: &title}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpdateLocationChangeReextractsCoordinates(t *testing.T) {
	repo := newStubRepo()
	svc, _ := newTestService(repo, &stubCache{})
	view, err := svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	token, err := svc.VerifyPassword(context.Background(), view.ID, "hunter22")
	require.NoError(t, err)

	newLoc := "https://www.google.com/maps/place/Stamp+Union/@39.1000,-76.5000,17z"
	updated, err := svc.Update(context.Background(), view.ID, token.Token, dto.UpdateEventRequest{Location: &newLoc}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Latitude)
	assert.InDelta(t, 39.1, *updated.Latitude, 1e-9)

	plain := "https://example.com/no-coords-here"
	updated, err = svc.Update(context.Background(), view.ID, token.Token, dto.UpdateEventRequest{Location: &plain}, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.Latitude)
	assert.Nil(t, updated.Longitude)
}

func TestListServesUnfilteredFromCache(t *testing.T) {
	repo := newStubRepo()
	start := "12:00"
	cache := &stubCache{
		has: true,
		snapshot: []models.Event{{
			ID: "cached-1", Title: "Cached Social", Date: "2024-05-01",
			StartTime: &start, EventType: models.TagList{"Social"},
		}},
	}
	svc, _ := newTestService(repo, cache)

	views, _, err := svc.List(context.Background(), dto.ListEventsRequest{AllTypes: true})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "cached-1", views[0].ID)
	assert.Zero(t, repo.listHits)
}

func TestListFilteredBypassesCache(t *testing.T) {
	repo := newStubRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Event{
		Title: "Lab Review", Date: "2024-05-02", EventType: models.TagList{"Academic"},
	}))
	cache := &stubCache{has: true}
	svc, _ := newTestService(repo, cache)

	views, _, err := svc.List(context.Background(), dto.ListEventsRequest{Date: "2024-05-02", AllTypes: true})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, repo.listHits)
}

func TestListAppliesTypeAndSearchFilters(t *testing.T) {
	repo := newStubRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Event{
		Title: "Pickup Soccer", Date: "2024-05-01", EventType: models.TagList{"Sports"},
	}))
	require.NoError(t, repo.Create(context.Background(), &models.Event{
		Title: "Study Jam", Date: "2024-05-01", EventType: models.TagList{"Study Group"},
	}))
	svc, _ := newTestService(repo, &stubCache{})

	views, _, err := svc.List(context.Background(), dto.ListEventsRequest{Types: []string{"Sports"}})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Pickup Soccer", views[0].Title)

	views, _, err = svc.List(context.Background(), dto.ListEventsRequest{AllTypes: true, Search: "jam"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Study Jam", views[0].Title)
}

func TestListDecoratesWithMarkerAndCalendarLink(t *testing.T) {
	repo := newStubRepo()
	svc, _ := newTestService(repo, &stubCache{})
	svc.now = func() time.Time {
		return time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)
	}

	view, err := svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, view.ID)

	views, _, err := svc.List(context.Background(), dto.ListEventsRequest{AllTypes: true})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "ongoing", string(views[0].Marker))
	assert.Contains(t, views[0].CalendarURL, "calendar.google.com")
	assert.Contains(t, views[0].CalendarURL, "20240501T120000%2F20240501T140000")
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newTestService(newStubRepo(), &stubCache{})
	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
