package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuspulse/campus-events-api/internal/dto"
	"github.com/campuspulse/campus-events-api/internal/geocode"
	"github.com/campuspulse/campus-events-api/internal/images"
	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/campuspulse/campus-events-api/internal/repository"
	"github.com/campuspulse/campus-events-api/internal/schedule"
	appErrors "github.com/campuspulse/campus-events-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	PasswordHash(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
}

type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, key string)
}

type imageStore interface {
	Save(filename string, data []byte) (string, error)
}

type imageProcessor interface {
	Process(r io.Reader) ([]byte, error)
}

// ImageUpload is an attached form image awaiting processing.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// EventServiceConfig tunes caching and the edit-token lifetime.
type EventServiceConfig struct {
	CacheTTL    time.Duration
	TokenSecret string
	TokenTTL    time.Duration
}

// EventService implements the submission and browsing flows: validation,
// the optional image pipeline, coordinate extraction, persistence and the
// password-gated edit path.
type EventService struct {
	repo      eventRepository
	cache     listCache
	store     imageStore
	processor imageProcessor
	validator *validator.Validate
	logger    *zap.Logger
	cfg       EventServiceConfig
	now       func() time.Time
}

// NewEventService constructs the service and registers the domain
// validation rules.
func NewEventService(repo eventRepository, cache listCache, store imageStore, processor imageProcessor, validate *validator.Validate, logger *zap.Logger, cfg EventServiceConfig) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 15 * time.Minute
	}
	svc := &EventService{
		repo:      repo,
		cache:     cache,
		store:     store,
		processor: processor,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
	_ = svc.validator.RegisterValidation("edu_email", func(fl validator.FieldLevel) bool {
		return strings.HasSuffix(strings.ToLower(fl.Field().String()), ".edu")
	})
	_ = svc.validator.RegisterValidation("event_tags", func(fl validator.FieldLevel) bool {
		tags, ok := fl.Field().Interface().(models.TagList)
		if !ok {
			return false
		}
		if len(tags) == 0 {
			return false
		}
		for _, tag := range tags {
			if !models.IsValidEventType(tag) {
				return false
			}
		}
		return true
	})
	return svc
}

// List returns the filtered, decorated event views. The unfiltered first
// page is served from the redis snapshot when available; every other shape
// reads through to the database. The in-memory filter preserves the
// canonical date/start-time ordering established by the fetch.
func (s *EventService) List(ctx context.Context, req dto.ListEventsRequest) ([]dto.EventView, *models.Pagination, error) {
	filter := models.EventFilter{Date: req.Date, Page: req.Page, PageSize: req.PageSize}
	if filter.Page < 1 {
		filter.Page = 1
	}

	var events []models.Event
	var total int
	if s.cacheable(req) {
		if err := s.cache.Get(ctx, repository.ListCacheKey, &events); err == nil {
			total = len(events)
		} else {
			var dbErr error
			events, total, dbErr = s.repo.List(ctx, filter)
			if dbErr != nil {
				return nil, nil, appErrors.Wrap(dbErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
			}
			if err := s.cache.Set(ctx, repository.ListCacheKey, events, s.cfg.CacheTTL); err != nil {
				s.logger.Sugar().Warnw("event list cache write failed", "error", err)
			}
		}
	} else {
		var err error
		events, total, err = s.repo.List(ctx, filter)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
		}
	}

	filtered := schedule.Filter(events, schedule.FilterConfig{
		AllTypes:     req.AllTypes,
		Types:        req.Types,
		SearchTerm:   req.Search,
		SelectedDate: req.Date,
	})

	now := s.now()
	views := make([]dto.EventView, len(filtered))
	for i, e := range filtered {
		views[i] = dto.EventView{
			Event:       e,
			Marker:      schedule.Classify(e, now),
			CalendarURL: CalendarLink(e),
		}
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return views, pagination, nil
}

func (s *EventService) cacheable(req dto.ListEventsRequest) bool {
	return s.cache != nil && req.Date == "" && req.Page <= 1 && req.PageSize == 0
}

// Get returns one decorated event.
func (s *EventService) Get(ctx context.Context, id string) (*dto.EventView, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return &dto.EventView{Event: *event, Marker: schedule.Classify(*event, s.now()), CalendarURL: CalendarLink(*event)}, nil
}

// Create validates the submission, runs the optional image pipeline,
// extracts coordinates and persists the event. Coordinate extraction
// failure is a silent degradation; image storage failure aborts with a
// user-facing message while the form state stays with the client for retry.
func (s *EventService) Create(ctx context.Context, req dto.CreateEventRequest, image *ImageUpload) (*dto.EventView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldError(err)
	}

	imageURL, err := s.storeImage(image)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to protect event password")
	}

	start := req.StartTime
	end := req.EndTime
	event := &models.Event{
		Title:           req.Title,
		Description:     req.Description,
		OrganizerEmail:  req.OrganizerEmail,
		OrganizerName:   req.OrganizerName,
		Date:            req.Date,
		StartTime:       &start,
		EndTime:         &end,
		Location:        req.Location,
		EventType:       req.EventType,
		MaxParticipants: req.MaxParticipants,
		RSVPLink:        req.RSVPLink,
		PasswordHash:    string(hash),
		ImageURL:        imageURL,
	}
	s.applyCoordinates(event)

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.Friendly(err))
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, repository.ListCacheKey)
	}

	return &dto.EventView{Event: *event, Marker: schedule.Classify(*event, s.now()), CalendarURL: CalendarLink(*event)}, nil
}

// Update merges the submitted fields into the stored record. The caller
// must present an edit token obtained through VerifyPassword; the image URL
// is replaced only when a new image accompanies the request.
func (s *EventService) Update(ctx context.Context, id, token string, req dto.UpdateEventRequest, image *ImageUpload) (*dto.EventView, error) {
	if err := s.checkEditToken(token, id); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fieldError(err)
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	locationChanged := false
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.OrganizerEmail != nil {
		event.OrganizerEmail = *req.OrganizerEmail
	}
	if req.OrganizerName != nil {
		event.OrganizerName = *req.OrganizerName
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.StartTime != nil {
		event.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime
	}
	if req.Location != nil && *req.Location != event.Location {
		event.Location = *req.Location
		locationChanged = true
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.RSVPLink != nil {
		event.RSVPLink = *req.RSVPLink
	}

	if locationChanged {
		event.Latitude = nil
		event.Longitude = nil
		s.applyCoordinates(event)
	}

	if image != nil {
		imageURL, err := s.storeImage(image)
		if err != nil {
			return nil, err
		}
		event.ImageURL = imageURL
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.Friendly(err))
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, repository.ListCacheKey)
	}

	return &dto.EventView{Event: *event, Marker: schedule.Classify(*event, s.now()), CalendarURL: CalendarLink(*event)}, nil
}

// VerifyPassword compares the submitted password against the stored hash
// and, on success, issues a short-lived token authorising edits to this
// event only.
func (s *EventService) VerifyPassword(ctx context.Context, id, password string) (*dto.EditTokenResponse, error) {
	hash, err := s.repo.PasswordHash(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify password")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidPassword, "Incorrect password")
	}

	expiresAt := s.now().Add(s.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   id,
		"scope": "edit",
		"exp":   expiresAt.Unix(),
		"iat":   s.now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue edit token")
	}
	return &dto.EditTokenResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

func (s *EventService) checkEditToken(raw, eventID string) error {
	if raw == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "edit token required")
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired edit token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid edit token")
	}
	if sub, _ := claims["sub"].(string); sub != eventID {
		return appErrors.Clone(appErrors.ErrForbidden, "edit token does not match this event")
	}
	if scope, _ := claims["scope"].(string); scope != "edit" {
		return appErrors.Clone(appErrors.ErrForbidden, "token is not an edit token")
	}
	return nil
}

func (s *EventService) storeImage(image *ImageUpload) (*string, error) {
	if image == nil {
		return nil, nil
	}
	data, err := s.processor.Process(image.Reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedType.Code, appErrors.ErrUnsupportedType.Status, "The attached file could not be read as an image.")
	}
	name := images.StampFilename(image.Filename, s.now())
	url, err := s.store.Save(name, data)
	if err != nil {
		s.logger.Sugar().Errorw("image upload failed", "filename", name, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.Friendly(err))
	}
	return &url, nil
}

func (s *EventService) applyCoordinates(event *models.Event) {
	coords, err := geocode.ExtractCoordinates(event.Location)
	if err != nil || coords == nil {
		// Recoverable: the event is stored without a map marker.
		s.logger.Sugar().Debugw("no coordinates extracted", "location", event.Location)
		return
	}
	event.Latitude = &coords.Latitude
	event.Longitude = &coords.Longitude
}

// fieldError converts validator failures into a field-scoped validation
// error the client renders inline next to the offending input.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return appErrors.Validation(snakeCase(first.Field()), validationMessage(first))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}

func validationMessage(fe validator.FieldError) string {
	field := snakeCase(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "min":
		if fe.Field() == "Password" {
			return "password must be at least " + fe.Param() + " characters"
		}
		return field + " must have at least " + fe.Param() + " entries"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "edu_email":
		return "Only .edu email addresses are allowed"
	case "event_tags":
		return "Select at least one valid event type"
	case "datetime":
		return field + " has an invalid format"
	case "url":
		return field + " must be a valid URL"
	default:
		return field + " is invalid"
	}
}

func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
