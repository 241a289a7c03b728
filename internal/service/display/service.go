// Package display decides whether a banner is shown to a visitor and keeps
// the banner records it decides on.
package display

import (
	storage "bannerwindow/internal/database"
	"bannerwindow/internal/database/model"
	"bannerwindow/internal/database/repository"
	"bannerwindow/pkg/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Decision outcomes, also used as metric label values.
const (
	OutcomeNotFound    = "not_found"
	OutcomeOverride    = "override"
	OutcomeInWindow    = "in_window"
	OutcomeOutOfWindow = "out_of_window"
	OutcomeError       = "error"
)

type Recorder interface {
	ObserveDecision(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDecision(string) {}

type Service struct {
	log       *slog.Logger
	repo      repository.BannerRepository
	allowlist *Allowlist
	window    *Window
	localZone *time.Location
	recorder  Recorder
}

type Option func(*Service)

// WithClock replaces time.Now for window evaluation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.window = NewWindow(now)
	}
}

// WithRegistrationZone sets the zone register times are given in.
func WithRegistrationZone(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.localZone = loc
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func New(log *slog.Logger, repo repository.BannerRepository, allowlist *Allowlist, opts ...Option) *Service {
	s := &Service{
		log:       log,
		repo:      repo,
		allowlist: allowlist,
		window:    NewWindow(time.Now),
		localZone: time.Local,
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the banner table when it does not exist yet.
func (s *Service) Init(ctx context.Context) error {
	const op = "service.display.Init"

	if err := s.repo.CreateTableIfAbsent(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Display returns the url of the banner when it may be shown to sourceAddr,
// and an empty string otherwise. A missing banner is not an error.
func (s *Service) Display(ctx context.Context, bannerID int64, sourceAddr, timezone string) (string, error) {
	const op = "service.display.Display"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("banner_id", bannerID),
	)

	banner, err := s.repo.BannerByID(ctx, bannerID)
	if err != nil {
		if errors.Is(err, storage.ErrBannerNotFound) {
			s.recorder.ObserveDecision(OutcomeNotFound)
			log.Debug("banner not found")
			return "", nil
		}
		s.recorder.ObserveDecision(OutcomeError)
		log.Error("failed to get banner", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if s.allowlist.Allowed(sourceAddr) {
		s.recorder.ObserveDecision(OutcomeOverride)
		log.Debug("source address allowed", slog.String("address", sourceAddr))
		return banner.URL, nil
	}

	loc := ResolveZone(timezone)
	if !s.window.Contains(banner.StartTime.Time, banner.EndTime.Time, loc) {
		s.recorder.ObserveDecision(OutcomeOutOfWindow)
		log.Debug("outside display window",
			slog.String("zone", loc.String()),
			slog.String("start_time", banner.StartTime.String()),
			slog.String("end_time", banner.EndTime.String()),
		)
		return "", nil
	}

	s.recorder.ObserveDecision(OutcomeInWindow)
	log.Debug("inside display window", slog.String("zone", loc.String()))
	return banner.URL, nil
}

// Register stores a banner. localStart and localEnd are wall clock times in
// the registration zone; their location is ignored. The window is stored as
// given, an end before start is accepted.
func (s *Service) Register(ctx context.Context, url string, localStart, localEnd time.Time) (int64, error) {
	const op = "service.display.Register"

	startUTC := s.toUTC(localStart)
	endUTC := s.toUTC(localEnd)

	id, err := s.repo.InsertBanner(ctx, url, startUTC, endUTC)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("banner registered",
		slog.String("op", op),
		slog.Int64("banner_id", id),
		slog.String("start_time", startUTC.Format(model.StampLayout)),
		slog.String("end_time", endUTC.Format(model.StampLayout)),
	)

	return id, nil
}

// Delete removes a banner. Deleting a missing banner is a no-op.
func (s *Service) Delete(ctx context.Context, bannerID int64) error {
	const op = "service.display.Delete"

	if err := s.repo.DeleteBanner(ctx, bannerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]model.Banner, error) {
	const op = "service.display.List"

	banners, err := s.repo.Banners(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return banners, nil
}

func (s *Service) Banner(ctx context.Context, bannerID int64) (*model.Banner, error) {
	const op = "service.display.Banner"

	banner, err := s.repo.BannerByID(ctx, bannerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return banner, nil
}

// LocalTime reads t's wall clock in the registration zone. It is the
// inverse of the conversion Register applies.
func (s *Service) LocalTime(t time.Time) time.Time {
	return t.In(s.localZone)
}

func (s *Service) toUTC(t time.Time) time.Time {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), s.localZone)
	return wall.UTC()
}
