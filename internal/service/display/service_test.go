package display

import (
	storage "bannerwindow/internal/database"
	"bannerwindow/internal/database/model"
	"bannerwindow/pkg/lib/logger/slogdiscard"
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	banners map[int64]model.Banner
	nextID  int64
	err     error
	reads   int
	writes  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{banners: make(map[int64]model.Banner)}
}

func (f *fakeRepo) CreateTableIfAbsent(context.Context) error {
	return f.err
}

func (f *fakeRepo) InsertBanner(_ context.Context, url string, startUTC, endUTC time.Time) (int64, error) {
	f.writes++
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.banners[f.nextID] = model.Banner{
		ID:        f.nextID,
		URL:       url,
		StartTime: model.NewStamp(startUTC),
		EndTime:   model.NewStamp(endUTC),
	}
	return f.nextID, nil
}

func (f *fakeRepo) DeleteBanner(_ context.Context, bannerID int64) error {
	f.writes++
	if f.err != nil {
		return f.err
	}
	delete(f.banners, bannerID)
	return nil
}

func (f *fakeRepo) BannerByID(_ context.Context, bannerID int64) (*model.Banner, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.banners[bannerID]
	if !ok {
		return nil, storage.ErrBannerNotFound
	}
	return &b, nil
}

func (f *fakeRepo) Banners(context.Context) ([]model.Banner, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Banner, 0, len(f.banners))
	for _, b := range f.banners {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type countingRecorder map[string]int

func (c countingRecorder) ObserveDecision(outcome string) { c[outcome]++ }

var testNow = time.Date(2024, 6, 15, 8, 30, 0, 250_000_000, time.UTC)

func newTestService(repo *fakeRepo, opts ...Option) *Service {
	opts = append([]Option{WithClock(fixedClock(testNow)), WithRegistrationZone(time.UTC)}, opts...)
	return New(slogdiscard.NewDiscardLogger(), repo, NewAllowlist(DefaultAllowedIPs), opts...)
}

func TestDisplay_NotFound(t *testing.T) {
	repo := newFakeRepo()
	rec := countingRecorder{}
	s := newTestService(repo, WithRecorder(rec))

	for _, addr := range []string{"10.0.0.0", "10.0.0.1", ""} {
		url, err := s.Display(context.Background(), 99, addr, "Asia/Tokyo")
		require.NoError(t, err)
		assert.Empty(t, url)
	}
	assert.Equal(t, 3, rec[OutcomeNotFound])
}

func TestDisplay_PastWindow(t *testing.T) {
	repo := newFakeRepo()
	rec := countingRecorder{}
	s := newTestService(repo, WithRecorder(rec))
	ctx := context.Background()

	id, err := s.Register(ctx, "https://locale_kako.png",
		time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 11, 30, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)

	url, err := s.Display(ctx, id, "10.0.0.0", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Empty(t, url)

	url, err = s.Display(ctx, id, "10.0.0.1", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "https://locale_kako.png", url)

	url, err = s.Display(ctx, id, "10.0.0.2", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "https://locale_kako.png", url)

	assert.Equal(t, 1, rec[OutcomeOutOfWindow])
	assert.Equal(t, 2, rec[OutcomeOverride])
}

func TestDisplay_FutureWindowOverride(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	ctx := context.Background()

	id, err := s.Register(ctx, "https://locale_mirai.png",
		time.Date(2100, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 11, 30, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)

	url, err := s.Display(ctx, id, "10.0.0.0", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Empty(t, url)

	url, err = s.Display(ctx, id, "10.0.0.1", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "https://locale_mirai.png", url)
}

func TestDisplay_CurrentWindows(t *testing.T) {
	repo := newFakeRepo()
	rec := countingRecorder{}
	s := newTestService(repo, WithRecorder(rec))
	ctx := context.Background()

	tests := []struct {
		url        string
		start, end time.Time
		zone       string
	}{
		{"https://locale_kako_genzai.png", time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC), testNow, "America/Los_Angeles"},
		{"https://locale_genzai.png", testNow, testNow, "Europe/Berlin"},
		{"https://locale_genzai_mirai.png", testNow, testNow.AddDate(50, 0, 0), "Asia/Singapore"},
	}

	for _, tt := range tests {
		id, err := s.Register(ctx, tt.url, tt.start, tt.end)
		require.NoError(t, err)

		url, err := s.Display(ctx, id, "10.0.0.0", tt.zone)
		require.NoError(t, err)
		assert.Equal(t, tt.url, url)
	}
	assert.Equal(t, 3, rec[OutcomeInWindow])
}

func TestDisplay_UnknownZoneFallsBackToUTC(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	ctx := context.Background()

	id, err := s.Register(ctx, "https://utc.png", testNow.Add(-time.Minute), testNow.Add(time.Minute))
	require.NoError(t, err)

	url, err := s.Display(ctx, id, "10.0.0.0", "Not/AZone")
	require.NoError(t, err)
	assert.Equal(t, "https://utc.png", url)
}

func TestDisplay_InvertedWindow(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	ctx := context.Background()

	id, err := s.Register(ctx, "https://inverted.png", testNow.Add(time.Hour), testNow.Add(-time.Hour))
	require.NoError(t, err)

	url, err := s.Display(ctx, id, "10.0.0.0", "UTC")
	require.NoError(t, err)
	assert.Empty(t, url)

	url, err = s.Display(ctx, id, "10.0.0.1", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "https://inverted.png", url)
}

func TestDisplay_ConfiguredAllowlist(t *testing.T) {
	repo := newFakeRepo()
	s := New(slogdiscard.NewDiscardLogger(), repo, NewAllowlist([]string{"203.0.113.7"}),
		WithClock(fixedClock(testNow)), WithRegistrationZone(time.UTC))
	ctx := context.Background()

	id, err := s.Register(ctx, "https://old.png",
		time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 11, 30, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)

	url, err := s.Display(ctx, id, "203.0.113.7", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "https://old.png", url)

	url, err = s.Display(ctx, id, "10.0.0.1", "UTC")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestDisplay_OneReadNoWrites(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	ctx := context.Background()

	id, err := s.Register(ctx, "https://a.png", testNow, testNow)
	require.NoError(t, err)
	repo.reads, repo.writes = 0, 0

	_, err = s.Display(ctx, id, "10.0.0.0", "UTC")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, 0, repo.writes)
}

func TestDisplay_StoreErrorPropagates(t *testing.T) {
	repo := newFakeRepo()
	rec := countingRecorder{}
	s := newTestService(repo, WithRecorder(rec))
	boom := errors.New("connection refused")
	repo.err = boom

	url, err := s.Display(context.Background(), 1, "10.0.0.1", "UTC")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, url)
	assert.Equal(t, 1, rec[OutcomeError])
}

func TestRegister_ConvertsRegistrationZoneToUTC(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	repo := newFakeRepo()
	s := newTestService(repo, WithRegistrationZone(tokyo))
	ctx := context.Background()

	// wall clock is read in the registration zone, the value's own location is ignored
	start := time.Date(2018, 11, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2018, 11, 2, 8, 59, 59, 0, time.UTC)

	id, err := s.Register(ctx, "https://tokyo.png", start, end)
	require.NoError(t, err)

	banners, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 1)

	assert.Equal(t, id, banners[0].ID)
	assert.Equal(t, "2018-11-01 00:00:00", banners[0].StartTime.String())
	assert.Equal(t, "2018-11-01 23:59:59", banners[0].EndTime.String())

	local := s.LocalTime(banners[0].StartTime.Time)
	assert.Equal(t, "2018-11-01 09:00:00", local.Format(model.StampLayout))
}

func TestRegister_StoreError(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	boom := errors.New("disk full")
	repo.err = boom

	_, err := s.Register(context.Background(), "https://a.png", testNow, testNow)
	assert.ErrorIs(t, err, boom)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	ctx := context.Background()

	id, err := s.Register(ctx, "https://a.png", testNow, testNow)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id))

	url, err := s.Display(ctx, id, "10.0.0.1", "UTC")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestList_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	ctx := context.Background()

	for _, url := range []string{"https://a.png", "https://b.png"} {
		_, err := s.Register(ctx, url, testNow, testNow.Add(time.Hour))
		require.NoError(t, err)
	}

	first, err := s.List(ctx)
	require.NoError(t, err)
	second, err := s.List(ctx)
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestBanner(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Banner(ctx, 5)
	assert.ErrorIs(t, err, storage.ErrBannerNotFound)

	id, err := s.Register(ctx, "https://a.png", testNow, testNow)
	require.NoError(t, err)

	b, err := s.Banner(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://a.png", b.URL)
}

func TestInit(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	require.NoError(t, s.Init(context.Background()))

	repo.err = errors.New("permission denied")
	assert.Error(t, s.Init(context.Background()))
}
