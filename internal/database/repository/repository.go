package repository

import (
	"bannerwindow/internal/database/model"
	"context"
	"time"
)

// BannerRepository is the record store behind the display service. Start and
// end are passed and returned in UTC.
type BannerRepository interface {
	CreateTableIfAbsent(ctx context.Context) error
	InsertBanner(ctx context.Context, url string, startUTC, endUTC time.Time) (int64, error)
	DeleteBanner(ctx context.Context, bannerID int64) error
	BannerByID(ctx context.Context, bannerID int64) (*model.Banner, error)
	Banners(ctx context.Context) ([]model.Banner, error)
}
