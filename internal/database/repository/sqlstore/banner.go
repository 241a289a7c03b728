package sqlstore

import (
	storage "bannerwindow/internal/database"
	"bannerwindow/internal/database/driver"
	"bannerwindow/internal/database/model"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var createTable = map[string]string{
	driver.DriverPostgres: `
		CREATE TABLE IF NOT EXISTS banner (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL,
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP NOT NULL
		)`,
	driver.DriverSQLite: `
		CREATE TABLE IF NOT EXISTS banner (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL
		)`,
}

type BannerRepository struct {
	db *sqlx.DB
}

func NewBannerRepository(db *sqlx.DB) *BannerRepository {
	return &BannerRepository{db: db}
}

func (b *BannerRepository) CreateTableIfAbsent(ctx context.Context) error {
	const op = "repository.sqlstore.CreateTableIfAbsent"

	query, ok := createTable[b.db.DriverName()]
	if !ok {
		return fmt.Errorf("%s: %w: %s", op, storage.ErrUnsupportedDriver, b.db.DriverName())
	}

	if _, err := b.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *BannerRepository) InsertBanner(ctx context.Context, url string, startUTC, endUTC time.Time) (int64, error) {
	const op = "repository.sqlstore.InsertBanner"

	query := b.db.Rebind("INSERT INTO banner (url, start_time, end_time) VALUES (?, ?, ?) RETURNING id")

	var id int64
	err := b.db.QueryRowxContext(ctx, query,
		url, model.NewStamp(startUTC), model.NewStamp(endUTC),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (b *BannerRepository) DeleteBanner(ctx context.Context, bannerID int64) error {
	const op = "repository.sqlstore.DeleteBanner"

	stmt, err := b.db.PreparexContext(ctx, b.db.Rebind("DELETE FROM banner WHERE id = ?"))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	// deleting a missing banner is not an error
	if _, err = stmt.ExecContext(ctx, bannerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *BannerRepository) BannerByID(ctx context.Context, bannerID int64) (*model.Banner, error) {
	const op = "repository.sqlstore.BannerByID"

	query := b.db.Rebind("SELECT id, url, start_time, end_time FROM banner WHERE id = ?")

	var banner model.Banner
	if err := b.db.GetContext(ctx, &banner, query, bannerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrBannerNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &banner, nil
}

func (b *BannerRepository) Banners(ctx context.Context) ([]model.Banner, error) {
	const op = "repository.sqlstore.Banners"

	rows, err := b.db.QueryxContext(ctx, "SELECT id, url, start_time, end_time FROM banner ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	banners := make([]model.Banner, 0)
	for rows.Next() {
		var banner model.Banner
		if err := rows.StructScan(&banner); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		banners = append(banners, banner)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return banners, nil
}
