package model

import (
	"bannerwindow/internal/database/model"
)

type Banner struct {
	ID        int64       `json:"banner_id"`
	URL       string      `json:"url"`
	StartTime model.Stamp `json:"start_time"`
	EndTime   model.Stamp `json:"end_time"`
}

func BannerDBtoBannerHTTP(banner model.Banner) *Banner {
	return &Banner{
		ID:        banner.ID,
		URL:       banner.URL,
		StartTime: banner.StartTime,
		EndTime:   banner.EndTime,
	}
}
