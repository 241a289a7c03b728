package model

type Banner struct {
	ID        int64  `db:"id"`
	URL       string `db:"url"`
	StartTime Stamp  `db:"start_time"`
	EndTime   Stamp  `db:"end_time"`
}
