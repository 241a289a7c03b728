package model

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampScan(t *testing.T) {
	want := time.Date(2018, 11, 1, 9, 30, 15, 0, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{"plain", "2018-11-01 09:30:15"},
		{"fraction", "2018-11-01 09:30:15.123456"},
		{"iso", "2018-11-01T09:30:15"},
		{"iso with zone", "2018-11-01T09:30:15Z"},
		{"iso fraction and zone", "2018-11-01T09:30:15.999999999+00:00"},
		{"bytes", []byte("2018-11-01 09:30:15.5")},
		{"time", time.Date(2018, 11, 1, 9, 30, 15, 700, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Stamp
			require.NoError(t, s.Scan(tt.src))
			assert.True(t, s.Equal(want), "got %s", s)
			assert.Equal(t, time.UTC, s.Location())
		})
	}
}

func TestStampScan_MinutePrecision(t *testing.T) {
	var s Stamp
	require.NoError(t, s.Scan("2018-11-01T00:00"))
	assert.Equal(t, "2018-11-01 00:00:00", s.String())
}

func TestStampScan_OffsetKeepsWallClock(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"iso offset", "2018-11-01T09:00:00+09:00", "2018-11-01 09:00:00"},
		{"space offset", "2018-11-01 09:00:00+09:00", "2018-11-01 09:00:00"},
		{"short offset", "2018-11-01 09:00:00-07", "2018-11-01 09:00:00"},
		{"fraction and offset", "2018-11-01 23:59:59.999-05:00", "2018-11-01 23:59:59"},
		{"minute with zone", "2018-11-01T09:00Z", "2018-11-01 09:00:00"},
		{"minute with offset", "2018-11-01T09:00+09:00", "2018-11-01 09:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Stamp
			require.NoError(t, s.Scan(tt.src))
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestStampScan_StringMatchesTime(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	var fromTime, fromString Stamp
	require.NoError(t, fromTime.Scan(time.Date(2018, 11, 1, 9, 0, 0, 0, tokyo)))
	require.NoError(t, fromString.Scan("2018-11-01 09:00:00+09:00"))
	assert.Equal(t, fromTime.String(), fromString.String())
}

func TestStampScan_Invalid(t *testing.T) {
	var s Stamp
	assert.Error(t, s.Scan("yesterday"))
	assert.Error(t, s.Scan(nil))
	assert.Error(t, s.Scan(42))
}

func TestStampValue(t *testing.T) {
	s := NewStamp(time.Date(2018, 11, 30, 23, 59, 59, 999, time.UTC))

	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, "2018-11-30 23:59:59", v)
}

func TestNewStamp_ConvertsToUTC(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	s := NewStamp(time.Date(2018, 11, 1, 9, 0, 0, 0, tokyo))
	assert.Equal(t, "2018-11-01 00:00:00", s.String())
}

func TestStampJSON(t *testing.T) {
	b := Banner{
		ID:        7,
		URL:       "https://a.png",
		StartTime: NewStamp(time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC)),
		EndTime:   NewStamp(time.Date(2018, 11, 30, 23, 59, 59, 0, time.UTC)),
	}

	raw, err := json.Marshal(b.StartTime)
	require.NoError(t, err)
	assert.Equal(t, `"2018-11-01 00:00:00"`, string(raw))

	var back Stamp
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Equal(b.StartTime.Time))
}
