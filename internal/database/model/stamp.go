package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// StampLayout is the storage and wire form of a banner timestamp.
const StampLayout = time.DateTime

const minuteLayout = "2006-01-02T15:04"

var stampLayouts = []string{
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	minuteLayout,
}

// Stamp is a UTC instant with whole-second precision. Values read from the
// store keep nothing below the second, whatever the driver returns.
type Stamp struct {
	time.Time
}

func NewStamp(t time.Time) Stamp {
	return Stamp{Time: t.UTC().Truncate(time.Second)}
}

// ParseStamp reads the wall clock of s as UTC. A fraction or zone offset
// after the time of day is dropped, not applied.
func ParseStamp(s string) (Stamp, error) {
	const op = "model.ParseStamp"

	s = strings.TrimSpace(s)
	switch {
	case len(s) >= len(StampLayout) && s[len(minuteLayout)] == ':':
		s = s[:len(StampLayout)]
	case len(s) >= len(minuteLayout):
		s = s[:len(minuteLayout)]
	}

	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return NewStamp(t), nil
		}
	}

	return Stamp{}, fmt.Errorf("%s: cannot parse %q", op, s)
}

func (s Stamp) String() string {
	return s.Time.UTC().Format(StampLayout)
}

func (s *Stamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		// timestamp columns come back without a zone, the wall clock is UTC
		*s = NewStamp(time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), time.UTC))
		return nil
	case string:
		st, err := ParseStamp(v)
		if err != nil {
			return err
		}
		*s = st
		return nil
	case []byte:
		return s.Scan(string(v))
	case nil:
		return fmt.Errorf("model.Stamp.Scan: null timestamp")
	default:
		return fmt.Errorf("model.Stamp.Scan: unsupported type %T", src)
	}
}

func (s Stamp) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Stamp) UnmarshalJSON(b []byte) error {
	str := strings.Trim(string(b), `"`)
	st, err := ParseStamp(str)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
