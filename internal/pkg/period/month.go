package period

import (
	"errors"
	"time"
)

const layout = "2006-01"

var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

// Month is a calendar month in "YYYY-MM" form.
type Month string

// Parse validates s and returns it as a Month.
func Parse(s string) (Month, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", ErrInvalidMonth
	}
	return FromTime(t), nil
}

// FromTime returns the month containing t.
func FromTime(t time.Time) Month {
	return Month(t.Format(layout))
}

// Current returns the month containing time.Now().
func Current() Month {
	return FromTime(time.Now())
}

func (m Month) String() string {
	return string(m)
}

// Valid reports whether m is a well-formed month.
func (m Month) Valid() bool {
	_, err := Parse(string(m))
	return err == nil
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	t, _ := time.Parse(layout, string(m))
	return t
}

// Previous returns the month before m.
func (m Month) Previous() Month {
	return FromTime(m.Start().AddDate(0, -1, 0))
}
