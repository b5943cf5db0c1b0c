// ABOUTME: Business calendar for working-day arithmetic
// ABOUTME: Computes US federal holidays per year and layers on imported or company holidays
package calendar

import (
	"sort"
	"time"
)

// DateLayout is the ISO date key used by holiday tables.
const DateLayout = "2006-01-02"

// maxLookahead bounds NextWorkingDay so a runaway holiday table cannot spin forever.
const maxLookahead = 14

// Holiday is one non-working date.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Calendar answers working-day questions in a fixed location.
type Calendar struct {
	loc   *time.Location
	extra map[string]string
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithHolidays layers extra non-working dates over the federal set.
func WithHolidays(holidays ...Holiday) Option {
	return func(c *Calendar) {
		for _, h := range holidays {
			if _, err := time.Parse(DateLayout, h.Date); err != nil {
				continue
			}
			c.extra[h.Date] = h.Name
		}
	}
}

// New creates a calendar. A nil location means UTC.
func New(loc *time.Location, opts ...Option) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	c := &Calendar{loc: loc, extra: make(map[string]string)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the timezone dates are evaluated in.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// IsWorkingDay is false on weekends, federal holidays and any extra holidays.
func (c *Calendar) IsWorkingDay(date time.Time) bool {
	d := date.In(c.loc)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.HolidayName(d)
	return !holiday
}

// HolidayName returns the holiday falling on date, if any.
func (c *Calendar) HolidayName(date time.Time) (string, bool) {
	d := date.In(c.loc)
	key := d.Format(DateLayout)
	if name, ok := c.extra[key]; ok {
		return name, true
	}
	// Observed New Year's Day can land on Dec 31 of the previous year.
	for _, year := range []int{d.Year(), d.Year() + 1} {
		for _, h := range FederalHolidays(year) {
			if h.Date == key {
				return h.Name, true
			}
		}
	}
	return "", false
}

// NextWorkingDay returns the first working day strictly after date, at the same clock time.
func (c *Calendar) NextWorkingDay(date time.Time) time.Time {
	d := date.In(c.loc)
	for i := 0; i < maxLookahead; i++ {
		d = d.AddDate(0, 0, 1)
		if c.IsWorkingDay(d) {
			return d
		}
	}
	return d
}

// Holidays lists federal and extra holidays for a year, sorted by date.
func (c *Calendar) Holidays(year int) []Holiday {
	out := FederalHolidays(year)
	prefix := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-")
	for date, name := range c.extra {
		if len(date) >= len(prefix) && date[:len(prefix)] == prefix {
			out = append(out, Holiday{Date: date, Name: name})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// FederalHolidays computes the ten US federal holidays for a year. Fixed-date
// holidays that fall on a weekend also get an observed weekday entry.
func FederalHolidays(year int) []Holiday {
	var out []Holiday
	fixed := func(month time.Month, day int, name string) {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		out = append(out, Holiday{Date: d.Format(DateLayout), Name: name})
		switch d.Weekday() {
		case time.Saturday:
			out = append(out, Holiday{Date: d.AddDate(0, 0, -1).Format(DateLayout), Name: name + " (observed)"})
		case time.Sunday:
			out = append(out, Holiday{Date: d.AddDate(0, 0, 1).Format(DateLayout), Name: name + " (observed)"})
		}
	}
	floating := func(month time.Month, weekday time.Weekday, n int, name string) {
		out = append(out, Holiday{Date: nthWeekday(year, month, weekday, n).Format(DateLayout), Name: name})
	}

	fixed(time.January, 1, "New Year's Day")
	floating(time.January, time.Monday, 3, "Martin Luther King Jr. Day")
	floating(time.February, time.Monday, 3, "Presidents' Day")
	floating(time.May, time.Monday, -1, "Memorial Day")
	fixed(time.July, 4, "Independence Day")
	floating(time.September, time.Monday, 1, "Labor Day")
	floating(time.October, time.Monday, 2, "Columbus Day")
	fixed(time.November, 11, "Veterans Day")
	floating(time.November, time.Thursday, 4, "Thanksgiving Day")
	fixed(time.December, 25, "Christmas Day")

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// nthWeekday finds the nth weekday of a month; n = -1 means the last one.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	if n < 0 {
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		offset := (int(last.Weekday()) - int(weekday) + 7) % 7
		return last.AddDate(0, 0, -offset)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+7*(n-1))
}
