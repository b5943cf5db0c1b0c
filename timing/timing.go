// ABOUTME: Resolves abstract urgency levels into calendar-aware timing labels
// ABOUTME: Applies business hours, weekend and holiday overrides, and queue-position rules
package timing

import (
	"time"

	"github.com/harperreed/speedrun/calendar"
	"github.com/harperreed/speedrun/models"
)

// Business hours, local time, [start, end).
const (
	BusinessStartHour = 8
	BusinessEndHour   = 18
)

// DefaultTimezone is used when no user timezone is configured.
const DefaultTimezone = "America/New_York"

// Resolver turns urgency into labels for one user's calendar and timezone.
type Resolver struct {
	cal *calendar.Calendar
	loc *time.Location
}

// New creates a resolver that evaluates "now" in the calendar's location.
func New(cal *calendar.Calendar) *Resolver {
	return &Resolver{cal: cal, loc: cal.Location()}
}

// Resolve renders the timing for an urgency level.
func (r *Resolver) Resolve(level models.Urgency, now time.Time) models.Timing {
	local := now.In(r.loc)
	if t, ok := r.override(level, local); ok {
		return t
	}

	var label string
	switch level {
	case models.UrgencyImmediate:
		label = "Today"
		if IsBusinessHours(local) {
			label = "Now"
		}
	case models.UrgencyUrgent:
		label = "Today"
		if local.Hour() < BusinessStartHour {
			label = "This Morning"
		}
	case models.UrgencySoon:
		label = "This Week"
	case models.UrgencyRoutine:
		label = "Next Week"
	default:
		level = models.UrgencyFuture
		label = "One Month"
	}
	return pill(label, level)
}

// ResolveQueue renders position-relative timing for queue views: the head of
// the queue is "Now", everything behind it is "Today".
func (r *Resolver) ResolveQueue(position int, now time.Time) models.Timing {
	level := models.UrgencyUrgent
	label := "Today"
	if position == 0 {
		level = models.UrgencyImmediate
		label = "Now"
	}

	local := now.In(r.loc)
	if t, ok := r.override(level, local); ok {
		return t
	}
	return pill(label, level)
}

// override names the next working day when today or tomorrow is off.
func (r *Resolver) override(level models.Urgency, local time.Time) (models.Timing, bool) {
	if r.cal.IsWorkingDay(local) && r.cal.IsWorkingDay(local.AddDate(0, 0, 1)) {
		return models.Timing{}, false
	}
	next := r.cal.NextWorkingDay(local)
	if level.Severity() < models.UrgencySoon.Severity() {
		level = models.UrgencySoon
	}
	return pill(next.Weekday().String(), level), true
}

// IsBusinessHours reports whether local falls inside business hours.
func IsBusinessHours(local time.Time) bool {
	h := local.Hour()
	return h >= BusinessStartHour && h < BusinessEndHour
}

// Color maps an urgency tier to its presentation class.
func Color(level models.Urgency) string {
	switch level {
	case models.UrgencyImmediate:
		return models.ColorRed
	case models.UrgencyUrgent:
		return models.ColorOrange
	case models.UrgencySoon:
		return models.ColorYellow
	case models.UrgencyRoutine:
		return models.ColorBlue
	default:
		return models.ColorGray
	}
}

func pill(label string, level models.Urgency) models.Timing {
	return models.Timing{Label: label, Tier: string(level), Color: Color(level)}
}
