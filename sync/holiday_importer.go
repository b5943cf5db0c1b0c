// ABOUTME: Public holiday importer from Google Calendar
// ABOUTME: Pages through the US holiday calendar and stores all-day public holidays
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/api/calendar/v3"

	workcal "github.com/harperreed/speedrun/calendar"
	"github.com/harperreed/speedrun/db"
)

const (
	// USHolidayCalendarID is Google's public calendar of US holidays.
	USHolidayCalendarID = "en.usa#holiday@group.v.calendar.google.com"

	// HolidaySource tags rows written by this importer.
	HolidaySource = "google"
)

// shouldSkipEvent determines if an event should be skipped during import
// Returns (true, reason) if the event should be skipped, (false, "") otherwise
func shouldSkipEvent(event *calendar.Event) (bool, string) {
	if event == nil {
		return true, "nil event"
	}
	if event.Start == nil {
		return true, "missing start time"
	}
	if event.Status == "cancelled" {
		return true, "cancelled"
	}
	// Holidays are all-day events; timed entries are not days off.
	if event.Start.Date == "" {
		return true, "timed event"
	}
	// Google marks days like Valentine's Day as observances, not public holidays.
	if strings.HasPrefix(strings.TrimSpace(event.Description), "Observance") {
		return true, "observance"
	}
	return false, ""
}

// FetchHolidays lists the public holidays of year from calendarID.
func FetchHolidays(ctx context.Context, lister EventLister, calendarID string, year int, logger *log.Logger) ([]workcal.Holiday, error) {
	timeMin := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	timeMax := timeMin.AddDate(1, 0, 0)

	var holidays []workcal.Holiday
	seen := make(map[string]bool)
	skipCounts := make(map[string]int)
	pageToken := ""

	for page := 1; ; page++ {
		events, err := lister.ListEvents(ctx, calendarID, timeMin, timeMax, pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch holiday events: %w", err)
		}
		logger.Debug("fetched holiday page", "page", page, "events", len(events.Items))

		for _, event := range events.Items {
			if skip, reason := shouldSkipEvent(event); skip {
				skipCounts[reason]++
				continue
			}
			date := event.Start.Date
			if _, err := time.Parse(workcal.DateLayout, date); err != nil {
				skipCounts["bad date"]++
				continue
			}
			if seen[date] {
				skipCounts["duplicate"]++
				continue
			}
			seen[date] = true
			holidays = append(holidays, workcal.Holiday{Date: date, Name: event.Summary})
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	for reason, count := range skipCounts {
		logger.Debug("skipped holiday events", "reason", reason, "count", count)
	}
	return holidays, nil
}

// ImportHolidays fetches a year of public holidays from calendarID and stores them.
// An empty calendarID means the US holiday calendar.
func ImportHolidays(ctx context.Context, database *sql.DB, lister EventLister, calendarID string, year int, logger *log.Logger) (int, error) {
	if calendarID == "" {
		calendarID = USHolidayCalendarID
	}
	logger.Info("syncing holidays", "year", year, "calendar", calendarID)

	holidays, err := FetchHolidays(ctx, lister, calendarID, year, logger)
	if err != nil {
		return 0, err
	}

	saved, err := db.SaveHolidays(database, HolidaySource, holidays)
	if err != nil {
		return 0, fmt.Errorf("failed to save holidays: %w", err)
	}

	logger.Info("holidays synced", "year", year, "saved", saved)
	return saved, nil
}
