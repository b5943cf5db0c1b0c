// ABOUTME: Tests for the Google holiday importer
// ABOUTME: Uses a fake event lister to exercise paging, filtering and storage
package sync

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/harperreed/speedrun/db"
)

type fakeLister struct {
	pages map[string]*calendar.Events
	calls int
	err   error
}

func (f *fakeLister) ListEvents(_ context.Context, calendarID string, timeMin, timeMax time.Time, pageToken string) (*calendar.Events, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[pageToken], nil
}

func allDay(date, summary string) *calendar.Event {
	return &calendar.Event{Summary: summary, Start: &calendar.EventDateTime{Date: date}}
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func twoPages() *fakeLister {
	return &fakeLister{pages: map[string]*calendar.Events{
		"": {
			Items: []*calendar.Event{
				allDay("2026-01-01", "New Year's Day"),
				{Summary: "Observance", Start: &calendar.EventDateTime{Date: "2026-02-14"}, Description: "Observance\nTo hide observances, go to Google Calendar Settings"},
				{Summary: "Timed", Start: &calendar.EventDateTime{DateTime: "2026-03-01T10:00:00Z"}},
				nil,
			},
			NextPageToken: "p2",
		},
		"p2": {
			Items: []*calendar.Event{
				allDay("2026-11-27", "Day after Thanksgiving"),
				allDay("2026-11-27", "Day after Thanksgiving"),
				{Summary: "Cancelled", Status: "cancelled", Start: &calendar.EventDateTime{Date: "2026-12-01"}},
				{Summary: "No start"},
			},
		},
	}}
}

func TestShouldSkipEvent(t *testing.T) {
	skip, _ := shouldSkipEvent(allDay("2026-07-03", "Independence Day (observed)"))
	assert.False(t, skip)

	skip, reason := shouldSkipEvent(&calendar.Event{Start: &calendar.EventDateTime{DateTime: "2026-07-03T09:00:00Z"}})
	assert.True(t, skip)
	assert.Equal(t, "timed event", reason)

	skip, reason = shouldSkipEvent(nil)
	assert.True(t, skip)
	assert.Equal(t, "nil event", reason)
}

func TestFetchHolidaysPagesAndFilters(t *testing.T) {
	lister := twoPages()

	holidays, err := FetchHolidays(context.Background(), lister, USHolidayCalendarID, 2026, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
	require.Len(t, holidays, 2)
	assert.Equal(t, "2026-01-01", holidays[0].Date)
	assert.Equal(t, "Day after Thanksgiving", holidays[1].Name)
}

func TestFetchHolidaysError(t *testing.T) {
	lister := &fakeLister{err: errors.New("boom")}
	_, err := FetchHolidays(context.Background(), lister, USHolidayCalendarID, 2026, testLogger())
	assert.Error(t, err)
}

func TestImportHolidaysStoresRows(t *testing.T) {
	database, err := db.OpenDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	saved, err := ImportHolidays(context.Background(), database, twoPages(), "", 2026, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	stored, err := db.ListHolidays(database, 2026)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
