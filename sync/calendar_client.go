// ABOUTME: Calendar API client setup for Google Calendar integration
// ABOUTME: Creates an authenticated Calendar service and lists events page by page
package sync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const maxResults = 250 // Google Calendar API max per page

// EventLister fetches one page of events from a calendar.
type EventLister interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, pageToken string) (*calendar.Events, error)
}

// CalendarClient lists events through the Google Calendar API.
type CalendarClient struct {
	service *calendar.Service
}

// NewCalendarClient creates a Google Calendar API client from an OAuth token.
func NewCalendarClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*CalendarClient, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{service: service}, nil
}

func (c *CalendarClient) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, pageToken string) (*calendar.Events, error) {
	call := c.service.Events.List(calendarID).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}
