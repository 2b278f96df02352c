package domain

import (
	"net/url"
	"time"
)

// CalendarLinks holds add-to-calendar deep links embedded in registration
// emails.
type CalendarLinks struct {
	Google  string
	Outlook string
}

// NewCalendarLinks builds Google and Outlook calendar links for an event
// window.
func NewCalendarLinks(title, description string, start, end time.Time, location string) CalendarLinks {
	googleFormat := func(t time.Time) string {
		return t.UTC().Format("20060102T150405Z")
	}

	googleParams := url.Values{}
	googleParams.Set("action", "TEMPLATE")
	googleParams.Set("text", title)
	googleParams.Set("dates", googleFormat(start)+"/"+googleFormat(end))
	googleParams.Set("details", description)
	googleParams.Set("location", location)

	outlookParams := url.Values{}
	outlookParams.Set("subject", title)
	outlookParams.Set("body", description)
	outlookParams.Set("startdt", start.UTC().Format(time.RFC3339))
	outlookParams.Set("enddt", end.UTC().Format(time.RFC3339))
	outlookParams.Set("location", location)

	return CalendarLinks{
		Google:  "https://calendar.google.com/calendar/render?" + googleParams.Encode(),
		Outlook: "https://outlook.live.com/calendar/0/deeplink/compose?" + outlookParams.Encode(),
	}
}
