// Package calendar exports academic calendar documents as iCalendar (.ics) feeds
// so the scraped dates can be subscribed to from ordinary calendar apps.
package calendar
