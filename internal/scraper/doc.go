// Package scraper provides HTTP fetching and HTML parsing for the registrar's
// academic calendar page.
//
// The page is fetched once per run with an academic_year query parameter. Every
// table whose header mentions Date, Day and Event is scanned row by row; each
// row's date cell is interpreted by an event.DateParser shared across all tables,
// and rows whose date cannot be parsed are logged at debug level and dropped.
package scraper
