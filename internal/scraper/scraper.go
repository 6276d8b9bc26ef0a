package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/rpi-planner-data/internal/config"
	"github.com/pfrederiksen/rpi-planner-data/internal/event"
	"github.com/pfrederiksen/rpi-planner-data/internal/logger"
)

// Header cells a table must mention to be treated as a calendar table.
var calendarHeaders = []string{"Date", "Day", "Event"}

// Scraper fetches and parses the registrar's academic calendar page
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
	log       *logger.Logger
	metrics   *logger.Metrics
	now       func() time.Time
}

// Option customizes a Scraper
type Option func(*Scraper)

// WithURL overrides the calendar page URL.
func WithURL(u string) Option {
	return func(s *Scraper) { s.url = u }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) { s.userAgent = ua }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithLogger sets the logger used for row-level diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// WithMetrics sets the tracker receiving row counters and fetch timing.
func WithMetrics(m *logger.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New creates a Scraper for the default registrar URL
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:    &http.Client{Timeout: config.DefaultTimeout},
		url:       config.DefaultSourceURL,
		userAgent: config.DefaultUserAgent,
		log:       logger.Default(),
		metrics:   logger.DefaultMetrics(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SourceURL returns the calendar page URL without query parameters.
func (s *Scraper) SourceURL() string {
	return s.url
}

// Scrape fetches the calendar for the two-digit academic year yy and builds the
// output document. Transport errors and non-2xx responses are returned as is;
// there is no retry.
func (s *Scraper) Scrape(ctx context.Context, yy int) (*event.Document, error) {
	body, err := s.FetchHTML(ctx, yy)
	if err != nil {
		return nil, err
	}

	year := event.NewAcademicYear(yy)
	events, err := s.parseCalendar(bytes.NewReader(body), year)
	if err != nil {
		return nil, err
	}

	return event.NewDocument(s.url, year, s.now(), events), nil
}

// FetchHTML issues a single GET for the calendar page with academic_year=<yy>.
func (s *Scraper) FetchHTML(ctx context.Context, yy int) ([]byte, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("parsing source URL: %w", err)
	}
	q := u.Query()
	q.Set("academic_year", fmt.Sprintf("%02d", yy))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	s.metrics.RecordTiming("calendar.fetch", time.Since(start))

	s.log.Debug("fetched calendar page", logger.Fields{
		"url":   u.String(),
		"bytes": len(body),
	}, nil)
	return body, nil
}

// parseCalendar extracts events from every calendar table, in table then row order.
// A page without calendar tables yields no events and no error.
func (s *Scraper) parseCalendar(r io.Reader, year event.AcademicYear) ([]event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	events := make([]event.Event, 0)

	tables := findCalendarTables(doc.Selection)
	s.metrics.AddCounter("calendar.tables", int64(tables.Length()))
	if tables.Length() == 0 {
		title := strings.TrimSpace(doc.Find("title").First().Text())
		if title == "" {
			title = "N/A"
		}
		s.log.Debug("no matching calendar tables found", logger.Fields{"html_title": title}, nil)
		return events, nil
	}

	parser := event.NewDateParser(year)

	tables.Each(func(_ int, tbl *goquery.Selection) {
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			s.metrics.IncrCounter("calendar.rows_seen")

			var cells []string
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				cells = append(cells, cellText(td))
			})

			evt, ok, err := rowEvent(parser, cells)
			if err != nil {
				s.metrics.IncrCounter("calendar.rows_skipped")
				s.log.Debug("skipping row due to date parse error", logger.Fields{
					"date":  cells[0],
					"event": cells[2],
				}, err)
				return
			}
			if !ok {
				return
			}
			events = append(events, evt)
		})
	})

	s.metrics.AddCounter("calendar.events", int64(len(events)))
	return events, nil
}

// findCalendarTables keeps tables whose concatenated <th> text mentions every
// calendar header. The match is case-sensitive.
func findCalendarTables(root *goquery.Selection) *goquery.Selection {
	return root.Find("table").FilterFunction(func(_ int, tbl *goquery.Selection) bool {
		var headers []string
		tbl.Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, cellText(th))
		})
		text := strings.Join(headers, " ")
		for _, h := range calendarHeaders {
			if !strings.Contains(text, h) {
				return false
			}
		}
		return true
	})
}

// rowEvent converts the text cells of one row (Date | Day | Event). ok is false for
// rows that are not events: fewer than three cells, or a blank date or title.
// A non-nil error means the date cell could not be parsed.
func rowEvent(p *event.DateParser, cells []string) (evt event.Event, ok bool, err error) {
	if len(cells) < 3 {
		return evt, false, nil
	}

	date, title := cells[0], cells[2]
	if date == "" || title == "" {
		return evt, false, nil
	}

	start, end, err := p.Parse(date)
	if err != nil {
		return evt, false, err
	}

	return event.NewEvent(title, start, end, event.NormalizeDOW(cells[1])), true, nil
}

// cellText joins the trimmed text nodes under sel with single spaces, so
// "<td>Sep<br>1</td>" reads as "Sep 1".
func cellText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if t := strings.TrimSpace(c.Text()); t != "" {
					parts = append(parts, t)
				}
				return
			}
			walk(c)
		})
	}
	walk(sel)
	return event.NormalizeSpace(strings.Join(parts, " "))
}
