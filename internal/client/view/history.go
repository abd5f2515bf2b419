// Package view transforms raw server collections into display-ready
// sequences: the date-bucketed history list with its text filter, and the
// flat contacts grid. No I/O happens here.
package view

import (
	"strings"
	"time"

	"github.com/palmlink/palmlink/internal/models"
)

// TimeLayout is the backend's scan-timestamp wire layout.
const TimeLayout = models.TimeScannedLayout

// DisplayLayout is the human-facing date format for history rows.
const DisplayLayout = "Monday, Jan 02 2006"

// Bucket names a date group in the history list.
type Bucket string

const (
	BucketToday     Bucket = "Today"
	BucketYesterday Bucket = "Yesterday"
	BucketOlder     Bucket = "Older"
)

// Row is one display row: either a bucket header or a history item.
type Row struct {
	// Header is non-empty for header rows.
	Header Bucket
	// Item is set for item rows.
	Item *models.HistoryItem
}

// IsHeader reports whether the row is a bucket header.
func (r Row) IsHeader() bool { return r.Header != "" }

// HistoryList owns the secondary, display-ready form of the history feed.
// Both bucketing and filtering recompute the full row list on every change;
// history screens are small enough that incremental updates buy nothing.
type HistoryList struct {
	now func() time.Time

	items []models.HistoryItem
	query string
	rows  []Row
}

// NewHistoryList builds an empty list. now supplies the reference time for
// bucket computation; tests inject a fixed clock.
func NewHistoryList(now func() time.Time) *HistoryList {
	if now == nil {
		now = time.Now
	}
	return &HistoryList{now: now}
}

// SetItems replaces the backing items and recomputes the rows, keeping the
// current filter applied.
func (l *HistoryList) SetItems(items []models.HistoryItem) {
	l.items = items
	l.recompute()
}

// Filter applies a case-insensitive match on the profile name. Headers are
// always retained, even when every item under them is filtered out.
func (l *HistoryList) Filter(query string) {
	l.query = query
	l.recompute()
}

// Rows returns the current display rows.
func (l *HistoryList) Rows() []Row {
	return l.rows
}

func (l *HistoryList) recompute() {
	bucketed := bucketRows(l.items, l.now())
	if l.query == "" {
		l.rows = bucketed
		return
	}

	needle := strings.ToLower(l.query)
	filtered := make([]Row, 0, len(bucketed))
	for _, row := range bucketed {
		if row.IsHeader() || strings.Contains(strings.ToLower(row.Item.Profile.Name), needle) {
			filtered = append(filtered, row)
		}
	}
	l.rows = filtered
}

// bucketRows partitions items into today / yesterday / older, in that order,
// each non-empty bucket preceded by its header. Input order is preserved
// within a bucket.
func bucketRows(items []models.HistoryItem, now time.Time) []Row {
	groups := map[Bucket][]*models.HistoryItem{}
	for i := range items {
		b := BucketFor(items[i].TimeScanned, now)
		groups[b] = append(groups[b], &items[i])
	}

	var rows []Row
	for _, b := range []Bucket{BucketToday, BucketYesterday, BucketOlder} {
		members := groups[b]
		if len(members) == 0 {
			continue
		}
		rows = append(rows, Row{Header: b})
		for _, item := range members {
			rows = append(rows, Row{Item: item})
		}
	}
	return rows
}

// BucketFor assigns one timestamp to its bucket relative to now. Same
// calendar day is today, exactly one calendar day earlier is yesterday,
// everything else, including unparseable timestamps, is older.
func BucketFor(timeScanned string, now time.Time) Bucket {
	ts, err := time.ParseInLocation(TimeLayout, timeScanned, now.Location())
	if err != nil {
		return BucketOlder
	}
	switch {
	case sameDay(ts, now):
		return BucketToday
	case sameDay(ts, now.AddDate(0, 0, -1)):
		return BucketYesterday
	default:
		return BucketOlder
	}
}

// FormatScanDate renders a scan timestamp for display, falling back to the
// raw value when it does not parse.
func FormatScanDate(timeScanned string) string {
	ts, err := time.Parse(TimeLayout, timeScanned)
	if err != nil {
		return timeScanned
	}
	return ts.Format(DisplayLayout)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
