package view

import (
	"testing"
	"time"

	"github.com/palmlink/palmlink/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
}

func item(name, ts string) models.HistoryItem {
	return models.HistoryItem{
		TimeScanned: ts,
		Profile:     models.ScannedProfile{Name: name},
	}
}

func TestBucketFor_Boundaries(t *testing.T) {
	now := fixedNow()
	cases := []struct {
		ts   string
		want Bucket
	}{
		{"2024-06-10T23:59:59", BucketToday},
		{"2024-06-10T00:00:00", BucketToday},
		{"2024-06-09T00:00:01", BucketYesterday},
		{"2024-06-09T23:59:59", BucketYesterday},
		{"2024-06-08T23:59:59", BucketOlder},
		{"2024-06-01T00:00:00", BucketOlder},
		{"not-a-timestamp", BucketOlder},
	}
	for _, tc := range cases {
		if got := BucketFor(tc.ts, now); got != tc.want {
			t.Errorf("BucketFor(%q) = %v; want %v", tc.ts, got, tc.want)
		}
	}
}

func TestRows_BucketOrderAndHeaders(t *testing.T) {
	l := NewHistoryList(fixedNow)
	l.SetItems([]models.HistoryItem{
		item("carol", "2024-06-01T00:00:00"),
		item("ann", "2024-06-10T08:00:00"),
		item("bob", "2024-06-09T12:00:00"),
		item("dan", "2024-06-10T07:30:00"),
	})

	rows := l.Rows()
	var got []string
	for _, r := range rows {
		if r.IsHeader() {
			got = append(got, "#"+string(r.Header))
		} else {
			got = append(got, r.Item.Profile.Name)
		}
	}

	want := []string{"#Today", "ann", "dan", "#Yesterday", "bob", "#Older", "carol"}
	if len(got) != len(want) {
		t.Fatalf("rows = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v; want %v", got, want)
		}
	}
}

func TestRows_EmptyBucketsGetNoHeader(t *testing.T) {
	l := NewHistoryList(fixedNow)
	l.SetItems([]models.HistoryItem{
		item("ann", "2024-06-10T08:00:00"),
	})

	rows := l.Rows()
	if len(rows) != 2 || rows[0].Header != BucketToday {
		t.Errorf("rows = %+v; want only the Today header and its item", rows)
	}
}

func TestFilter_CaseInsensitiveOnNameKeepsHeaders(t *testing.T) {
	l := NewHistoryList(fixedNow)
	l.SetItems([]models.HistoryItem{
		item("Annika", "2024-06-10T08:00:00"),
		item("bob", "2024-06-10T07:00:00"),
		item("JOHANN", "2024-06-09T12:00:00"),
		item("carol", "2024-06-01T00:00:00"),
	})

	l.Filter("ann")

	rows := l.Rows()
	headers, names := 0, []string{}
	for _, r := range rows {
		if r.IsHeader() {
			headers++
		} else {
			names = append(names, r.Item.Profile.Name)
		}
	}
	// All three headers survive even though Older lost all its items.
	if headers != 3 {
		t.Errorf("headers = %d; want 3 (headers retained regardless of filter)", headers)
	}
	if len(names) != 2 || names[0] != "Annika" || names[1] != "JOHANN" {
		t.Errorf("names = %v; want [Annika JOHANN]", names)
	}
}

func TestFilter_ClearRestoresAllRows(t *testing.T) {
	l := NewHistoryList(fixedNow)
	l.SetItems([]models.HistoryItem{
		item("ann", "2024-06-10T08:00:00"),
		item("bob", "2024-06-10T07:00:00"),
	})

	l.Filter("ann")
	l.Filter("")

	rows := l.Rows()
	if len(rows) != 3 {
		t.Errorf("rows = %+v; want header plus both items", rows)
	}
}

func TestFormatScanDate(t *testing.T) {
	if got := FormatScanDate("2024-06-10T09:00:00"); got != "Monday, Jun 10 2024" {
		t.Errorf("FormatScanDate = %q", got)
	}
	if got := FormatScanDate("garbage"); got != "garbage" {
		t.Errorf("unparseable timestamps render raw; got %q", got)
	}
}
