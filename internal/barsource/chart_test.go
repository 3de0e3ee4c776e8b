package barsource

import (
	"testing"
	"time"

	"github.com/dhkim/tessa/internal/market"
)

func TestParseChartResponseJSON(t *testing.T) {
	body := `[["date","open","high","low","close","volume"],
		["20240115", 100.5, 102.0, 99.0, 101.5, 1500000],
		["20240116", 101.5, 103.0, 100.5, 102.0, 1200000]]`

	bars, err := parseChartResponse(body)
	if err != nil {
		t.Fatalf("parseChartResponse: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !bars[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", bars[0].Date, want)
	}
	if bars[0].Open != 100.5 || bars[0].Close != 101.5 || bars[0].Volume != 1500000 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
}

func TestParseChartResponseSingleQuotes(t *testing.T) {
	body := `[['20240115', 100, 102, 99, 101, 1000]]`
	bars, err := parseChartResponse(body)
	if err != nil {
		t.Fatalf("parseChartResponse: %v", err)
	}
	if len(bars) != 1 || bars[0].Close != 101 {
		t.Fatalf("unexpected bars: %+v", bars)
	}
}

func TestParseChartResponseRegexFallback(t *testing.T) {
	// Trailing garbage breaks the JSON decode but not the row scan.
	body := `{"rows": [["20240115", 100.0, 102.0, 99.0, 101.0, 1000]]}`
	bars, err := parseChartResponse(body)
	if err != nil {
		t.Fatalf("parseChartResponse: %v", err)
	}
	if len(bars) != 1 || bars[0].High != 102 {
		t.Fatalf("unexpected bars: %+v", bars)
	}
}

func TestParseChartResponseEmpty(t *testing.T) {
	for _, body := range []string{"[]", "not json at all", `[["header","only"]]`} {
		if _, err := parseChartResponse(body); err == nil {
			t.Errorf("body %q: expected error", body)
		}
	}
}

func TestParseChartRowsSkipsBadRows(t *testing.T) {
	rows := [][]interface{}{
		{"date", "open", "high", "low", "close", "volume"},
		{"20240115", "100.5", 102.0, 99.0, 101.5, "1500000"},
		{"not-a-date", 1.0, 2.0, 3.0, 4.0, 5.0},
		{"20240116", 101.5},
	}
	bars, err := parseChartRows(rows)
	if err != nil {
		t.Fatalf("parseChartRows: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if bars[0].Open != 100.5 || bars[0].Volume != 1500000 {
		t.Errorf("string cells not converted: %+v", bars[0])
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{100.5, 100.5},
		{int64(7), 7},
		{3, 3},
		{" 42.5 ", 42.5},
		{"junk", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := toFloat(tt.in); got != tt.want {
			t.Errorf("toFloat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseChartDate(t *testing.T) {
	got, err := parseChartDate(`"20240201"`)
	if err != nil {
		t.Fatalf("parseChartDate: %v", err)
	}
	if !got.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}
	if _, err := parseChartDate("2024013"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestSpanDays(t *testing.T) {
	tests := []struct {
		interval market.Interval
		limit    int
		want     int
	}{
		{market.Daily, 100, 154},
		{market.Weekly, 10, 70},
		{market.Monthly, 6, 186},
	}
	for _, tt := range tests {
		if got := spanDays(tt.interval, tt.limit); got != tt.want {
			t.Errorf("spanDays(%s, %d) = %d, want %d", tt.interval, tt.limit, got, tt.want)
		}
	}
}
