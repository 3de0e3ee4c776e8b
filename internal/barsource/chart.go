package barsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/pkg/redis"
)

// FetchBars fetches up to limit historical bars for a symbol. Results are
// cached per (symbol, interval, limit) when a cache is configured.
func (c *Client) FetchBars(ctx context.Context, symbol string, interval market.Interval, limit int) (market.History, error) {
	if limit <= 0 || limit > c.cfg.MaxBars {
		limit = c.cfg.MaxBars
	}

	if c.cache != nil {
		var cached market.History
		if found, _ := c.cache.Get(ctx, redis.BarsKey(symbol, string(interval), limit), &cached); found {
			return cached, nil
		}
	}

	end := time.Now()
	start := end.AddDate(0, 0, -spanDays(interval, limit))
	fullURL := fmt.Sprintf(
		"%s/chart?symbol=%s&interval=%s&start=%s&end=%s",
		c.cfg.BaseURL, symbol, interval,
		start.Format("20060102"), end.Format("20060102"),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	bars, err := parseChartResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}
	if len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.BarsKey(symbol, string(interval), limit), bars, c.cfg.CacheTTL)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched bars")
	return bars, nil
}

// spanDays estimates the calendar span needed to cover limit bars.
func spanDays(interval market.Interval, limit int) int {
	switch interval {
	case market.Weekly:
		return limit * 7
	case market.Monthly:
		return limit * 31
	default:
		// trading days run about 5 per 7
		return limit*7/5 + 14
	}
}

// parseChartResponse parses the provider's row-array payload:
// [["20240115", open, high, low, close, volume], ...] with an optional
// header row. Single-quoted pseudo-JSON is tolerated.
func parseChartResponse(body string) (market.History, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		return parseChartRows(rawData)
	}

	// Fallback to regex parsing
	return parseChartRegex(body)
}

func parseChartRows(rawData [][]interface{}) (market.History, error) {
	var bars market.History
	for _, row := range rawData {
		if len(row) < 6 {
			continue
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue // header row
		}
		date, err := parseChartDate(dateStr)
		if err != nil {
			continue
		}

		bars = append(bars, market.Bar{
			Date:   date,
			Open:   toFloat(row[1]),
			High:   toFloat(row[2]),
			Low:    toFloat(row[3]),
			Close:  toFloat(row[4]),
			Volume: toFloat(row[5]),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars in payload")
	}
	return bars, nil
}

var chartRowRe = regexp.MustCompile(`\["(\d{8})",\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+)\]`)

func parseChartRegex(body string) (market.History, error) {
	matches := chartRowRe.FindAllStringSubmatch(body, -1)

	var bars market.History
	for _, m := range matches {
		if len(m) < 7 {
			continue
		}
		date, err := parseChartDate(m[1])
		if err != nil {
			continue
		}

		open, _ := strconv.ParseFloat(m[2], 64)
		high, _ := strconv.ParseFloat(m[3], 64)
		low, _ := strconv.ParseFloat(m[4], 64)
		close, _ := strconv.ParseFloat(m[5], 64)
		volume, _ := strconv.ParseFloat(m[6], 64)

		bars = append(bars, market.Bar{
			Date: date, Open: open, High: high, Low: low, Close: close, Volume: volume,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars in payload")
	}
	return bars, nil
}

func parseChartDate(s string) (time.Time, error) {
	s = strings.Trim(s, "\"")
	if len(s) == 8 {
		s = s[:4] + "-" + s[4:6] + "-" + s[6:8]
	}
	return time.Parse("2006-01-02", s)
}

// toFloat converts the loosely typed row cells.
func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f
	default:
		return 0
	}
}
