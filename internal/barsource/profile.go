package barsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dhkim/tessa/pkg/redis"
)

// Profile is the descriptive header shown next to an analysis.
type Profile struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"market_cap"`
}

// FetchProfile scrapes the symbol's profile page. Profiles change rarely, so
// they cache with the long TTL.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (*Profile, error) {
	if c.cache != nil {
		var cached Profile
		if found, _ := c.cache.Get(ctx, redis.SymbolInfoKey(symbol), &cached); found {
			return &cached, nil
		}
	}

	fullURL := fmt.Sprintf("%s/profile?symbol=%s", c.cfg.BaseURL, symbol)
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

	profile, err := parseProfileHTML(string(body), symbol)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.SymbolInfoKey(symbol), profile, redis.TTLLong)
	}
	return profile, nil
}

// parseProfileHTML extracts the name heading and the key/value summary table.
func parseProfileHTML(html, symbol string) (*Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	p := &Profile{Symbol: symbol}
	p.Name = strings.TrimSpace(doc.Find("h1.symbol-name").First().Text())
	if p.Name == "" {
		p.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find("table.summary tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("th").First().Text())
		value := strings.TrimSpace(row.Find("td").First().Text())
		switch strings.ToLower(label) {
		case "industry", "sector":
			p.Industry = value
		case "market cap":
			p.MarketCap = parseCompactNumber(value)
		}
	})

	if p.Name == "" {
		return nil, fmt.Errorf("profile page missing name for %s", symbol)
	}
	return p, nil
}

// parseCompactNumber reads values like "1,234.5M" or "2.1B".
func parseCompactNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	mult := 1.0
	switch s[len(s)-1] {
	case 'K', 'k':
		mult, s = 1e3, s[:len(s)-1]
	case 'M', 'm':
		mult, s = 1e6, s[:len(s)-1]
	case 'B', 'b':
		mult, s = 1e9, s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f * mult
}
