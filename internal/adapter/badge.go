package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// BadgeClient fetches a rendered coverage badge image.
type BadgeClient interface {
	Fetch(ctx context.Context, label string, coverage float64) ([]byte, error)
}

// ShieldsClient renders badges through a shields.io style endpoint.
type ShieldsClient struct {
	base   string
	client *http.Client
}

// NewShieldsClient creates a ShieldsClient against base (e.g.
// https://img.shields.io).
func NewShieldsClient(base string) *ShieldsClient {
	return &ShieldsClient{
		base:   strings.TrimSuffix(base, "/"),
		client: http.DefaultClient,
	}
}

// BadgeColor maps a coverage percentage to a badge color. Thresholds are
// checked in ascending order; the first match wins.
func BadgeColor(coverage float64) string {
	switch {
	case coverage < 50:
		return "red"
	case coverage < 75:
		return "orange"
	case coverage < 95:
		return "yellow"
	default:
		return "green"
	}
}

// shieldsEscape applies the static badge escaping rules: dashes and
// underscores double themselves, spaces become underscores.
func shieldsEscape(s string) string {
	s = strings.ReplaceAll(s, "-", "--")
	s = strings.ReplaceAll(s, "_", "__")

	return strings.ReplaceAll(s, " ", "_")
}

// Fetch downloads the badge SVG for label at the given coverage percentage.
func (c *ShieldsClient) Fetch(ctx context.Context, label string, coverage float64) ([]byte, error) {
	value := strconv.FormatFloat(coverage, 'f', -1, 64)
	url := fmt.Sprintf("%s/badge/%s-%s%%25-%s.svg", c.base, shieldsEscape(label), shieldsEscape(value), BadgeColor(coverage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build badge request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch badge %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch badge %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read badge %s: %w", url, err)
	}

	return data, nil
}
