package iogeo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"slices"
	"strings"
)

var hrefRe = regexp.MustCompile(`href=["']([^"']+)["']`)

// listFiles returns names of files from an HTML directory listing at url
// that satisfy match. Parent links and subdirectories are skipped. Names
// are returned sorted and without duplicates.
func (g *geoFetcher) listFiles(
	ctx context.Context,
	url string,
	match func(string) bool,
) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch directory listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch directory listing: status %d",
			resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory listing: %w", err)
	}

	var res []string
	for _, m := range hrefRe.FindAllStringSubmatch(string(body), -1) {
		if len(m) < 2 {
			continue
		}
		href := m[1]
		if href == "../" || strings.HasSuffix(href, "/") ||
			strings.HasPrefix(href, "?") {
			continue
		}
		name := path.Base(href)
		if match(name) && !slices.Contains(res, name) {
			res = append(res, name)
		}
	}
	slices.Sort(res)
	return res, nil
}
