package scraper

import (
	"fmt"
	"io"
	"strings"
	"time"

	"aptwatcher/helpers"
	"aptwatcher/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// BaseScraper provides common functionality for all scrapers
type BaseScraper struct {
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	BaseURL   string
	Provider  string
}

// fetchWithCache fetches a URL with rate-limit blocking. A block key in the
// cache means a previous run was rate limited and the block has not expired.
func (c *BaseScraper) fetchWithCache() (io.Reader, error) {
	if c.CacheSvc != nil && c.CacheKey != "" {
		_, err := c.CacheSvc.Get(c.CacheKey)
		if err == nil {
			return nil, fmt.Errorf("%s: blocked for %d more seconds after rate limiting", c.CacheKey, c.BlockTime/time.Second)
		}
	}

	utf8Body, err := helpers.FetchWithRandomHeaders(c.URL)
	if err != nil {
		if c.CacheSvc != nil && c.CacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			if setErr := c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", c.BlockTime/time.Second)), c.BlockTime); setErr != nil {
				return nil, setErr
			}
		}
		return nil, err
	}

	return utf8Body, nil
}

// createDocument creates a goquery document from a reader
func (c *BaseScraper) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %v", err)
	}
	return doc, nil
}

// ResolveURL makes a listing href absolute against the scraper's base URL
func (c *BaseScraper) ResolveURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(c.BaseURL, "/") + href
	}
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + href
}

// GetName returns the scraper's name
func (c *BaseScraper) GetName() string {
	return c.Provider + "Scraper"
}

// GetProvider returns the provider name
func (c *BaseScraper) GetProvider() string {
	return c.Provider
}
