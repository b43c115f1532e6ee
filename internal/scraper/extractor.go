package scraper

import (
	"io"
	"strings"
	"time"

	"aptwatcher/helpers"
	"aptwatcher/logger"
	"aptwatcher/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// ConfigurableScraper extracts listings from a search-results page using a
// declarative selector configuration
type ConfigurableScraper struct {
	BaseScraper
	Selectors   Selectors
	MaxListings int

	fetchFunc func() (io.Reader, error)
	log       *logger.Logger
}

// NewConfigurableScraper creates a new configurable scraper
func NewConfigurableScraper(config ScraperConfig, cacheSvc cache.CacheService) *ConfigurableScraper {
	maxListings := config.MaxListings
	if maxListings <= 0 {
		maxListings = 20
	}

	c := &ConfigurableScraper{
		BaseScraper: BaseScraper{
			URL:       config.URL,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: time.Duration(config.BlockTime) * time.Second,
			BaseURL:   config.BaseURL,
			Provider:  config.Provider,
		},
		Selectors:   config.Selectors,
		MaxListings: maxListings,
	}
	c.fetchFunc = c.fetchWithCache
	c.log = logger.ForScraper(c.GetName())

	return c
}

// FetchListings fetches the search page and extracts listings from it
func (c *ConfigurableScraper) FetchListings() ([]Listing, error) {
	utf8Body, err := c.fetchFunc()
	if err != nil {
		return nil, err
	}

	doc, err := c.createDocument(utf8Body)
	if err != nil {
		return nil, err
	}

	return c.Extract(doc), nil
}

// Extract extracts listings from a parsed document. Containers are processed
// in document order; a failure in one container only skips that container.
// Zero matching containers yields an empty slice, never an error.
func (c *ConfigurableScraper) Extract(doc *goquery.Document) []Listing {
	containers, strategy := c.findContainers(doc)
	if containers == nil || containers.Length() == 0 {
		c.log.Debug().Msg("No listing containers matched any strategy")
		return []Listing{}
	}

	c.log.Debug().
		Str("strategy", strategy).
		Int("containers", containers.Length()).
		Msg("Found listing containers")

	// Bound work and output size regardless of page length
	if containers.Length() > c.MaxListings {
		containers = containers.Slice(0, c.MaxListings)
	}

	listings := make([]Listing, 0, containers.Length())
	containers.Each(func(i int, s *goquery.Selection) {
		listing, err := c.processListing(s)
		if err != nil {
			c.log.Warn().
				Err(err).
				Int("container", i).
				Msg("Skipping listing container")
			return
		}
		if listing != nil {
			listings = append(listings, *listing)
		}
	})

	return listings
}

// findContainers tries each container strategy in priority order and returns
// the first non-empty match along with the strategy name
func (c *ConfigurableScraper) findContainers(doc *goquery.Document) (*goquery.Selection, string) {
	for _, strategy := range c.Selectors.Containers {
		if strategy.Selector == "" {
			continue
		}
		sel := doc.Find(strategy.Selector)
		if sel.Length() > 0 {
			return sel, strategy.Name
		}
	}
	return nil, ""
}

// excluded reports whether a container is a promoted card that should not be
// monitored. Rotating promotions would otherwise surface as false "new
// listing" signals.
func (c *ConfigurableScraper) excluded(s *goquery.Selection) bool {
	if c.Selectors.FeaturedTag != "" {
		tags := s.Find(c.Selectors.FeaturedTag)
		if c.Selectors.FeaturedText != "" {
			tags = tags.FilterFunction(func(_ int, t *goquery.Selection) bool {
				return strings.TrimSpace(t.Text()) == c.Selectors.FeaturedText
			})
		}
		if tags.Length() > 0 {
			return true
		}
	}

	if c.Selectors.SponsoredTag != "" && s.Find(c.Selectors.SponsoredTag).Length() > 0 {
		return true
	}

	return false
}

// processListing processes a single listing container. A nil listing with a
// nil error means the container was excluded or cannot identify a listing.
func (c *ConfigurableScraper) processListing(s *goquery.Selection) (*Listing, error) {
	if c.excluded(s) {
		c.log.Debug().Msg("Skipping featured or sponsored listing")
		return nil, nil
	}

	// The address anchor is mandatory: without it there is no URL and
	// therefore no identifier
	linkSel := s.Find(c.Selectors.AddressLink)
	if linkSel.Length() == 0 && c.Selectors.AddressLinkFallback != "" {
		linkSel = s.Find(c.Selectors.AddressLinkFallback)
	}
	if linkSel.Length() == 0 {
		c.log.Debug().Msg("Skipping container without an address link")
		return nil, nil
	}
	linkSel = linkSel.First()

	href, exists := linkSel.Attr("href")
	href = strings.TrimSpace(href)
	if !exists || href == "" {
		c.log.Debug().Msg("Skipping container with an empty address link")
		return nil, nil
	}
	link := c.ResolveURL(href)

	id, err := helpers.LastPathSegment(link)
	if err != nil {
		return nil, err
	}

	price := ""
	if c.Selectors.Price != "" {
		price = strings.TrimSpace(s.Find(c.Selectors.Price).First().Text())
	}
	if price == "" {
		price = PricePlaceholder
	}

	address := strings.TrimSpace(linkSel.Text())
	if address == "" {
		address = AddressPlaceholder
	}

	title := ""
	if c.Selectors.Title != "" {
		title = strings.TrimSpace(s.Find(c.Selectors.Title).First().Text())
	}
	if title == "" {
		title = address
	}

	if bedsBaths := c.bedsBathsText(s); bedsBaths != "" {
		title = title + c.titleSeparator() + bedsBaths
	}

	return &Listing{
		Id:       id,
		URL:      link,
		Title:    title,
		Price:    price,
		Address:  address,
		Provider: c.Provider,
	}, nil
}

// bedsBathsText joins all bed/bath descriptor texts in document order
func (c *ConfigurableScraper) bedsBathsText(s *goquery.Selection) string {
	if c.Selectors.BedsBaths == "" {
		return ""
	}

	var parts []string
	s.Find(c.Selectors.BedsBaths).Each(func(_ int, item *goquery.Selection) {
		if text := strings.TrimSpace(item.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, c.bedsBathsSeparator())
}

func (c *ConfigurableScraper) bedsBathsSeparator() string {
	if c.Selectors.BedsBathsSeparator != "" {
		return c.Selectors.BedsBathsSeparator
	}
	return " • "
}

func (c *ConfigurableScraper) titleSeparator() string {
	if c.Selectors.TitleSeparator != "" {
		return c.Selectors.TitleSeparator
	}
	return " - "
}
