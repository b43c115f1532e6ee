package scraper

import (
	"aptwatcher/config"
	"aptwatcher/services/cache"
)

// NewStreetEasyScraper creates a scraper for StreetEasy rental search pages.
// StreetEasy's class names carry build hashes, so everything after the CSS
// module prefix is matched by substring.
func NewStreetEasyScraper(cfg config.Config, cacheSvc cache.CacheService) *ConfigurableScraper {
	return NewConfigurableScraper(ScraperConfig{
		URL:         cfg.SearchURL,
		CacheKey:    "streeteasy_rate_limited",
		BlockTime:   500,
		BaseURL:     cfg.BaseURL,
		Provider:    "StreetEasy",
		MaxListings: cfg.MaxListings,
		Selectors: Selectors{
			Containers: []ContainerStrategy{
				{Name: "listing-card-testid", Selector: "div[data-testid='listing-card']"},
				{Name: "card-container-class", Selector: "div[class*='ListingCard-module__cardContainer']"},
			},
			FeaturedTag:         "span[data-testid='tag-text']",
			FeaturedText:        "Featured",
			SponsoredTag:        "p[class*='ImageContainerFooter-module__sponsoredTag']",
			AddressLink:         "a[class*='ListingDescription-module__addressTextAction']",
			AddressLinkFallback: "a[href*='/building/']",
			Price:               "span[class*='PriceInfo-module__price']",
			Title:               "p[class*='ListingDescription-module__title']",
			BedsBaths:           "span[class*='BedsBathsSqft-module__text']",
		},
	}, cacheSvc)
}
