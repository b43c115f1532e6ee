package scraper

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
)

// mockCacheService is a mock implementation of cache.CacheService for testing
type mockCacheService struct {
	data map[string][]byte
}

func newMockCacheService() *mockCacheService {
	return &mockCacheService{
		data: make(map[string][]byte),
	}
}

func (m *mockCacheService) Get(key string) ([]byte, error) {
	if data, ok := m.data[key]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("cache miss")
}

func (m *mockCacheService) Set(key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCacheService) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func newTestScraper(t *testing.T) *ConfigurableScraper {
	t.Helper()
	return NewConfigurableScraper(ScraperConfig{
		URL:       "https://example.com/search",
		CacheKey:  "test_rate_limited",
		BlockTime: 500,
		BaseURL:   "https://example.com",
		Provider:  "Test",
		Selectors: Selectors{
			Containers: []ContainerStrategy{
				{Name: "testid", Selector: "div[data-testid='listing-card']"},
				{Name: "class-pattern", Selector: "div[class*='ListingCard-module__cardContainer']"},
			},
			FeaturedTag:         "span[data-testid='tag-text']",
			FeaturedText:        "Featured",
			SponsoredTag:        "p[class*='sponsoredTag']",
			AddressLink:         "a[class*='addressTextAction']",
			AddressLinkFallback: "a[href*='/building/']",
			Price:               "span[class*='PriceInfo-module__price']",
			Title:               "p[class*='ListingDescription-module__title']",
			BedsBaths:           "span[class*='BedsBathsSqft-module__text']",
		},
	}, newMockCacheService())
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	assert.NoError(t, err)
	return doc
}

func card(id, price, title, bedsBaths string) string {
	var b strings.Builder
	b.WriteString(`<div data-testid="listing-card">`)
	if price != "" {
		b.WriteString(`<span class="PriceInfo-module__price_abc123">` + price + `</span>`)
	}
	if title != "" {
		b.WriteString(`<p class="ListingDescription-module__title_abc123">` + title + `</p>`)
	}
	if bedsBaths != "" {
		for _, part := range strings.Split(bedsBaths, "|") {
			b.WriteString(`<span class="BedsBathsSqft-module__text_abc123">` + part + `</span>`)
		}
	}
	b.WriteString(`<a class="addressTextAction_abc" href="/building/51-1-avenue-new_york/` + id + `">51 1st Avenue #` + id + `</a>`)
	b.WriteString(`</div>`)
	return b.String()
}

func TestExtract_BasicListing(t *testing.T) {
	s := newTestScraper(t)
	doc := parseDoc(t, "<html><body>"+card("9", "$3,200", "East Village", "2 Beds|1 Bath")+"</body></html>")

	listings := s.Extract(doc)
	assert.Len(t, listings, 1)

	listing := listings[0]
	assert.Equal(t, "9", listing.Id)
	assert.Equal(t, "https://example.com/building/51-1-avenue-new_york/9", listing.URL)
	assert.Equal(t, "East Village - 2 Beds • 1 Bath", listing.Title)
	assert.Equal(t, "$3,200", listing.Price)
	assert.Equal(t, "51 1st Avenue #9", listing.Address)
	assert.Equal(t, "Test", listing.Provider)
}

func TestExtract_ExcludesFeaturedAndSponsored(t *testing.T) {
	s := newTestScraper(t)

	html := `<html><body>
		<div data-testid="listing-card">
			<span data-testid="tag-text">Featured</span>
			<span class="PriceInfo-module__price_x">$2,000</span>
			<a class="addressTextAction_x" href="/building/a/1">A Street</a>
		</div>
		<div data-testid="listing-card">
			<p class="ImageContainerFooter-module__sponsoredTag_x sponsoredTag_x">Sponsored</p>
			<a class="addressTextAction_x" href="/building/b/2">B Street</a>
		</div>
		<div data-testid="listing-card">
			<span data-testid="tag-text">New Development</span>
			<a class="addressTextAction_x" href="/building/c/3">C Street</a>
		</div>
	</body></html>`

	listings := s.Extract(parseDoc(t, html))

	// The "New Development" tag is not an exclusion marker
	assert.Len(t, listings, 1)
	assert.Equal(t, "3", listings[0].Id)
}

func TestExtract_ContainerFallback(t *testing.T) {
	s := newTestScraper(t)

	// No data-testid containers present, the class-pattern fallback matches
	html := `<html><body>
		<div class="ListingCard-module__cardContainer_hash1">
			<a class="addressTextAction_x" href="/building/a/10">A Street</a>
		</div>
		<div class="ListingCard-module__cardContainer_hash1">
			<a class="addressTextAction_x" href="/building/b/11">B Street</a>
		</div>
	</body></html>`

	listings := s.Extract(parseDoc(t, html))
	assert.Len(t, listings, 2)
	assert.Equal(t, "10", listings[0].Id)
	assert.Equal(t, "11", listings[1].Id)
}

func TestExtract_AddressLinkFallback(t *testing.T) {
	s := newTestScraper(t)

	// No addressTextAction anchor, but a building href anchor exists
	html := `<html><body>
		<div data-testid="listing-card">
			<a href="/building/fallback-building/42">Fallback Street</a>
		</div>
	</body></html>`

	listings := s.Extract(parseDoc(t, html))
	assert.Len(t, listings, 1)
	assert.Equal(t, "42", listings[0].Id)
	assert.Equal(t, "Fallback Street", listings[0].Address)
}

func TestExtract_SkipsContainerWithoutAddressLink(t *testing.T) {
	s := newTestScraper(t)

	html := `<html><body>
		<div data-testid="listing-card">
			<span class="PriceInfo-module__price_x">$2,500</span>
		</div>
		<div data-testid="listing-card">
			<a class="addressTextAction_x" href="/building/ok/7">OK Street</a>
		</div>
	</body></html>`

	listings := s.Extract(parseDoc(t, html))
	assert.Len(t, listings, 1)
	assert.Equal(t, "7", listings[0].Id)
}

func TestExtract_PlaceholderFields(t *testing.T) {
	s := newTestScraper(t)

	// Price and title are missing; the record is still emitted
	html := `<html><body>
		<div data-testid="listing-card">
			<a class="addressTextAction_x" href="/building/bare/55">Bare Street</a>
		</div>
	</body></html>`

	listings := s.Extract(parseDoc(t, html))
	assert.Len(t, listings, 1)
	assert.Equal(t, PricePlaceholder, listings[0].Price)
	// Title falls back to the address text
	assert.Equal(t, "Bare Street", listings[0].Title)
	assert.Equal(t, "Bare Street", listings[0].Address)
}

func TestExtract_CapsContainers(t *testing.T) {
	s := newTestScraper(t)

	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		b.WriteString(card(fmt.Sprintf("%d", i), "$1,000", "Somewhere", ""))
	}
	b.WriteString("</body></html>")

	listings := s.Extract(parseDoc(t, b.String()))
	assert.Len(t, listings, 20)
	// Document order is preserved up to the cap
	assert.Equal(t, "0", listings[0].Id)
	assert.Equal(t, "19", listings[19].Id)
}

func TestExtract_EmptyDocument(t *testing.T) {
	s := newTestScraper(t)
	listings := s.Extract(parseDoc(t, "<html><body><p>maintenance page</p></body></html>"))
	assert.NotNil(t, listings)
	assert.Len(t, listings, 0)
}

func TestExtract_IdentifierStability(t *testing.T) {
	s := newTestScraper(t)

	// Two documents differing only in the price text
	first := s.Extract(parseDoc(t, "<html><body>"+card("77", "$3,000", "SoHo", "")+"</body></html>"))
	second := s.Extract(parseDoc(t, "<html><body>"+card("77", "$3,150", "SoHo", "")+"</body></html>"))

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, first[0].Id, second[0].Id)
	assert.NotEqual(t, first[0].Price, second[0].Price)
}

func TestExtract_AbsoluteURLUnchanged(t *testing.T) {
	s := newTestScraper(t)

	html := `<html><body>
		<div data-testid="listing-card">
			<a class="addressTextAction_x" href="https://other.example.org/building/abs/88">Abs Street</a>
		</div>
	</body></html>`

	listings := s.Extract(parseDoc(t, html))
	assert.Len(t, listings, 1)
	assert.Equal(t, "https://other.example.org/building/abs/88", listings[0].URL)
	assert.Equal(t, "88", listings[0].Id)
}

func TestProcessListing_BedsBathsJoin(t *testing.T) {
	s := newTestScraper(t)

	doc := parseDoc(t, "<html><body>"+card("5", "$4,000", "Chelsea", "2 Beds|2 Baths|950 ft²")+"</body></html>")
	listing, err := s.processListing(doc.Find("div[data-testid='listing-card']"))
	assert.NoError(t, err)
	assert.NotNil(t, listing)
	assert.Equal(t, "Chelsea - 2 Beds • 2 Baths • 950 ft²", listing.Title)
}
