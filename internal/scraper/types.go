package scraper

// Listing represents a scraped rental listing
type Listing struct {
	Id       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Price    string `json:"price,omitempty"`
	Address  string `json:"address,omitempty"`
	Provider string `json:"provider"`
}

// Scraper interface defines the contract for all scraper implementations
type Scraper interface {
	// FetchListings retrieves current listings from a source
	FetchListings() ([]Listing, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string

	// GetProvider returns the provider name for the scraper
	GetProvider() string
}

// Placeholder values used when an optional field is missing from a listing
// card. A missing field never drops the record.
const (
	PricePlaceholder   = "Price not found"
	AddressPlaceholder = "Address not found"
)

// ContainerStrategy names one way of locating listing card containers.
// Strategies are tried in order; the first one yielding at least one match
// wins, which keeps selector fallback declarative and testable.
type ContainerStrategy struct {
	Name     string
	Selector string
}

// Selectors contains CSS selectors for the elements of a listing card
type Selectors struct {
	// Containers is the ordered list of container-matching strategies
	Containers []ContainerStrategy

	// FeaturedTag marks promoted cards; a match whose text equals
	// FeaturedText excludes the card
	FeaturedTag  string
	FeaturedText string

	// SponsoredTag marks sponsored cards; any match excludes the card
	SponsoredTag string

	// AddressLink locates the anchor carrying the listing URL, with
	// AddressLinkFallback tried when the primary selector matches nothing
	AddressLink         string
	AddressLinkFallback string

	Price     string
	Title     string
	BedsBaths string

	// BedsBathsSeparator joins bed/bath descriptors; TitleSeparator joins
	// the joined descriptors onto the title
	BedsBathsSeparator string
	TitleSeparator     string
}

// ScraperConfig contains configuration for a scraper
type ScraperConfig struct {
	URL         string
	CacheKey    string
	BlockTime   int
	BaseURL     string
	Provider    string
	MaxListings int
	Selectors   Selectors
}
