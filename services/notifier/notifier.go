package notifier

import "aptwatcher/internal/scraper"

// Notifier represents a delivery channel for new-listing notifications.
// Implementations must return delivery failures as errors rather than
// panicking; the worker treats them as non-fatal.
type Notifier interface {
	// Notify delivers a notification for a non-empty list of new listings
	Notify(listings []scraper.Listing) error

	// Name returns the notifier's name for logging
	Name() string

	// Close releases any held connections
	Close() error
}
