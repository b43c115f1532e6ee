package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"aptwatcher/internal/scraper"
	"aptwatcher/pkg/errors"
)

// EmailNotifier delivers new-listing notifications over SMTP with STARTTLS
// plain authentication (Gmail app-password style)
type EmailNotifier struct {
	From      string
	Password  string
	To        []string
	Host      string
	Port      int
	SearchURL string

	// sendMail is swappable for tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now      func() time.Time
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(from, password string, to []string, host string, port int, searchURL string) *EmailNotifier {
	return &EmailNotifier{
		From:      from,
		Password:  password,
		To:        to,
		Host:      host,
		Port:      port,
		SearchURL: searchURL,
		sendMail:  smtp.SendMail,
		now:       time.Now,
	}
}

// Name returns the notifier's name
func (n *EmailNotifier) Name() string {
	return "email"
}

// Notify sends one plain-text email enumerating the new listings to all
// configured recipients
func (n *EmailNotifier) Notify(listings []scraper.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	msg := n.buildMessage(listings)
	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)
	auth := smtp.PlainAuth("", n.From, n.Password, n.Host)

	if err := n.sendMail(addr, auth, n.From, n.To, msg); err != nil {
		return errors.NewNotification("email", fmt.Sprintf("failed to send to %d recipient(s)", len(n.To)), err)
	}

	return nil
}

// Close implements Notifier; SMTP connections are per-send
func (n *EmailNotifier) Close() error {
	return nil
}

// buildMessage renders the full RFC 5322 message including headers
func (n *EmailNotifier) buildMessage(listings []scraper.Listing) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", n.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.To, ", "))
	fmt.Fprintf(&b, "Subject: %d New StreetEasy Listing(s) Found\r\n", len(listings))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	b.WriteString(FormatBody(listings, n.SearchURL, n.now()))

	return []byte(b.String())
}

// FormatBody renders the human-readable notification body. One block per
// listing with title, price, address and URL.
func FormatBody(listings []scraper.Listing, searchURL string, at time.Time) string {
	var b strings.Builder

	b.WriteString("New apartments matching your criteria:\n\n")

	for _, listing := range listings {
		fmt.Fprintf(&b, "%s\n", listing.Title)
		fmt.Fprintf(&b, "%s\n", listing.Price)
		fmt.Fprintf(&b, "%s\n", listing.Address)
		fmt.Fprintf(&b, "%s\n", listing.URL)
		b.WriteString(strings.Repeat("-", 50) + "\n\n")
	}

	fmt.Fprintf(&b, "\nFound at: %s\n", at.Format("2006-01-02 15:04:05"))
	if searchURL != "" {
		fmt.Fprintf(&b, "Search URL: %s\n", searchURL)
	}

	return b.String()
}
