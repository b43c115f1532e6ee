package notifier

import (
	"net/smtp"
	"testing"
	"time"

	"aptwatcher/internal/scraper"
	"aptwatcher/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func testListings() []scraper.Listing {
	return []scraper.Listing{
		{
			Id:       "9",
			URL:      "https://streeteasy.com/building/51-1-avenue-new_york/9",
			Title:    "Rental unit in East Village - 2 Beds • 1 Bath",
			Price:    "$4,500",
			Address:  "51 1st Avenue #9",
			Provider: "StreetEasy",
		},
		{
			Id:       "4c",
			URL:      "https://streeteasy.com/building/200-e-21-st-new_york/4c",
			Title:    "Rental unit in Gramercy",
			Price:    scraper.PricePlaceholder,
			Address:  "200 East 21st Street #4C",
			Provider: "StreetEasy",
		},
	}
}

func TestFormatBody(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	body := FormatBody(testListings(), "https://streeteasy.com/for-rent/nyc", at)

	assert.Contains(t, body, "Rental unit in East Village - 2 Beds • 1 Bath")
	assert.Contains(t, body, "$4,500")
	assert.Contains(t, body, "51 1st Avenue #9")
	assert.Contains(t, body, "https://streeteasy.com/building/51-1-avenue-new_york/9")
	assert.Contains(t, body, scraper.PricePlaceholder)
	assert.Contains(t, body, "Found at: 2026-08-30 10:30:00")
	assert.Contains(t, body, "Search URL: https://streeteasy.com/for-rent/nyc")
}

func TestEmailNotifier_Notify(t *testing.T) {
	n := NewEmailNotifier(
		"watcher@example.com",
		"app-password",
		[]string{"one@example.com", "two@example.com"},
		"smtp.example.com",
		587,
		"https://streeteasy.com/for-rent/nyc",
	)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := n.Notify(testListings())
	assert.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "watcher@example.com", gotFrom)
	assert.Equal(t, []string{"one@example.com", "two@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: 2 New StreetEasy Listing(s) Found\r\n")
	assert.Contains(t, msg, "To: one@example.com, two@example.com\r\n")
	assert.Contains(t, msg, "51 1st Avenue #9")
}

func TestEmailNotifier_NotifyEmptyIsNoop(t *testing.T) {
	n := NewEmailNotifier("a@b.c", "pw", []string{"x@y.z"}, "smtp.example.com", 587, "")

	called := false
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	assert.NoError(t, n.Notify(nil))
	assert.False(t, called)
}

func TestEmailNotifier_SendFailure(t *testing.T) {
	n := NewEmailNotifier("a@b.c", "pw", []string{"x@y.z"}, "smtp.example.com", 587, "")
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return assert.AnError
	}

	err := n.Notify(testListings())
	assert.Error(t, err)

	var monitorErr *errors.MonitorError
	assert.ErrorAs(t, err, &monitorErr)
	assert.Equal(t, errors.ErrorTypeNotification, monitorErr.Type)
	assert.True(t, monitorErr.IsRetryable())
}
