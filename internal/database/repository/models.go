package repository

import "time"

// PayeeDestination is one remembered payee to destination pairing. Tally counts
// how often it was chosen; Seq orders pairings by last use.
type PayeeDestination struct {
	ID          string
	Payee       string
	Destination string
	Tally       int
	Seq         int64
	UpdatedAt   time.Time
}
