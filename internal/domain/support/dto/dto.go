// Package dto contains gateway-neutral snapshots passed between layers
package dto

import "time"

// User is a snapshot of the remote chat identity behind a message
type User struct {
	ID           int64
	FullName     string
	Username     string
	LanguageCode string
	IsPremium    bool
}

// Message is a gateway-neutral message snapshot. ThreadID is the forum
// topic the message was posted to (zero outside topics). ReplyTo is set
// when the message replies to another one and carries enough of the
// original to act on it.
type Message struct {
	ID       int
	ChatID   int64
	ThreadID int
	From     User
	FromBot  bool
	Text     string
	Caption  string
	Date     time.Time
	ReplyTo  *Message
}

// AdminTotals is an aggregated per-admin stats row for a date range
type AdminTotals struct {
	AdminID   int64
	AdminName string
	Replies   int64
	Edits     int64
	Deletes   int64
}
