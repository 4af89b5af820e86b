package models

import "time"

// Message is a stored direct message. ReadAt is nil until the recipient
// marks the message read; once set it never changes.
type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// MessageDetail is a message with both participants expanded to their
// public profiles, as returned by the single-message endpoint.
type MessageDetail struct {
	ID     int64        `json:"id"`
	Body   string       `json:"body"`
	SentAt time.Time    `json:"sent_at"`
	ReadAt *time.Time   `json:"read_at"`
	From   *UserSummary `json:"from_user"`
	To     *UserSummary `json:"to_user"`
}

// SentMessage is a message listed from the sender's side; the recipient
// is expanded in place of the raw username.
type SentMessage struct {
	ID     int64        `json:"id"`
	Body   string       `json:"body"`
	SentAt time.Time    `json:"sent_at"`
	ReadAt *time.Time   `json:"read_at"`
	To     *UserSummary `json:"to_user"`
}

// ReceivedMessage is a message listed from the recipient's side; the
// sender is expanded in place of the raw username.
type ReceivedMessage struct {
	ID     int64        `json:"id"`
	Body   string       `json:"body"`
	SentAt time.Time    `json:"sent_at"`
	ReadAt *time.Time   `json:"read_at"`
	From   *UserSummary `json:"from_user"`
}
