package domain

import "time"

// ChannelInbox notification channel of inbox message
const ChannelInbox = "inbox"

// Message inbox message, delivered as change payload of channel inbox
type Message struct {
	ID      string    `json:"id"`
	From    string    `json:"from" validate:"required"`
	To      string    `json:"to,omitempty"`
	Message string    `json:"message" validate:"required,max=2000"`
	SentAt  time.Time `json:"sentAt"`
}
