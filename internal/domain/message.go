package domain

import "time"

type Message struct {
	Id        MessageId
	Sender    User
	Recipient User
	Text      string
	CreatedAt time.Time
}

// Conversation is the bidirectional message history between the viewer
// and one peer, oldest first. Both sides see the identical set.
type Conversation struct {
	Viewer   User
	Peer     User
	Messages []*Message
}
