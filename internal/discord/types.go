// Package discord provides the REST client and gateway connection for
// the Discord API.
package discord

import "fmt"

// Author identifies the user that sent a message.
type Author struct {
	ID       string
	Username string
}

// Message is an inbound MESSAGE_CREATE event as consumed by the hook
// pipeline. Values are snapshots; nothing mutates them after parse.
type Message struct {
	ID          string
	ChannelID   string
	Content     string
	Author      Author
	// Timestamp is the ISO-8601 timestamp as delivered by the gateway.
	Timestamp   string
	Attachments []string
	EmbedCount  int
}

// FileAttachment is a validated local file to upload with a message.
type FileAttachment struct {
	Path        string
	Filename    string
	MIMEType    string
	Size        int64
	Description string
}

// OutboundMessage is a message to post via the REST API.
type OutboundMessage struct {
	Content     string
	Attachments []FileAttachment
}

// APIError is a non-2xx response from the Discord REST API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api returned status %d: %s", e.StatusCode, e.Body)
}
