package prompt

import (
	"strconv"
	"strings"

	"github.com/discli/discli/internal/discord"
)

// MessageVariables is a read-only snapshot of an inbound message's
// fields, built fresh per event.
type MessageVariables struct {
	Content     string
	AuthorID    string
	AuthorName  string
	ChannelID   string
	MessageID   string
	Timestamp   string
	Attachments []string
	EmbedCount  int
}

// VariablesFromMessage extracts template variables from a message.
func VariablesFromMessage(msg discord.Message) MessageVariables {
	return MessageVariables{
		Content:     msg.Content,
		AuthorID:    msg.Author.ID,
		AuthorName:  msg.Author.Username,
		ChannelID:   msg.ChannelID,
		MessageID:   msg.ID,
		Timestamp:   msg.Timestamp,
		Attachments: msg.Attachments,
		EmbedCount:  msg.EmbedCount,
	}
}

// Map returns the substitution values keyed by placeholder name.
func (v MessageVariables) Map() map[string]string {
	return map[string]string{
		"content":     v.Content,
		"author_id":   v.AuthorID,
		"author_name": v.AuthorName,
		"channel_id":  v.ChannelID,
		"message_id":  v.MessageID,
		"timestamp":   v.Timestamp,
		"attachments": strings.Join(v.Attachments, ", "),
		"embed_count": strconv.Itoa(v.EmbedCount),
	}
}

// Substitute replaces {{name}} placeholders in template with values
// from vars. Unknown placeholders are left verbatim; substitution is
// best effort, never an error.
func Substitute(template string, vars MessageVariables) string {
	values := vars.Map()
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-2]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}
