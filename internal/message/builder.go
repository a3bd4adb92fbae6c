package message

import "github.com/discli/discli/internal/discord"

// Builder assembles an outbound message from content and attachments.
type Builder struct {
	content     string
	caption     string
	attachments []discord.FileAttachment
}

// NewBuilder creates an empty message builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Content sets the text content.
func (b *Builder) Content(content string) *Builder {
	b.content = content
	return b
}

// Caption sets the description applied to every attachment.
func (b *Builder) Caption(caption string) *Builder {
	b.caption = caption
	for i := range b.attachments {
		b.attachments[i].Description = caption
	}
	return b
}

// Attach validates and adds a file attachment.
func (b *Builder) Attach(path string) error {
	att, err := NewAttachment(path)
	if err != nil {
		return err
	}
	att.Description = b.caption
	b.attachments = append(b.attachments, att)
	return nil
}

// AttachAll validates and adds every path in order, stopping at the
// first invalid file.
func (b *Builder) AttachAll(paths []string) error {
	for _, path := range paths {
		if err := b.Attach(path); err != nil {
			return err
		}
	}
	return nil
}

// Build produces the message to send.
func (b *Builder) Build() *discord.OutboundMessage {
	return &discord.OutboundMessage{
		Content:     b.content,
		Attachments: b.attachments,
	}
}
