package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"
)

const defaultBaseURL = "https://discord.com/api/v10"

// maxAttachmentBytes is Discord's per-file upload limit.
const maxAttachmentBytes = 25 * 1024 * 1024

// Client is a minimal Discord REST client for posting messages.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

// NewClient creates a REST client authenticated with the given bot token.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		token:      token,
		baseURL:    defaultBaseURL,
	}
}

// SendMessage posts a message to a channel. Messages without
// attachments go as a JSON body, messages with attachments as
// multipart/form-data with a payload_json part.
func (c *Client) SendMessage(ctx context.Context, channelID string, msg *OutboundMessage) error {
	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)
	if len(msg.Attachments) == 0 {
		return c.sendJSON(ctx, url, msg.Content)
	}
	return c.sendMultipart(ctx, url, msg)
}

func (c *Client) sendJSON(ctx context.Context, url, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("encoding message body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// attachmentMeta is the per-file entry of the multipart payload_json.
type attachmentMeta struct {
	ID          int    `json:"id"`
	Description string `json:"description,omitempty"`
}

func (c *Client) sendMultipart(ctx context.Context, url string, msg *OutboundMessage) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	meta := make([]attachmentMeta, len(msg.Attachments))
	for i, att := range msg.Attachments {
		meta[i] = attachmentMeta{ID: i, Description: att.Description}
	}

	// Discord requires content to ride inside payload_json when the
	// request is multipart.
	payload := map[string]any{"attachments": meta}
	if msg.Content != "" {
		payload["content"] = msg.Content
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload_json: %w", err)
	}
	if err := form.WriteField("payload_json", string(payloadJSON)); err != nil {
		return err
	}

	for i, att := range msg.Attachments {
		if att.Size > maxAttachmentBytes {
			return fmt.Errorf("attachment %s exceeds the 25MB upload limit", att.Path)
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files[%d]"; filename=%q`, i, att.Filename))
		header.Set("Content-Type", att.MIMEType)

		part, err := form.CreatePart(header)
		if err != nil {
			return err
		}
		f, err := os.Open(att.Path)
		if err != nil {
			return fmt.Errorf("opening attachment: %w", err)
		}
		_, err = io.Copy(part, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("reading attachment %s: %w", att.Path, err)
		}
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", form.FormDataContentType())

	return c.do(req)
}

// PostWebhook posts {"content": ...} to an arbitrary webhook URL.
func (c *Client) PostWebhook(ctx context.Context, url, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("encoding webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
