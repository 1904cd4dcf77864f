// Package gemini wraps the Google generative AI SDK behind a small
// chat-session surface. It is a pure remote-call wrapper: it never touches
// persisted state.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Provider-side conversation roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ErrUnavailable indicates the provider client could not be created or
// authenticated. Callers should surface it and leave the user able to retry.
var ErrUnavailable = errors.New("gemini: service unavailable")

// Turn is one replayed entry of conversation history. The provider protocol
// requires textual turn content, so image-only turns must already carry a
// textual placeholder by the time they reach this package.
type Turn struct {
	Role string
	Text string
}

// Part is one piece of an outgoing message: TextPart or ImagePart.
type Part interface {
	toGenai() genai.Part
}

type TextPart string

func (p TextPart) toGenai() genai.Part { return genai.Text(p) }

// ImagePart carries raw image bytes with a lowercase format tag ("jpeg",
// "png", ...), as expected by the provider blob API.
type ImagePart struct {
	Format string
	Data   []byte
}

func (p ImagePart) toGenai() genai.Part { return genai.ImageData(p.Format, p.Data) }

// Session is one stateful provider chat. Not safe for concurrent Send calls.
type Session interface {
	Send(ctx context.Context, parts []Part) (string, error)
}

type Client struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
	timeout  time.Duration
}

func NewClient(ctx context.Context, apiKey, modelName, systemInstruction string, concurrentReqs int, timeout time.Duration) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	// Token bucket for concurrent request limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &Client{
		client:   client,
		model:    model,
		rateChan: rateChan,
		timeout:  timeout,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// StartChat opens a provider session seeded with the given replay history.
// The session is bound to the client's system instruction.
func (c *Client) StartChat(history []Turn) (Session, error) {
	cs := c.model.StartChat()
	cs.History = convertHistory(history)
	return &chatSession{client: c, cs: cs}, nil
}

type chatSession struct {
	client *Client
	cs     *genai.ChatSession
}

func (s *chatSession) Send(ctx context.Context, parts []Part) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini: no content parts to send")
	}

	if err := s.client.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.client.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, s.client.timeout)
	defer cancel()

	genaiParts := make([]genai.Part, len(parts))
	for i, p := range parts {
		genaiParts[i] = p.toGenai()
	}

	resp, err := s.cs.SendMessage(ctx, genaiParts...)
	if err != nil {
		return "", fmt.Errorf("gemini send failed: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

// acquireRate blocks until a rate slot is available
func (c *Client) acquireRate(ctx context.Context) error {
	select {
	case <-c.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (c *Client) releaseRate() {
	c.rateChan <- struct{}{}
}

func convertHistory(history []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		role := t.Role
		if role != RoleModel {
			role = RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return contents
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
