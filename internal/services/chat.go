package services

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"alexchat-backend/internal/gemini"
	"alexchat-backend/internal/images"
	"alexchat-backend/internal/markdown"
	"alexchat-backend/internal/models"
)

// ErrConversationDiscarded is returned when a handle issued before a
// history clear is used. Callers must fetch a new handle via LoadOrInit.
var ErrConversationDiscarded = errors.New("conversation handle has been discarded")

type messageStore interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type gateway interface {
	StartChat(history []gemini.Turn) (gemini.Session, error)
}

// Conversation is a live per-user handle around one provider chat session.
// It is always derivable from the persisted message rows; storage stays the
// durable authority. ClearHistory discards every handle issued before it:
// their replayed state no longer matches storage.
type Conversation struct {
	userID  uuid.UUID
	session gemini.Session
	gen     uint64
}

// TurnResult is the outcome of one successful SubmitTurn.
type TurnResult struct {
	ReplyMarkdown    string
	ReplyHTML        string
	SentImageDataURI *string
}

// ChatService reconstructs per-user conversation state from storage and
// serializes new turns back in order. Handles are request-scoped: each page
// load rebuilds one from the persisted history.
type ChatService struct {
	messages       messageStore
	gateway        gateway
	maxImageBytes  int
	maxPromptChars int

	mu        sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex
	userGens  map[uuid.UUID]uint64
}

func NewChatService(messages messageStore, gw gateway, maxImageBytes, maxPromptChars int) *ChatService {
	return &ChatService{
		messages:       messages,
		gateway:        gw,
		maxImageBytes:  maxImageBytes,
		maxPromptChars: maxPromptChars,
		userLocks:      make(map[uuid.UUID]*sync.Mutex),
		userGens:       make(map[uuid.UUID]uint64),
	}
}

// lockUser serializes storage writes and provider turns per user. The
// provider session is stateful and not safe for concurrent turns; no
// cross-user coordination happens here.
func (s *ChatService) lockUser(userID uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// currentGen reads the user's clear generation. Handles carry the
// generation they were issued under; a mismatch means a clear happened
// since and the handle is discarded.
func (s *ChatService) currentGen(userID uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userGens[userID]
}

func (s *ChatService) bumpGen(userID uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userGens[userID]++
	return s.userGens[userID]
}

// LoadOrInit rebuilds a conversation handle from the user's persisted
// history. With forceNew (or an empty history) the provider session starts
// fresh; a user with no stored messages at all additionally gets the
// synthetic greeting persisted, exactly once. Returns the handle together
// with the stored history for display.
func (s *ChatService) LoadOrInit(ctx context.Context, userID uuid.UUID, forceNew bool) (*Conversation, []models.ChatMessage, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	history, err := s.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var replay []gemini.Turn
	if !forceNew && len(history) > 0 {
		replay = ReplaySequence(history)
	}

	if len(history) == 0 {
		greeting := &models.ChatMessage{
			UserID:  userID,
			Role:    models.RoleAI,
			Content: InitialGreeting,
		}
		if err := s.messages.Create(ctx, greeting); err != nil {
			return nil, nil, err
		}
		history = append(history, *greeting)
	}

	session, err := s.gateway.StartChat(replay)
	if err != nil {
		// History is still returned so the boundary can keep rendering the
		// page; the user retries once the provider is reachable again.
		return nil, history, &GatewayUnavailableError{Err: err}
	}

	return &Conversation{userID: userID, session: session, gen: s.currentGen(userID)}, history, nil
}

// ReplaySequence maps stored history to the provider's replay format. It is
// a pure function: rows with neither text nor an image are dropped, and
// image-only turns get the textual placeholder the provider requires.
func ReplaySequence(history []models.ChatMessage) []gemini.Turn {
	turns := make([]gemini.Turn, 0, len(history))
	for _, m := range history {
		if !m.HasContent() {
			continue
		}
		text := m.Content
		if text == "" {
			text = imageOnlyPlaceholder
		}
		role := gemini.RoleUser
		if m.Role == models.RoleAI {
			role = gemini.RoleModel
		}
		turns = append(turns, gemini.Turn{Role: role, Text: text})
	}
	return turns
}

// SubmitTurn validates and persists the user's turn, then asks the provider
// for a reply. The user message is written before the gateway call so a
// crash mid-call never loses input; on gateway failure no ai message is
// written and the typed error is returned for the boundary to render.
func (s *ChatService) SubmitTurn(ctx context.Context, conv *Conversation, prompt string, imageData []byte) (*TurnResult, error) {
	if conv == nil {
		return nil, ErrConversationDiscarded
	}

	unlock := s.lockUser(conv.userID)
	defer unlock()

	if conv.gen != s.currentGen(conv.userID) {
		return nil, ErrConversationDiscarded
	}

	if prompt == "" && len(imageData) == 0 {
		return nil, &EmptyPromptError{}
	}
	// The limit is characters, not bytes; Amharic prompts are three bytes
	// per character in UTF-8.
	if utf8.RuneCountInString(prompt) > s.maxPromptChars {
		return nil, &PromptTooLongError{Limit: s.maxPromptChars}
	}

	var parts []gemini.Part
	var sentImage *string

	if len(imageData) > 0 {
		if len(imageData) > s.maxImageBytes {
			return nil, &ImageTooLargeError{Limit: s.maxImageBytes}
		}
		format, err := images.DetectFormat(imageData)
		if err != nil {
			return nil, &ImageDecodeError{Err: err}
		}
		uri := images.DataURI(format, imageData)
		sentImage = &uri
		// Image part goes first, then the text part
		parts = append(parts, gemini.ImagePart{Format: format, Data: imageData})
	}
	if prompt != "" {
		parts = append(parts, gemini.TextPart(prompt))
	}

	userMsg := &models.ChatMessage{
		UserID:       conv.userID,
		Role:         models.RoleUser,
		Content:      prompt,
		ImageDataURI: sentImage,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	reply, err := conv.session.Send(ctx, parts)
	if err != nil {
		return nil, &GatewayRequestError{Err: err}
	}

	aiMsg := &models.ChatMessage{
		UserID:  conv.userID,
		Role:    models.RoleAI,
		Content: reply,
	}
	if err := s.messages.Create(ctx, aiMsg); err != nil {
		return nil, err
	}

	return &TurnResult{
		ReplyMarkdown:    reply,
		ReplyHTML:        markdown.Render(reply),
		SentImageDataURI: sentImage,
	}, nil
}

// ClearHistory deletes every stored message for the user, discards all
// handles issued before the clear, and hands back a fresh handle seeded
// from empty history. No greeting is seeded here; the next LoadOrInit
// does that.
func (s *ChatService) ClearHistory(ctx context.Context, userID uuid.UUID) (*Conversation, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	if err := s.messages.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}

	// Handles issued before the clear would replay deleted rows.
	gen := s.bumpGen(userID)

	session, err := s.gateway.StartChat(nil)
	if err != nil {
		return nil, &GatewayUnavailableError{Err: err}
	}
	return &Conversation{userID: userID, session: session, gen: gen}, nil
}
