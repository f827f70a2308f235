package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/goalforge/goalforge-api/internal/models"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

// Completer produces a raw text completion for a prompt. Satisfied by
// OpenAICompleter in production and by fakes in tests.
type Completer interface {
	Complete(ctx context.Context, prompt, apiKey string) (string, error)
}

// OpenAICompleter calls the chat completion API with a client built fresh from
// the caller's key on every request. Keys are per-user, so no client is cached.
type OpenAICompleter struct {
	Model string
}

func (o *OpenAICompleter) Complete(ctx context.Context, prompt, apiKey string) (string, error) {
	client := openai.NewClient(apiKey)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		log.Printf("generation: upstream request failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUpstream)
	}

	return resp.Choices[0].Message.Content, nil
}

// ResolveUserAPIKey loads and decrypts the user's stored generation key.
// Returns ErrMissingAPIKey when none is configured; database failures are
// returned as-is so they are not mistaken for an unconfigured key.
func ResolveUserAPIKey(db *gorm.DB, userID uuid.UUID, cipher *KeyCipher) (string, error) {
	var user models.User
	if err := db.Select("encrypted_api_key").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrMissingAPIKey
		}
		return "", fmt.Errorf("load user key: %w", err)
	}
	if user.EncryptedAPIKey == "" {
		return "", ErrMissingAPIKey
	}

	key, err := cipher.Decrypt(user.EncryptedAPIKey)
	if err != nil || key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}
