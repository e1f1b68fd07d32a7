//go:generate go run go.uber.org/mock/mockgen -source=values_svc.go -destination=../../mocks/mock_values_svc.go -package=mocks
package values

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	systemPrompt = "You are an AI designed to help identify a person's core values through conversation. " +
		"Ask thought-provoking questions and provide insightful follow-ups. " +
		"After about 5-7 exchanges, summarize the person's core values."
	summaryPrompt = "The conversation is over. Summarize this person's core values in a short paragraph addressed to them."

	historyKeyPrefix = "values:"
	historyTTL       = 24 * time.Hour
)

var ErrEmptyMessage = errors.New("message is required")

// Progress is the answer to one questionnaire step.
type Progress struct {
	Reply           string `json:"message"`
	ProgressPercent int    `json:"progress"`
	Complete        bool   `json:"completed"`
}

type IValuesService interface {
	Advance(ctx context.Context, userID, message string, finish bool) (*Progress, error)
	Reset(ctx context.Context, userID string) error
}

type valuesService struct {
	ai        Completer
	rdc       *redis.Client
	store     UserValuesStore
	exchanges int
}

var _ IValuesService = (*valuesService)(nil)

func NewValuesService(ai Completer, rdc *redis.Client, store UserValuesStore, exchanges int) IValuesService {
	if exchanges <= 0 {
		exchanges = 5
	}
	return &valuesService{ai: ai, rdc: rdc, store: store, exchanges: exchanges}
}

func historyKey(userID string) string { return historyKeyPrefix + userID + ":history" }

// Advance sends the user's answer to the model together with the
// conversation so far. The questionnaire completes after the configured
// number of exchanges, or earlier when finish is set.
func (svc *valuesService) Advance(ctx context.Context, userID, message string, finish bool) (*Progress, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	key := historyKey(userID)

	raw, err := svc.rdc.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	msgs := make([]ChatMessage, 0, len(raw)+3)
	msgs = append(msgs, ChatMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, r := range raw {
		var m ChatMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			zap.L().Warn("values.history_decode", zap.String("user", userID), zap.Error(err))
			continue
		}
		msgs = append(msgs, m)
	}
	user := ChatMessage{Role: openai.ChatMessageRoleUser, Content: message}
	msgs = append(msgs, user)

	turn := len(raw)/2 + 1
	complete := finish || turn >= svc.exchanges
	if complete {
		msgs = append(msgs, ChatMessage{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt})
	}

	reply, err := svc.ai.Complete(ctx, msgs)
	if err != nil {
		return nil, err
	}

	if complete {
		if err := svc.store.CompleteValueIdentification(ctx, userID, reply); err != nil {
			return nil, err
		}
		if err := svc.rdc.Del(ctx, key).Err(); err != nil {
			zap.L().Warn("values.history_clear", zap.String("user", userID), zap.Error(err))
		}
		return &Progress{Reply: reply, ProgressPercent: 100, Complete: true}, nil
	}

	u, _ := json.Marshal(user)
	a, _ := json.Marshal(ChatMessage{Role: openai.ChatMessageRoleAssistant, Content: reply})
	if err := svc.rdc.RPush(ctx, key, string(u), string(a)).Err(); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	keep := int64(2 * svc.exchanges)
	if err := svc.rdc.LTrim(ctx, key, -keep, -1).Err(); err != nil {
		zap.L().Warn("values.history_trim", zap.String("user", userID), zap.Error(err))
	}
	if err := svc.rdc.Expire(ctx, key, historyTTL).Err(); err != nil {
		zap.L().Warn("values.history_expire", zap.String("user", userID), zap.Error(err))
	}

	return &Progress{
		Reply:           reply,
		ProgressPercent: turn * 100 / svc.exchanges,
		Complete:        false,
	}, nil
}

// Reset drops the conversation so the questionnaire can be retaken.
func (svc *valuesService) Reset(ctx context.Context, userID string) error {
	return svc.rdc.Del(ctx, historyKey(userID)).Err()
}
