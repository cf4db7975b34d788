package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ShepherdBook/initializers"
	"go.uber.org/zap"
)

type SMSMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type SMSBatchResult struct {
	SuccessCount int      `json:"success_count"`
	FailedCount  int      `json:"failed_count"`
	Errors       []string `json:"errors"`
}

// SMSSender delivers a batch of messages in one provider call.
type SMSSender interface {
	SendBatch(ctx context.Context, messages []SMSMessage) (*SMSBatchResult, error)
}

type SMSConfig struct {
	APIURL   string
	APIKey   string
	SenderID string
	Timeout  time.Duration
}

// SMSService posts batches to a bulk SMS HTTP endpoint.
type SMSService struct {
	config SMSConfig
	client *http.Client
}

type smsBatchRequest struct {
	From     string       `json:"from"`
	Messages []SMSMessage `json:"messages"`
}

func NewSMSService(cfg SMSConfig) *SMSService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMSService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *SMSService) SendBatch(ctx context.Context, messages []SMSMessage) (*SMSBatchResult, error) {
	if s.config.APIURL == "" {
		return nil, fmt.Errorf("SMS service not configured")
	}
	if len(messages) == 0 {
		return &SMSBatchResult{}, nil
	}

	jsonBody, err := json.Marshal(smsBatchRequest{From: s.config.SenderID, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SMS batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send SMS batch: %w", err)
	}
	defer resp.Body.Close()

	responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("SMS provider returned status %d: %s", resp.StatusCode, string(responseBody))
	}

	var result SMSBatchResult
	if err := json.Unmarshal(responseBody, &result); err != nil {
		return nil, fmt.Errorf("SMS provider returned malformed response: %w", err)
	}
	if result.SuccessCount < 0 || result.FailedCount < 0 || result.SuccessCount+result.FailedCount > len(messages) {
		return nil, fmt.Errorf("SMS provider reported %d sent and %d failed for %d messages",
			result.SuccessCount, result.FailedCount, len(messages))
	}

	initializers.Log.Info("SMS batch sent",
		zap.Int("messages", len(messages)),
		zap.Int("successCount", result.SuccessCount),
		zap.Int("failedCount", result.FailedCount),
	)

	return &result, nil
}
