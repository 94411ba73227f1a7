package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"difybridge/clients"
)

// DifyClient implements the clients.DifyClient interface against the Dify
// chat-messages API in blocking response mode.
type DifyClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// chatMessageRequest represents the chat-messages request body
type chatMessageRequest struct {
	Inputs         map[string]any `json:"inputs"`
	Query          string         `json:"query"`
	ResponseMode   string         `json:"response_mode"`
	ConversationID string         `json:"conversation_id,omitempty"`
	User           string         `json:"user"`
}

// chatMessageResponse represents the blocking-mode chat-messages response
type chatMessageResponse struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Answer         string `json:"answer"`
}

// NewDifyClient creates a new Dify API client. baseURL is the API root,
// e.g. https://api.dify.ai/v1 or a self-hosted equivalent.
func NewDifyClient(baseURL, apiKey string) clients.DifyClient {
	return &DifyClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// SendChatMessage invokes the Dify app with a user query and returns the
// answer along with the conversation ID that resumes this dialogue.
func (c *DifyClient) SendChatMessage(
	ctx context.Context,
	params clients.DifyChatMessageParams,
) (*clients.DifyChatMessageResponse, error) {
	reqBody := chatMessageRequest{
		Inputs:         map[string]any{},
		Query:          params.Query,
		ResponseMode:   "blocking",
		ConversationID: params.ConversationID,
		User:           params.User,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		c.baseURL+"/chat-messages",
		bytes.NewBuffer(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke chat app: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat invocation failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chatResp chatMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Answer == "" {
		return nil, fmt.Errorf("missing answer in response")
	}

	return &clients.DifyChatMessageResponse{
		Answer:         chatResp.Answer,
		ConversationID: chatResp.ConversationID,
		MessageID:      chatResp.MessageID,
	}, nil
}
