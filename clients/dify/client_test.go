package dify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"difybridge/clients"
)

func TestSendChatMessage(t *testing.T) {
	t.Run("Success_NewConversation", func(t *testing.T) {
		var gotReq map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/chat-messages", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"conversation_id": "conv-123",
				"message_id":      "msg-456",
				"answer":          "Hello from Dify",
			})
		}))
		defer server.Close()

		client := NewDifyClient(server.URL, "test-key")
		resp, err := client.SendChatMessage(context.Background(), clients.DifyChatMessageParams{
			Query: "what is up",
			User:  "slack-U123",
		})

		require.NoError(t, err)
		assert.Equal(t, "Hello from Dify", resp.Answer)
		assert.Equal(t, "conv-123", resp.ConversationID)
		assert.Equal(t, "msg-456", resp.MessageID)

		assert.Equal(t, "what is up", gotReq["query"])
		assert.Equal(t, "blocking", gotReq["response_mode"])
		assert.Equal(t, "slack-U123", gotReq["user"])
		// New conversation carries no conversation_id
		_, hasConvID := gotReq["conversation_id"]
		assert.False(t, hasConvID)
	})

	t.Run("Success_ResumedConversation", func(t *testing.T) {
		var gotReq map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"conversation_id": "conv-123",
				"answer":          "continuing",
			})
		}))
		defer server.Close()

		client := NewDifyClient(server.URL, "test-key")
		resp, err := client.SendChatMessage(context.Background(), clients.DifyChatMessageParams{
			Query:          "and then?",
			ConversationID: "conv-123",
			User:           "slack-U123",
		})

		require.NoError(t, err)
		assert.Equal(t, "conv-123", resp.ConversationID)
		assert.Equal(t, "conv-123", gotReq["conversation_id"])
	})

	t.Run("Error_NonOKStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"code":"app_unavailable"}`, http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewDifyClient(server.URL, "test-key")
		_, err := client.SendChatMessage(context.Background(), clients.DifyChatMessageParams{
			Query: "hi",
			User:  "slack-U123",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
	})

	t.Run("Error_MissingAnswer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"conversation_id": "conv-123"})
		}))
		defer server.Close()

		client := NewDifyClient(server.URL, "test-key")
		_, err := client.SendChatMessage(context.Background(), clients.DifyChatMessageParams{
			Query: "hi",
			User:  "slack-U123",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing answer")
	})
}
