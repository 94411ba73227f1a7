package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"difybridge/core"
	"difybridge/models"
)

// mentionRegex matches user mentions in the format <@U123456>. They are
// stripped from the message text before it becomes a backend query.
var mentionRegex = regexp.MustCompile(`<@[UW][A-Z0-9]+>`)

// BridgeProcessor is the usecase surface the handler dispatches into.
type BridgeProcessor interface {
	ProcessSlackMessageEvent(ctx context.Context, event models.SlackMessageEvent) error
}

type SlackEventsHandler struct {
	signingSecret   string
	allowRetry      bool
	ignoredSubtypes []string
	bridgeUseCase   BridgeProcessor
}

func NewSlackEventsHandler(
	signingSecret string,
	allowRetry bool,
	ignoredSubtypes []string,
	bridgeUseCase BridgeProcessor,
) *SlackEventsHandler {
	return &SlackEventsHandler{
		signingSecret:   signingSecret,
		allowRetry:      allowRetry,
		ignoredSubtypes: ignoredSubtypes,
		bridgeUseCase:   bridgeUseCase,
	}
}

// verifySlackSignature verifies the authenticity of a Slack webhook request
func (h *SlackEventsHandler) verifySlackSignature(r *http.Request, body []byte) error {
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")

	if timestamp == "" || signature == "" {
		return fmt.Errorf("missing required headers")
	}

	// Verify timestamp freshness (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %v", err)
	}

	if time.Now().Unix()-ts > 300 { // 5 minutes
		return fmt.Errorf("request timestamp too old")
	}

	// Create signature base string: v0:timestamp:body
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	// Compute HMAC-SHA256
	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	mac.Write([]byte(baseString))
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// Secure comparison
	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

// isSuppressedRetry reports whether this request is a Slack redelivery that
// should be acknowledged without reprocessing. Slack retries on slow
// responses, and reprocessing would post duplicate replies.
func (h *SlackEventsHandler) isSuppressedRetry(r *http.Request) bool {
	if h.allowRetry {
		return false
	}

	if r.Header.Get("X-Slack-Retry-Reason") == "http_timeout" {
		return true
	}

	retryNum := r.Header.Get("X-Slack-Retry-Num")
	if retryNum == "" {
		return false
	}
	n, err := strconv.Atoi(retryNum)
	return err == nil && n > 0
}

func (h *SlackEventsHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack event received from %s", r.RemoteAddr)

	if h.isSuppressedRetry(r) {
		log.Printf("⏭️ Ignoring Slack retry request (num=%s, reason=%s)",
			r.Header.Get("X-Slack-Retry-Num"), r.Header.Get("X-Slack-Retry-Reason"))
		respondOK(w)
		return
	}

	// Read raw body for signature verification
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	// Verify Slack signature
	if err := h.verifySlackSignature(r, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var envelope models.SlackEventEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if envelope.Type == "url_verification" {
		log.Printf("🔐 Slack URL verification challenge received")
		if envelope.Challenge == "" {
			log.Printf("❌ Challenge not found in verification request")
			http.Error(w, "challenge not found", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(envelope.Challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}
		return
	}

	if envelope.Type != "event_callback" {
		log.Printf("📋 Non-event callback received: %s", envelope.Type)
		respondOK(w)
		return
	}

	if len(envelope.Event) == 0 {
		log.Printf("📋 No event field in event_callback")
		respondOK(w)
		return
	}

	var event models.SlackEvent
	if err := json.Unmarshal(envelope.Event, &event); err != nil {
		log.Printf("❌ Failed to parse inner event: %v", err)
		http.Error(w, "failed to parse event", http.StatusBadRequest)
		return
	}

	if h.shouldIgnoreEvent(event) {
		respondOK(w)
		return
	}

	messageEvent := h.buildMessageEvent(envelope, event)

	switch event.Type {
	case "app_mention", "message":
		if err := h.bridgeUseCase.ProcessSlackMessageEvent(r.Context(), messageEvent); err != nil {
			log.Printf("❌ Failed to process %s event: %v", event.Type, err)
		}
	default:
		log.Printf("⏭️ Unsupported event type: %s", event.Type)
	}

	respondOK(w)
}

// shouldIgnoreEvent pre-filters noise: echoes of the bot's own posts and the
// configured set of message subtypes (edits, deletions, bot messages).
func (h *SlackEventsHandler) shouldIgnoreEvent(event models.SlackEvent) bool {
	if event.BotID != "" {
		log.Printf("⏭️ Ignoring event from bot %s", event.BotID)
		return true
	}
	if event.Subtype != "" && slices.Contains(h.ignoredSubtypes, event.Subtype) {
		log.Printf("⏭️ Ignoring event subtype: %s", event.Subtype)
		return true
	}
	return false
}

func (h *SlackEventsHandler) buildMessageEvent(
	envelope models.SlackEventEnvelope,
	event models.SlackEvent,
) models.SlackMessageEvent {
	eventID := envelope.EventID
	if eventID == "" {
		eventID = core.NewID("evt")
	}

	return models.SlackMessageEvent{
		EventID:     eventID,
		Type:        event.Type,
		ChannelType: event.ChannelType,
		Channel:     event.Channel,
		User:        event.User,
		Text:        stripMentions(event.Text),
		TS:          event.TS,
		ThreadTS:    event.ThreadTS,
	}
}

// stripMentions removes bot/user mention tokens from the message text so the
// backend sees only the query.
func stripMentions(text string) string {
	return strings.TrimSpace(mentionRegex.ReplaceAllString(text, ""))
}

func respondOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Printf("❌ Failed to write response: %v", err)
	}
}

func (h *SlackEventsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack webhook endpoints")

	router.HandleFunc("/slack/events", h.HandleSlackEvent).Methods("POST")
	log.Printf("✅ POST /slack/events endpoint registered")
}
