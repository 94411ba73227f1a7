package models

import "encoding/json"

// SlackEventEnvelope is the outer payload of a Slack Events API request.
// Type discriminates url_verification from event_callback.
type SlackEventEnvelope struct {
	Token     string          `json:"token"`
	Challenge string          `json:"challenge"`
	Type      string          `json:"type"`
	TeamID    string          `json:"team_id"`
	EventID   string          `json:"event_id"`
	Event     json.RawMessage `json:"event"`
}

// SlackEvent is the inner event of an event_callback envelope, limited to
// the fields the bridge consumes.
type SlackEvent struct {
	Type        string `json:"type"`         // "app_mention", "message", ...
	ChannelType string `json:"channel_type"` // "channel", "group", "im"
	Text        string `json:"text"`
	User        string `json:"user"`
	Channel     string `json:"channel"`
	TS          string `json:"ts"`
	ThreadTS    string `json:"thread_ts,omitempty"`
	BotID       string `json:"bot_id,omitempty"`   // non-empty if sent by a bot
	Subtype     string `json:"subtype,omitempty"`  // e.g. "bot_message", "message_changed"
}

// SlackMessageEvent is the normalized inbound message handed to the bridge
// usecase after pre-filtering and mention stripping.
type SlackMessageEvent struct {
	EventID     string // correlation id assigned per inbound event
	Type        string
	ChannelType string
	Channel     string
	User        string
	Text        string
	TS          string
	ThreadTS    string
}
