package clients

import "github.com/samber/mo"

// SlackAuthTestResponse represents the response from Slack's auth.test API
type SlackAuthTestResponse struct {
	UserID string
	TeamID string
}

// SlackMessageParams holds parameters for sending Slack messages. An absent
// ThreadTS posts a new top-level message.
type SlackMessageParams struct {
	Text     string
	ThreadTS mo.Option[string]
}

// SlackPostMessageResponse represents the response from posting a message to Slack
type SlackPostMessageResponse struct {
	Channel   string
	Timestamp string
}

// DifyChatMessageParams holds parameters for a blocking chat invocation.
type DifyChatMessageParams struct {
	Query          string
	ConversationID string // empty starts a new conversation
	User           string // stable end-user identifier, e.g. "slack-U123"
}

// DifyChatMessageResponse carries the answer text and the continuation token
// identifying the server-side dialogue state.
type DifyChatMessageResponse struct {
	Answer         string
	ConversationID string
	MessageID      string
}
