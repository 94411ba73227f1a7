package clients

import "context"

// SlackClient is the outbound surface of the chat platform: posting replies
// and identifying the bot user.
type SlackClient interface {
	PostMessage(ctx context.Context, channelID string, params SlackMessageParams) (*SlackPostMessageResponse, error)
	AuthTest() (*SlackAuthTestResponse, error)
}

// DifyClient invokes the conversational backend. A non-empty ConversationID
// in the params resumes the server-side dialogue identified by that token.
type DifyClient interface {
	SendChatMessage(ctx context.Context, params DifyChatMessageParams) (*DifyChatMessageResponse, error)
}
