package slack

import (
	"context"

	"github.com/slack-go/slack"

	"difybridge/clients"
)

// SlackClient implements the clients.SlackClient interface using the
// slack-go/slack SDK
type SlackClient struct {
	*slack.Client
}

// NewSlackClient creates a new Slack client with the provided bot token
func NewSlackClient(authToken string) clients.SlackClient {
	return &SlackClient{
		Client: slack.New(authToken),
	}
}

// AuthTest verifies the bot token and returns information about the bot
func (c *SlackClient) AuthTest() (*clients.SlackAuthTestResponse, error) {
	response, err := c.Client.AuthTest()
	if err != nil {
		return nil, err
	}

	return &clients.SlackAuthTestResponse{
		UserID: response.UserID,
		TeamID: response.TeamID,
	}, nil
}

// PostMessage sends a message to a Slack channel, threading it when a
// thread timestamp is present
func (c *SlackClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.SlackMessageParams,
) (*clients.SlackPostMessageResponse, error) {
	sdkOptions := []slack.MsgOption{
		slack.MsgOptionText(params.Text, false),
	}
	if threadTS, ok := params.ThreadTS.Get(); ok {
		sdkOptions = append(sdkOptions, slack.MsgOptionTS(threadTS))
	}

	channel, timestamp, err := c.Client.PostMessageContext(ctx, channelID, sdkOptions...)
	if err != nil {
		return nil, err
	}

	return &clients.SlackPostMessageResponse{
		Channel:   channel,
		Timestamp: timestamp,
	}, nil
}
