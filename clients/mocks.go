package clients

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) PostMessage(
	ctx context.Context,
	channelID string,
	params SlackMessageParams,
) (*SlackPostMessageResponse, error) {
	args := m.Called(ctx, channelID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SlackPostMessageResponse), args.Error(1)
}

func (m *MockSlackClient) AuthTest() (*SlackAuthTestResponse, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SlackAuthTestResponse), args.Error(1)
}

type MockDifyClient struct {
	mock.Mock
}

func (m *MockDifyClient) SendChatMessage(
	ctx context.Context,
	params DifyChatMessageParams,
) (*DifyChatMessageResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DifyChatMessageResponse), args.Error(1)
}
