package store

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"
)

type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) GetContinuationToken(
	ctx context.Context,
	key string,
) (mo.Option[string], error) {
	args := m.Called(ctx, key)
	return args.Get(0).(mo.Option[string]), args.Error(1)
}

func (m *MockConversationStore) SetContinuationToken(ctx context.Context, key, token string) error {
	args := m.Called(ctx, key, token)
	return args.Error(0)
}
