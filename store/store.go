// Package store holds the conversation-token store abstraction and its
// backends. The store maps a conversation key to the opaque continuation
// token the Dify backend hands back; the bridge never interprets the token,
// it only threads it through to stitch multi-turn dialogue together.
package store

import (
	"context"

	"github.com/samber/mo"
)

// ConversationStore is the key -> continuation-token mapping. Get returns an
// absent option for unknown keys; Set overwrites unconditionally. There is no
// deletion or expiry, and no compare-and-swap: two concurrent messages in the
// same thread may race on the token, which is accepted behavior.
type ConversationStore interface {
	GetContinuationToken(ctx context.Context, key string) (mo.Option[string], error)
	SetContinuationToken(ctx context.Context, key, token string) error
}
