// Package bridge orchestrates the inbound-event-to-reply flow: classify the
// event, look up the dialogue's continuation token, invoke the Dify backend,
// convert the answer to Slack mrkdwn and post it back where it belongs.
package bridge

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"difybridge/clients"
	"difybridge/conversation"
	"difybridge/markup"
	"difybridge/models"
	"difybridge/store"
)

type BridgeUseCase struct {
	slackClient       clients.SlackClient
	difyClient        clients.DifyClient
	conversationStore store.ConversationStore
}

func NewBridgeUseCase(
	slackClient clients.SlackClient,
	difyClient clients.DifyClient,
	conversationStore store.ConversationStore,
) *BridgeUseCase {
	return &BridgeUseCase{
		slackClient:       slackClient,
		difyClient:        difyClient,
		conversationStore: conversationStore,
	}
}

// ProcessSlackMessageEvent runs one inbound message through the bridge.
// Events the resolver does not recognize are skipped, which is a normal
// outcome rather than an error.
func (u *BridgeUseCase) ProcessSlackMessageEvent(ctx context.Context, event models.SlackMessageEvent) error {
	log.Printf("📋 Starting to process message event %s from %s in %s", event.EventID, event.User, event.Channel)

	resolution := conversation.Resolve(descriptorFromEvent(event))
	if resolution.Kind == conversation.KindUnhandled {
		log.Printf("⏭️ Skipping event %s - no conversation key for this event shape", event.EventID)
		return nil
	}

	log.Printf("🔑 Event %s classified as %s, conversation key: %s", event.EventID, resolution.Kind, resolution.Key)

	maybeToken, err := u.conversationStore.GetContinuationToken(ctx, resolution.Key)
	if err != nil {
		return fmt.Errorf("failed to get continuation token: %w", err)
	}
	token := maybeToken.OrElse("")

	difyResp, err := u.difyClient.SendChatMessage(ctx, clients.DifyChatMessageParams{
		Query:          event.Text,
		ConversationID: token,
		User:           "slack-" + event.User,
	})
	if err != nil {
		log.Printf("❌ Backend invocation failed for event %s: %v", event.EventID, err)
		u.notifyFailure(ctx, event.Channel, resolution)
		return fmt.Errorf("failed to invoke backend: %w", err)
	}

	reply := markup.ToSlack(difyResp.Answer)

	if _, err := u.slackClient.PostMessage(ctx, event.Channel, clients.SlackMessageParams{
		Text:     reply,
		ThreadTS: replyAnchorOption(resolution),
	}); err != nil {
		return fmt.Errorf("failed to post reply to Slack: %w", err)
	}

	if difyResp.ConversationID != "" && difyResp.ConversationID != token {
		if err := u.conversationStore.SetContinuationToken(ctx, resolution.Key, difyResp.ConversationID); err != nil {
			return fmt.Errorf("failed to store continuation token: %w", err)
		}
	}

	log.Printf("✅ Completed successfully - replied to event %s in %s", event.EventID, event.Channel)
	return nil
}

// notifyFailure posts a best-effort apology into the originating
// channel/thread. Errors here are logged and swallowed - the original
// failure is what gets propagated.
func (u *BridgeUseCase) notifyFailure(ctx context.Context, channelID string, resolution conversation.Resolution) {
	_, err := u.slackClient.PostMessage(ctx, channelID, clients.SlackMessageParams{
		Text:     "Sorry, an error occurred while processing your request.",
		ThreadTS: replyAnchorOption(resolution),
	})
	if err != nil {
		log.Printf("⚠️ Could not notify user about processing error: %v", err)
	}
}

func replyAnchorOption(resolution conversation.Resolution) mo.Option[string] {
	if resolution.ReplyAnchor == "" {
		return mo.None[string]()
	}
	return mo.Some(resolution.ReplyAnchor)
}
