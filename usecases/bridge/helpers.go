package bridge

import (
	"difybridge/conversation"
	"difybridge/models"
)

// descriptorFromEvent maps the platform's raw event/channel type strings onto
// the resolver's descriptor enums.
func descriptorFromEvent(event models.SlackMessageEvent) conversation.Event {
	return conversation.Event{
		Type:        eventTypeFromSlack(event.Type),
		ChannelType: channelTypeFromSlack(event.ChannelType),
		ChannelID:   event.Channel,
		MessageTS:   event.TS,
		ThreadTS:    event.ThreadTS,
		Text:        event.Text,
	}
}

func eventTypeFromSlack(eventType string) conversation.EventType {
	switch eventType {
	case "app_mention":
		return conversation.EventTypeMention
	case "message":
		return conversation.EventTypeDirectMessage
	default:
		return conversation.EventTypeOther
	}
}

func channelTypeFromSlack(channelType string) conversation.ChannelType {
	switch channelType {
	case "channel":
		return conversation.ChannelTypeChannel
	case "group", "mpim":
		return conversation.ChannelTypeGroup
	case "im":
		return conversation.ChannelTypeDirect
	default:
		return conversation.ChannelTypeUnknown
	}
}
