// Package conversation decides which stored dialogue an inbound Slack event
// belongs to and where the reply should be threaded.
package conversation

// EventType classifies the inbound event shape the resolver cares about.
type EventType string

const (
	EventTypeMention       EventType = "mention"
	EventTypeDirectMessage EventType = "direct_message"
	EventTypeOther         EventType = "other"
)

// ChannelType classifies where the message was posted.
type ChannelType string

const (
	ChannelTypeChannel ChannelType = "channel"
	ChannelTypeGroup   ChannelType = "group"
	ChannelTypeDirect  ChannelType = "direct"
	ChannelTypeUnknown ChannelType = "unknown"
)

// Event is the descriptor the resolver classifies. It is built by the
// webhook handler from the platform's event_callback payload.
type Event struct {
	Type        EventType
	ChannelType ChannelType
	ChannelID   string
	MessageTS   string
	ThreadTS    string
	Text        string
}

// Kind tags the mutually exclusive classification outcomes.
type Kind int

const (
	// KindUnhandled means the event matches no recognized case and must be
	// skipped by the caller. It is a normal outcome, not an error.
	KindUnhandled Kind = iota
	KindDirectMessage
	KindThreadedMention
	KindNewMention
)

func (k Kind) String() string {
	switch k {
	case KindDirectMessage:
		return "direct_message"
	case KindThreadedMention:
		return "threaded_mention"
	case KindNewMention:
		return "new_mention"
	default:
		return "unhandled"
	}
}

// Resolution carries the conversation key addressing the continuation-token
// store and the reply anchor for threading the outbound post. Both are empty
// when Kind is KindUnhandled; ReplyAnchor is also empty for direct messages,
// which are never threaded.
type Resolution struct {
	Kind        Kind
	Key         string
	ReplyAnchor string
}

// Resolve classifies an inbound event, in priority order:
//
//  1. Direct message: the whole DM channel is one conversation, so the key
//     is the channel ID regardless of message timestamp. Not threaded.
//  2. Threaded mention: keyed on the thread root timestamp, so every message
//     in the thread resolves to the same conversation - this is what gives
//     multi-turn memory within a thread. Reply goes into the same thread.
//  3. New top-level mention: the message originates a new thread whose root
//     is itself, so both key and anchor are its own timestamp.
//  4. Anything else is unhandled.
func Resolve(event Event) Resolution {
	switch {
	case event.Type == EventTypeDirectMessage && event.ChannelType == ChannelTypeDirect:
		return Resolution{Kind: KindDirectMessage, Key: event.ChannelID}
	case event.Type == EventTypeMention && event.ThreadTS != "":
		return Resolution{Kind: KindThreadedMention, Key: event.ThreadTS, ReplyAnchor: event.ThreadTS}
	case event.Type == EventTypeMention:
		return Resolution{Kind: KindNewMention, Key: event.MessageTS, ReplyAnchor: event.MessageTS}
	default:
		return Resolution{Kind: KindUnhandled}
	}
}
