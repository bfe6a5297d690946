package message

import "time"

// Received is a message received from a chat service.
// It is read-only for everything that handles it.
type Received struct {
	// ID is the unique ID of the message.
	ID string
	// Channel is the channel in which the message was sent.
	Channel string
	// Guild is the server containing the channel.
	// It is empty for direct messages.
	Guild string
	// AuthorID is a unique identifier for the message sender.
	AuthorID string
	// Author is the name of the message sender.
	Author string
	// Text is the text of the message.
	Text string
	// Timestamp is the time at which the message was sent.
	Timestamp time.Time
}

// Time returns the message timestamp formatted for records.
func (m *Received) Time() string {
	return m.Timestamp.Format(time.RFC3339)
}

// Sent is a message to be sent to a service.
type Sent struct {
	// Reply is a message to reply to. If empty, the message is not interpreted
	// as a reply.
	Reply string
	// To is the channel to which the message is sent.
	To string
	// Text is the message text.
	Text string
}

// Reply constructs a threaded reply to a received message.
// The text is sent exactly as given.
func Reply(m *Received, text string) Sent {
	return Sent{Reply: m.ID, To: m.Channel, Text: text}
}
