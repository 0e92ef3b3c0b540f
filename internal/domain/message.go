package domain

import "strings"

// Message kind tags accepted by the factory discriminator.
const (
	MessageKindText      = "text"
	MessageKindVideoCall = "video-call"
)

// Call outcomes tracked by CallRecord.
const (
	CallMissed    = "missed"
	CallCompleted = "completed"
	CallDeclined  = "declined"
)

// ConversationKey derives the canonical thread identifier for a two-party
// conversation: the pair of ids sorted and joined, so key(a,b) == key(b,a)
// regardless of who sent the message.
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

// Message is the capability shared by direct-message variants.
type Message interface {
	Model
	Sender() User
	Receiver() User
	Content() string
	Read() bool
	Kind() string
	MarkRead()
	SentBy(User) bool
	FormattedTime() string
}

// TextMessage is a direct message between two members.
type TextMessage struct {
	entity
	sender   User
	receiver User
	content  string
	read     bool
	kind     string
}

// NewTextMessage constructs a message from a plain record. "sender" and
// "receiver" hold live User references.
func NewTextMessage(rec Record) *TextMessage {
	return &TextMessage{
		entity:   newEntity(rec),
		sender:   rec.user("sender"),
		receiver: rec.user("receiver"),
		content:  rec.stringOr("content", ""),
		read:     rec.boolOr("isRead", false),
		kind:     rec.stringOr("type", MessageKindText),
	}
}

func (m *TextMessage) Sender() User    { return m.sender }
func (m *TextMessage) Receiver() User  { return m.receiver }
func (m *TextMessage) Content() string { return m.content }
func (m *TextMessage) Kind() string    { return m.kind }

func (m *TextMessage) Read() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read
}

// MarkRead flags the message as read. Idempotent.
func (m *TextMessage) MarkRead() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.read {
		return
	}
	m.read = true
	m.touch()
}

// SentBy reports whether the given user authored this message.
func (m *TextMessage) SentBy(u User) bool {
	return m.sender != nil && u != nil && m.sender.ID() == u.ID()
}

// FormattedTime renders the send time as hour:minute.
func (m *TextMessage) FormattedTime() string {
	return m.createdAt.Format("15:04")
}

func (m *TextMessage) Validate() error {
	if m.sender == nil {
		return invalidf("message sender is required")
	}
	if m.receiver == nil {
		return invalidf("message receiver is required")
	}
	if strings.TrimSpace(m.content) == "" {
		return invalidf("message content is required")
	}
	return nil
}

// record builds the shared portion of a message record. Callers hold at
// least the read lock.
func (m *TextMessage) record() Record {
	rec := m.baseRecord()
	rec["sender"] = serializeRef(m.sender)
	rec["receiver"] = serializeRef(m.receiver)
	rec["content"] = m.content
	rec["isRead"] = m.read
	rec["type"] = m.kind
	rec["time"] = m.FormattedTime()
	return rec
}

func (m *TextMessage) Serialize() Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.record()
}

// CallRecord is the message variant left behind by a video call. Its kind tag
// is fixed to video-call regardless of the inbound record.
type CallRecord struct {
	TextMessage
	duration int
	status   string
}

// NewCallRecord constructs a call record from a plain record.
func NewCallRecord(rec Record) *CallRecord {
	base := NewTextMessage(rec)
	base.kind = MessageKindVideoCall
	return &CallRecord{
		TextMessage: *base,
		duration:    rec.intOr("duration", 0),
		status:      rec.stringOr("callStatus", CallMissed),
	}
}

func (c *CallRecord) Duration() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.duration
}

func (c *CallRecord) Status() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *CallRecord) SetDuration(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = seconds
	c.touch()
}

func (c *CallRecord) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.touch()
}

// FormattedDuration renders the call length as minutes:seconds.
func (c *CallRecord) FormattedDuration() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return formatClock(c.duration)
}

func (c *CallRecord) Serialize() Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec := c.record()
	rec["duration"] = c.duration
	rec["callStatus"] = c.status
	rec["formattedDuration"] = formatClock(c.duration)
	return rec
}
