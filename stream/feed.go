// Package stream fans simulation events out to connected clients.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/shop"
)

var (
	idSeed = [...]byte{115, 104, 111, 112, 115, 105, 109, 0, 163, 125, 98, 19, 3, 1, 102, 17, 228, 84, 34, 216, 129, 91, 143, 122, 40, 166, 236, 206, 232, 87, 208, 244}
)

const (
	MessageSizeLimit  = 65_535
	MaxMessageTypeLen = 16

	TypePreview MessageType = "preview"
	TypeDay     MessageType = "day"

	feedMessageTypePrefix = "feed:"
	subscribeMessage      = "subscribe"
	unsubscribeMessage    = "unsubscribe"
)

type ID = [16]byte

type MessageType = string

type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type subscriptionMessage struct {
	MessageType MessageType `json:"messageType"`
}

// Feed broadcasts engine events to subscribed channels. New channels
// are subscribed to every event type.
type Feed struct {
	logger *log.Logger
	rnd    *rand.ChaCha8

	mu       sync.RWMutex
	channels map[ID]*Channel
}

func NewFeed(logger *log.Logger) *Feed {
	assert.AssertNotNil(logger)
	return &Feed{
		logger:   logger,
		rnd:      rand.NewChaCha8(idSeed),
		channels: map[ID]*Channel{},
	}
}

// Connect registers writer as a new channel and returns its ID.
func (f *Feed) Connect(writer io.Writer) ID {
	assert.AssertNotNil(writer)

	f.mu.Lock()
	defer f.mu.Unlock()

	id := ID{}
	_, _ = f.rnd.Read(id[:])
	f.channels[id] = newChannel(id, writer, TypePreview, TypeDay)
	return id
}

// Disconnect removes the channel. Unknown IDs are ignored.
func (f *Feed) Disconnect(id ID) {
	f.mu.Lock()
	delete(f.channels, id)
	f.mu.Unlock()
}

func (f *Feed) Channel(id ID) *Channel {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.channels[id]
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.channels)
}

// Message handles a message sent by the client on channel id.
// Only subscription management is understood.
func (f *Feed) Message(id ID, data []byte) error {
	channel := f.Channel(id)
	if channel == nil {
		return fmt.Errorf("channel does not exist")
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("unmarshal message: %s", err)
	}
	if len(msg.Type) > MaxMessageTypeLen {
		return fmt.Errorf("message type too long, expect length of %d but got %d", MaxMessageTypeLen, len(msg.Type))
	}
	if !strings.HasPrefix(msg.Type, feedMessageTypePrefix) {
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	var sub subscriptionMessage
	if err := json.Unmarshal(msg.Payload, &sub); err != nil {
		return fmt.Errorf("unmarshal subscription: %s", err)
	}
	if sub.MessageType != TypePreview && sub.MessageType != TypeDay {
		return fmt.Errorf("cannot subscribe to %q", sub.MessageType)
	}

	switch strings.TrimPrefix(msg.Type, feedMessageTypePrefix) {
	case subscribeMessage:
		channel.subscribe(sub.MessageType)
	case unsubscribeMessage:
		channel.unsubscribe(sub.MessageType)
	default:
		return fmt.Errorf("invalid feed action: %s", msg.Type)
	}
	return nil
}

// Broadcast marshals payload and writes it to every channel
// subscribed to typ.
func (f *Feed) Broadcast(typ MessageType, payload any) error {
	assert.AssertNotEmpty(typ)
	assert.Assert(len(typ) <= MaxMessageTypeLen, "message type too long")

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json marshal: %s", err)
	}
	if len(body) > MessageSizeLimit {
		return fmt.Errorf("payload too long: %d bytes", len(body))
	}

	data, err := json.Marshal(Message{Type: typ, Payload: body})
	if err != nil {
		return fmt.Errorf("json marshal: %s", err)
	}

	f.mu.RLock()
	channels := make([]*Channel, 0, len(f.channels))
	for _, c := range f.channels {
		channels = append(channels, c)
	}
	f.mu.RUnlock()

	for _, c := range channels {
		if !c.IsSubscribedTo(typ) {
			continue
		}
		if _, err := c.writer.Write(data); err != nil {
			f.logger.Warn("write on channel", "channelID", c.ID(), "err", err)
		}
	}
	return nil
}

func (f *Feed) Preview(p shop.Preview) {
	if err := f.Broadcast(TypePreview, p); err != nil {
		f.logger.Error("broadcast preview", "err", err)
	}
}

func (f *Feed) Day(r shop.DayReport) {
	if err := f.Broadcast(TypeDay, r); err != nil {
		f.logger.Error("broadcast day", "err", err)
	}
}

type Channel struct {
	id            ID
	writer        io.Writer
	mu            sync.RWMutex
	subscriptions []MessageType
}

func newChannel(id ID, writer io.Writer, subs ...MessageType) *Channel {
	assert.AssertNotNil(writer)
	return &Channel{
		id:            id,
		writer:        writer,
		subscriptions: subs,
	}
}

func (c *Channel) ID() ID {
	return c.id
}

func (c *Channel) IsSubscribedTo(typ MessageType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.subscriptions, typ)
}

func (c *Channel) Subscriptions() []MessageType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.subscriptions)
}

func (c *Channel) subscribe(typ MessageType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.Contains(c.subscriptions, typ) {
		return
	}
	c.subscriptions = append(c.subscriptions, typ)
}

func (c *Channel) unsubscribe(typ MessageType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions = slices.DeleteFunc(c.subscriptions, func(t MessageType) bool {
		return t == typ
	})
}

type WriterFunc func(data []byte) (n int, err error)

func (f WriterFunc) Write(data []byte) (n int, err error) {
	return f(data)
}
