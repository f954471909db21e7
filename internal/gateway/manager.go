package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/redis"
)

const replayBufferSize = 100

// Manager tracks active WebSocket connections and routes events to the
// channels each user is subscribed to.
type Manager struct {
	mu            sync.RWMutex
	connections   map[int64]*Connection    // userID -> connection
	subscriptions map[int64]map[int64]bool // channelID -> set of userIDs
	sessions      map[string]*Connection   // sessionID -> connection

	// Ring buffer per channel for session resume replay.
	replayMu     sync.RWMutex
	replayBuffer map[int64]*ringBuffer

	tokens   *auth.TokenService
	channels database.ChannelRepository
	redis    *redis.Client
}

// NewManager creates a gateway Manager.
func NewManager(tokens *auth.TokenService, channels database.ChannelRepository, redisClient *redis.Client) *Manager {
	return &Manager{
		connections:   make(map[int64]*Connection),
		subscriptions: make(map[int64]map[int64]bool),
		sessions:      make(map[string]*Connection),
		replayBuffer:  make(map[int64]*ringBuffer),
		tokens:        tokens,
		channels:      channels,
		redis:         redisClient,
	}
}

// register adds a connection, displacing any existing one for the same user.
func (m *Manager) register(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.connections[c.UserID]; ok {
		old.SendPayload(Payload{Op: OpReconnect})
		old.Close()
		delete(m.sessions, old.SessionID)
	}

	m.connections[c.UserID] = c
	m.sessions[c.SessionID] = c
}

// unregister removes a connection and its subscriptions.
func (m *Manager) unregister(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.connections[c.UserID]; ok && existing == c {
		delete(m.connections, c.UserID)

		for channelID, members := range m.subscriptions {
			delete(members, c.UserID)
			if len(members) == 0 {
				delete(m.subscriptions, channelID)
			}
		}

		go m.clearPresenceWithGrace(c.UserID)
	}

	delete(m.sessions, c.SessionID)
}

// clearPresenceWithGrace waits before setting offline, allowing reconnection.
func (m *Manager) clearPresenceWithGrace(userID int64) {
	time.Sleep(10 * time.Second)

	m.mu.RLock()
	_, stillConnected := m.connections[userID]
	m.mu.RUnlock()

	if stillConnected {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.redis.SetPresence(ctx, userID, "offline"); err != nil {
		slog.Error("failed to clear presence", "userID", userID, "error", err)
	}

	m.broadcastPresence(userID, "offline")
}

func (m *Manager) subscribe(userID, channelID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subscriptions[channelID] == nil {
		m.subscriptions[channelID] = make(map[int64]bool)
	}
	m.subscriptions[channelID][userID] = true
}

// SubscribeToChannel adds a user to a channel's event subscription.
func (m *Manager) SubscribeToChannel(userID, channelID int64) {
	m.subscribe(userID, channelID)
}

// UnsubscribeFromChannel removes a user from a channel's event subscription.
func (m *Manager) UnsubscribeFromChannel(userID, channelID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if members, ok := m.subscriptions[channelID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.subscriptions, channelID)
		}
	}
}

// DispatchToUser sends a dispatch event to one connected user.
func (m *Manager) DispatchToUser(userID int64, event string, data any) {
	m.mu.RLock()
	c, ok := m.connections[userID]
	m.mu.RUnlock()

	if ok {
		c.SendEvent(event, data)
	}
}

// DispatchToChannel sends a dispatch event to every subscriber of a channel.
func (m *Manager) DispatchToChannel(channelID int64, event string, data any) {
	m.mu.RLock()
	members := m.subscriptions[channelID]
	conns := make([]*Connection, 0, len(members))
	for userID := range members {
		if c, ok := m.connections[userID]; ok {
			conns = append(conns, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range conns {
		c.SendEvent(event, data)
	}

	m.storeReplayEvent(channelID, Event{Name: event, Data: data})
}

// DispatchToChannelExcept sends a dispatch event to all subscribers but one.
func (m *Manager) DispatchToChannelExcept(channelID int64, exceptUserID int64, event string, data any) {
	m.mu.RLock()
	members := m.subscriptions[channelID]
	conns := make([]*Connection, 0, len(members))
	for userID := range members {
		if userID == exceptUserID {
			continue
		}
		if c, ok := m.connections[userID]; ok {
			conns = append(conns, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range conns {
		c.SendEvent(event, data)
	}

	m.storeReplayEvent(channelID, Event{Name: event, Data: data})
}

func (m *Manager) sendToChannelInternal(channelID int64, event Event) {
	m.mu.RLock()
	members := m.subscriptions[channelID]
	conns := make([]*Connection, 0, len(members))
	for userID := range members {
		if c, ok := m.connections[userID]; ok {
			conns = append(conns, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range conns {
		c.SendEvent(event.Name, event.Data)
	}

	m.storeReplayEvent(channelID, event)
}

// handleIdentify processes an IDENTIFY payload from a client.
func (m *Manager) handleIdentify(c *Connection, data json.RawMessage) {
	var identify IdentifyData
	if err := json.Unmarshal(data, &identify); err != nil {
		slog.Error("invalid identify data", "error", err)
		c.Close()
		return
	}

	claims, err := m.tokens.ValidateAccessToken(identify.Token)
	if err != nil {
		slog.Warn("invalid token in identify", "error", err)
		c.Close()
		return
	}

	c.UserID = claims.UserID
	c.SessionID = uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channels, err := m.channels.GetByUserID(ctx, c.UserID)
	if err != nil {
		slog.Error("failed to get channels for user", "userID", c.UserID, "error", err)
		c.Close()
		return
	}

	m.register(c)

	channelIDs := make([]int64, len(channels))
	for i, ch := range channels {
		channelIDs[i] = ch.ID
		m.subscribe(c.UserID, ch.ID)
	}

	if err := m.redis.SetPresence(ctx, c.UserID, "online"); err != nil {
		slog.Error("failed to set presence", "userID", c.UserID, "error", err)
	}

	c.SendEvent(EventReady, ReadyData{
		SessionID: c.SessionID,
		UserID:    c.UserID,
		Channels:  channelIDs,
	})

	m.broadcastPresence(c.UserID, "online")
}

// handleResume processes a RESUME payload and replays missed events.
func (m *Manager) handleResume(c *Connection, data json.RawMessage) {
	var resume ResumeData
	if err := json.Unmarshal(data, &resume); err != nil {
		slog.Error("invalid resume data", "error", err)
		c.SendPayload(Payload{Op: OpReconnect})
		c.Close()
		return
	}

	claims, err := m.tokens.ValidateAccessToken(resume.Token)
	if err != nil {
		slog.Warn("invalid token in resume", "error", err)
		c.Close()
		return
	}

	c.UserID = claims.UserID
	c.SessionID = resume.SessionID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channels, err := m.channels.GetByUserID(ctx, c.UserID)
	if err != nil {
		slog.Error("failed to get channels on resume", "userID", c.UserID, "error", err)
		c.SendPayload(Payload{Op: OpReconnect})
		c.Close()
		return
	}

	m.register(c)

	for _, ch := range channels {
		m.subscribe(c.UserID, ch.ID)

		m.replayMu.RLock()
		rb, ok := m.replayBuffer[ch.ID]
		m.replayMu.RUnlock()

		if ok {
			for _, ev := range rb.since(resume.Sequence) {
				c.SendEvent(ev.Name, ev.Data)
			}
		}
	}
}

// handlePresenceUpdate processes a client presence update.
func (m *Manager) handlePresenceUpdate(c *Connection, data json.RawMessage) {
	var update ClientPresenceUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return
	}

	switch update.Status {
	case "online", "idle", "dnd", "invisible":
		// valid
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := update.Status
	if status == "invisible" {
		status = "offline"
	}
	if err := m.redis.SetPresence(ctx, c.UserID, status); err != nil {
		slog.Error("failed to update presence", "userID", c.UserID, "error", err)
		return
	}

	m.broadcastPresence(c.UserID, status)
}

// broadcastPresence sends a PRESENCE_UPDATE event to every channel the user
// is subscribed to.
func (m *Manager) broadcastPresence(userID int64, status string) {
	event := Event{
		Name: EventPresenceUpdate,
		Data: PresenceUpdateData{UserID: userID, Status: status},
	}

	m.mu.RLock()
	var channelIDs []int64
	for channelID, members := range m.subscriptions {
		if members[userID] {
			channelIDs = append(channelIDs, channelID)
		}
	}
	m.mu.RUnlock()

	for _, channelID := range channelIDs {
		m.sendToChannelInternal(channelID, event)
	}
}

// storeReplayEvent adds an event to the channel's replay ring buffer.
func (m *Manager) storeReplayEvent(channelID int64, event Event) {
	m.replayMu.Lock()
	defer m.replayMu.Unlock()

	rb, ok := m.replayBuffer[channelID]
	if !ok {
		rb = newRingBuffer(replayBufferSize)
		m.replayBuffer[channelID] = rb
	}
	rb.add(event)
}

// sequencedEvent pairs an event with its sequence number for replay.
type sequencedEvent struct {
	Sequence int64
	Event
}

// ringBuffer is a fixed-size circular buffer for replay events.
type ringBuffer struct {
	events []sequencedEvent
	size   int
	pos    int
	seq    int64
	full   bool
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		events: make([]sequencedEvent, size),
		size:   size,
	}
}

func (rb *ringBuffer) add(event Event) {
	rb.seq++
	rb.events[rb.pos] = sequencedEvent{Sequence: rb.seq, Event: event}
	rb.pos = (rb.pos + 1) % rb.size
	if rb.pos == 0 {
		rb.full = true
	}
}

// since returns all events with sequence > afterSeq.
func (rb *ringBuffer) since(afterSeq int64) []Event {
	var result []Event
	count := rb.size
	if !rb.full {
		count = rb.pos
	}

	start := 0
	if rb.full {
		start = rb.pos
	}

	for i := 0; i < count; i++ {
		idx := (start + i) % rb.size
		if rb.events[idx].Sequence > afterSeq {
			result = append(result, rb.events[idx].Event)
		}
	}
	return result
}
