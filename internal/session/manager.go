package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	userLabel      = "Korisnik"
	assistantLabel = "TurBot"

	defaultHistoryMax = 6
)

// Message is one conversational turn. Assistant content is the serialized
// answer payload; History unwraps it to its free-text field for display.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type sessionState struct {
	createdAt  time.Time
	lastActive time.Time
	messages   []Message
	// seq advances on every append and keys the transcript cache. Seeded from
	// the clock so a deleted-then-recreated id never collides with old cache
	// entries.
	seq uint64
}

func newSessionState(now time.Time) *sessionState {
	return &sessionState{
		createdAt:  now,
		lastActive: now,
		seq:        uint64(now.UnixNano()),
	}
}

// View is a read-only snapshot of a session for introspection.
type View struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// Manager is the process-wide registry of conversational state. All access
// goes through one RWMutex; idle sessions are swept by a janitor goroutine so
// the registry cannot grow without bound.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState

	cache   *HistoryCache // optional; nil disables transcript caching
	idleTTL time.Duration

	stopJanitor chan struct{}
	janitorOnce sync.Once
}

// NewManager builds a registry. idleTTL <= 0 disables eviction; cache may be
// nil.
func NewManager(idleTTL time.Duration, cache *HistoryCache) *Manager {
	m := &Manager{
		sessions:    make(map[string]*sessionState),
		cache:       cache,
		idleTTL:     idleTTL,
		stopJanitor: make(chan struct{}),
	}
	if idleTTL > 0 {
		go m.janitor()
	}
	return m
}

// Close stops the janitor goroutine.
func (m *Manager) Close() {
	m.janitorOnce.Do(func() { close(m.stopJanitor) })
}

// GetOrCreate returns the id of an existing session, creating one lazily. An
// empty id yields a fresh random token.
func (m *Manager) GetOrCreate(id string) string {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		m.sessions[id] = newSessionState(time.Now())
	}
	return id
}

// Append adds a message to the session, creating the session if needed.
func (m *Manager) Append(id, role, content string) {
	now := time.Now()

	m.mu.Lock()
	state, ok := m.sessions[id]
	if !ok {
		state = newSessionState(now)
		m.sessions[id] = state
	}
	state.lastActive = now
	state.seq++
	state.messages = append(state.messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	m.mu.Unlock()
}

// History renders the most recent max messages as a transcript, one
// "<label>: <content>" line per message. The snapshot of messages and the
// cache key's sequence come from the same critical section, so a concurrent
// append can never make a cached transcript lie about its sequence.
func (m *Manager) History(ctx context.Context, id string, max int) string {
	if max <= 0 {
		max = defaultHistoryMax
	}

	m.mu.RLock()
	state, ok := m.sessions[id]
	var seq uint64
	var recent []Message
	if ok {
		seq = state.seq
		msgs := state.messages
		if len(msgs) > max {
			msgs = msgs[len(msgs)-max:]
		}
		recent = append(recent, msgs...)
	}
	m.mu.RUnlock()

	if !ok {
		return ""
	}

	if m.cache != nil {
		if cached, hit, err := m.cache.Get(ctx, id, seq, max); err == nil && hit {
			return cached
		}
	}

	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		label := userLabel
		content := msg.Content
		if msg.Role == RoleAssistant {
			label = assistantLabel
			content = unwrapAssistantContent(content)
		}
		lines = append(lines, label+": "+content)
	}
	rendered := strings.Join(lines, "\n")

	if m.cache != nil {
		_ = m.cache.Set(ctx, id, seq, max, rendered)
	}
	return rendered
}

// Get returns a snapshot of the session, or ok=false for an unknown id.
func (m *Manager) Get(id string) (View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return View{}, false
	}
	messages := make([]Message, len(state.messages))
	copy(messages, state.messages)
	return View{ID: id, CreatedAt: state.createdAt, Messages: messages}, true
}

// Delete removes the session; reports whether it existed. Cache entries are
// left to their TTL: History refuses unknown ids before touching the cache,
// and a recreated id starts at a fresh sequence.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) janitor() {
	interval := m.idleTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopJanitor:
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, state := range m.sessions {
		if now.Sub(state.lastActive) > m.idleTTL {
			delete(m.sessions, id)
		}
	}
}

// unwrapAssistantContent extracts the free-text field from a structured
// assistant payload; non-JSON content passes through unchanged.
func unwrapAssistantContent(raw string) string {
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload.Content != "" {
		return payload.Content
	}
	return raw
}
