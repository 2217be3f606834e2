package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Service keeps per-session conversation history in memory with a bounded
// window. It is safe for concurrent use.
type Service struct {
	window    int
	histories map[string][]Message
	mtx       sync.RWMutex
}

func (s *Service) CreateSession(ctx context.Context, id string) string {
	if len(strings.TrimSpace(id)) == 0 {
		id = fmt.Sprintf("session-%d", time.Now().UnixNano())
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.histories[id]; !ok {
		s.histories[id] = []Message{}
	}

	return id
}

func (s *Service) ListSessionIds(ctx context.Context) []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	ids := make([]string, 0, len(s.histories))
	for id := range s.histories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Service) Append(ctx context.Context, sessionId string, role string, content string, meta map[string]string) {
	if len(strings.TrimSpace(content)) == 0 {
		return
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	history := append(s.histories[sessionId], Message{Role: role, Content: content, Meta: meta})
	if len(history) > s.window {
		history = history[len(history)-s.window:]
	}
	s.histories[sessionId] = history
}

func (s *Service) History(ctx context.Context, sessionId string) []Message {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	cpy := make([]Message, len(s.histories[sessionId]))
	copy(cpy, s.histories[sessionId])

	return cpy
}

func (s *Service) DeleteSession(ctx context.Context, id string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.histories, id)
}

func New(window int) *Service {
	if window <= 0 {
		window = 20
	}

	return &Service{
		window:    window,
		histories: map[string][]Message{},
		mtx:       sync.RWMutex{},
	}
}
