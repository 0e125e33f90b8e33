package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryRegistry is an in-memory TopicRegistry for tests and local runs
// without a Redis instance.
type MemoryRegistry struct {
	mu          sync.Mutex
	tags        map[string]string
	subscribers map[string]map[string]struct{}
}

// NewMemoryRegistry creates an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		tags:        make(map[string]string),
		subscribers: make(map[string]map[string]struct{}),
	}
}

func (m *MemoryRegistry) List(ctx context.Context) ([]Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]Topic, 0, len(m.tags))
	for id, url := range m.tags {
		if !IsNotifierTopic(id) {
			continue
		}
		topics = append(topics, Topic{ID: id, OrderingURL: url})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func (m *MemoryRegistry) Create(ctx context.Context, storeID, orderingURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := TopicID(storeID)
	if _, exists := m.tags[id]; exists {
		return nil
	}
	m.tags[id] = orderingURL
	return nil
}

func (m *MemoryRegistry) Subscribers(ctx context.Context, topicID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.subscribers[topicID]
	phones := make([]string, 0, len(set))
	for phone := range set {
		phones = append(phones, phone)
	}
	sort.Strings(phones)
	return phones, nil
}

func (m *MemoryRegistry) Subscribe(ctx context.Context, topicID, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribers[topicID] == nil {
		m.subscribers[topicID] = make(map[string]struct{})
	}
	m.subscribers[topicID][phone] = struct{}{}
	return nil
}

func (m *MemoryRegistry) OrderingURL(ctx context.Context, topicID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tags[topicID], nil
}

func (m *MemoryRegistry) Delete(ctx context.Context, topicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tags, topicID)
	delete(m.subscribers, topicID)
	return nil
}

// Exists reports whether a topic is registered. Test helper.
func (m *MemoryRegistry) Exists(topicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tags[topicID]
	return ok
}
