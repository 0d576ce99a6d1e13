package store

import (
	"sync"
	"time"

	"portfolio/pkg/domain"
)

// MemoryStore keeps all records in-process. It backs tests and local
// development runs without Postgres.
type MemoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	contacts    []domain.ContactMessage
	subscribers []domain.Subscriber
	votes       []domain.FireVote
	counter     *domain.FireCounter
	projects    []domain.Project
	skills      []domain.Skill
	techStack   []domain.TechStackItem
	experiences []domain.Experience
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// SaveContactMessage appends a contact message and returns the stored copy.
func (m *MemoryStore) SaveContactMessage(msg domain.ContactMessage) (domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = m.allocID()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	m.contacts = append(m.contacts, msg)
	return msg, nil
}

// ListContactMessages returns messages newest first.
func (m *MemoryStore) ListContactMessages() ([]domain.ContactMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ContactMessage, 0, len(m.contacts))
	for i := len(m.contacts) - 1; i >= 0; i-- {
		res = append(res, m.contacts[i])
	}
	return res, nil
}

// GetSubscriberByEmail looks up a subscriber by exact email.
func (m *MemoryStore) GetSubscriberByEmail(email string) (domain.Subscriber, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subscribers {
		if sub.Email == email {
			return sub, true, nil
		}
	}
	return domain.Subscriber{}, false, nil
}

// SaveSubscriber appends a subscriber and returns the stored copy.
func (m *MemoryStore) SaveSubscriber(sub domain.Subscriber) (domain.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub.ID = m.allocID()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	m.subscribers = append(m.subscribers, sub)
	return sub, nil
}

// ListSubscribers returns subscribers in signup order.
func (m *MemoryStore) ListSubscribers() ([]domain.Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Subscriber, len(m.subscribers))
	copy(res, m.subscribers)
	return res, nil
}

// HasFireVote checks whether a vote exists for (ip, date).
func (m *MemoryStore) HasFireVote(ipAddress, voteDate string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.votes {
		if v.IPAddress == ipAddress && v.VoteDate == voteDate {
			return true, nil
		}
	}
	return false, nil
}

// SaveFireVote appends a vote row.
func (m *MemoryStore) SaveFireVote(vote domain.FireVote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vote.ID = m.allocID()
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	m.votes = append(m.votes, vote)
	return nil
}

// GetFireCounter returns the counter, creating it at 0 on first read.
func (m *MemoryStore) GetFireCounter() (domain.FireCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.counterRow(), nil
}

// IncrementFireCounter bumps the counter and returns the new value.
func (m *MemoryStore) IncrementFireCounter() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counter := m.counterRow()
	counter.Count++
	counter.LastReset = time.Now().UTC()
	return counter.Count, nil
}

func (m *MemoryStore) counterRow() *domain.FireCounter {
	if m.counter == nil {
		m.counter = &domain.FireCounter{Count: 0, LastReset: time.Now().UTC()}
	}
	return m.counter
}

// FireCounterExists reports whether the singleton row has been created.
func (m *MemoryStore) FireCounterExists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counter != nil
}

// SaveProject appends a project and returns the stored copy.
func (m *MemoryStore) SaveProject(p domain.Project) (domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.allocID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.projects = append(m.projects, p)
	return p, nil
}

// ListProjects returns projects in insertion order.
func (m *MemoryStore) ListProjects() ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Project, len(m.projects))
	copy(res, m.projects)
	return res, nil
}

// SaveSkill appends a skill and returns the stored copy.
func (m *MemoryStore) SaveSkill(sk domain.Skill) (domain.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sk.ID = m.allocID()
	if sk.CreatedAt.IsZero() {
		sk.CreatedAt = time.Now().UTC()
	}
	m.skills = append(m.skills, sk)
	return sk, nil
}

// ListSkills returns skills in insertion order.
func (m *MemoryStore) ListSkills() ([]domain.Skill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Skill, len(m.skills))
	copy(res, m.skills)
	return res, nil
}

// SaveTechStackItem appends a tile and returns the stored copy.
func (m *MemoryStore) SaveTechStackItem(item domain.TechStackItem) (domain.TechStackItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.allocID()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	m.techStack = append(m.techStack, item)
	return item, nil
}

// ListTechStack returns tiles in insertion order.
func (m *MemoryStore) ListTechStack() ([]domain.TechStackItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.TechStackItem, len(m.techStack))
	copy(res, m.techStack)
	return res, nil
}

// SaveExperience appends an entry and returns the stored copy.
func (m *MemoryStore) SaveExperience(e domain.Experience) (domain.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.allocID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.experiences = append(m.experiences, e)
	return e, nil
}

// ListExperiences returns entries in insertion order.
func (m *MemoryStore) ListExperiences() ([]domain.Experience, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Experience, len(m.experiences))
	copy(res, m.experiences)
	return res, nil
}
