package routehandlers_test

import (
	"context"
	"maps"
	"reflect"
	"sync"

	"github.com/butchersbasket/api/datastore"
	"github.com/butchersbasket/api/models"
	"github.com/google/uuid"
)

// In-memory substitutes for the Postgres-backed stores, so handler tests
// drive the real router without a database.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by email
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]models.User{}}
}

func (s *memUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Email]; exists {
		return datastore.ErrDuplicateEmail
	}
	s.users[user.Email] = *user
	return nil
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[email]
	if !exists {
		return nil, datastore.ErrNotFound
	}
	return &user, nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type memCollection struct {
	mu   sync.Mutex
	ids  []string // preserves insertion order
	docs map[string]models.Document
}

func newMemCollection() *memCollection {
	return &memCollection{docs: map[string]models.Document{}}
}

func (c *memCollection) Insert(_ context.Context, doc models.Document) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := uuid.NewString()
	c.ids = append(c.ids, id)
	c.docs[id] = maps.Clone(doc)
	return id, nil
}

func (c *memCollection) Find(_ context.Context, filter models.Document) ([]models.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := []models.Document{}
	for _, id := range c.ids {
		doc := c.docs[id]
		if matchesFilter(doc, filter) {
			out := maps.Clone(doc)
			out["id"] = id
			result = append(result, out)
		}
	}
	return result, nil
}

func (c *memCollection) FindByID(_ context.Context, id string) (models.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, exists := c.docs[id]
	if !exists {
		return nil, datastore.ErrNotFound
	}
	out := maps.Clone(doc)
	out["id"] = id
	return out, nil
}

func (c *memCollection) Update(_ context.Context, id string, fields models.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, exists := c.docs[id]
	if !exists {
		return datastore.ErrNotFound
	}
	maps.Copy(doc, fields)
	return nil
}

func (c *memCollection) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; !exists {
		return datastore.ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (c *memCollection) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func matchesFilter(doc, filter models.Document) bool {
	for key, want := range filter {
		if !reflect.DeepEqual(doc[key], want) {
			return false
		}
	}
	return true
}
