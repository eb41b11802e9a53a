package todo

import (
	"context"
	"sync"

	"innkeep/internal/models"
)

// MemoryStore keeps todos in a map plus an explicit ordered id list, since
// map iteration alone would not preserve insertion order.
type MemoryStore struct {
	mu     sync.Mutex
	todos  map[int64]models.Todo
	order  []int64
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos: make(map[int64]models.Todo),
	}
}

func (s *MemoryStore) Create(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	todo.ID = s.nextID
	s.todos[todo.ID] = *todo
	s.order = append(s.order, todo.ID)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, skip, limit int) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := paginate(len(s.order), skip, limit)
	out := make([]models.Todo, 0, end-start)
	for _, id := range s.order[start:end] {
		out = append(out, s.todos[id])
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &todo, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	todo.ID = id
	s.todos[id] = *todo
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
