// file: service/todo_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-todo-api/model"
	"go-todo-api/repository"
	"time"
)

var ErrTodoNotFound = errors.New("todo not found")

const todoCacheTTL = 10 * time.Minute

// TodoService handles to-do business logic with a cache-aside list on Redis:
// reads go through the cache, every mutation invalidates the owner's entry.
type TodoService struct {
	repo  repository.ITodoRepository
	cache ICacheClient
}

func NewTodoService(repo repository.ITodoRepository, cache ICacheClient) *TodoService {
	return &TodoService{
		repo:  repo,
		cache: cache,
	}
}

func todoCacheKey(userID int) string {
	return fmt.Sprintf("todos:%d", userID)
}

// ListTodosForUser returns the user's to-dos, newest first.
func (s *TodoService) ListTodosForUser(ctx context.Context, userID int) ([]*model.Todo, error) {
	cacheKey := todoCacheKey(userID)

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var todos []*model.Todo
		if err := json.Unmarshal([]byte(cached), &todos); err == nil {
			return todos, nil
		}
	}

	todos, err := s.repo.GetTodosByUserID(userID)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		// An empty list must serialize as [] rather than null.
		todos = []*model.Todo{}
	}

	if data, err := json.Marshal(todos); err == nil {
		s.cache.Set(ctx, cacheKey, data, todoCacheTTL)
	}

	return todos, nil
}

// CreateTodo stores a new incomplete to-do for the user.
func (s *TodoService) CreateTodo(ctx context.Context, userID int, text string) (*model.Todo, error) {
	todo := &model.Todo{
		UserID: userID,
		Text:   text,
	}

	if err := s.repo.CreateTodo(todo); err != nil {
		return nil, err
	}

	s.cache.Del(ctx, todoCacheKey(userID))
	return todo, nil
}

// ToggleTodo flips the completed flag of the user's to-do. A missing item
// and an item owned by another user both fail with ErrTodoNotFound.
func (s *TodoService) ToggleTodo(ctx context.Context, todoID, userID int) (*model.Todo, error) {
	todo, err := s.repo.ToggleTodo(todoID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	s.cache.Del(ctx, todoCacheKey(userID))
	return todo, nil
}

// ClearCompleted deletes the user's completed to-dos and reports the count.
func (s *TodoService) ClearCompleted(ctx context.Context, userID int) (int64, error) {
	deleted, err := s.repo.ClearCompleted(userID)
	if err != nil {
		return 0, err
	}

	s.cache.Del(ctx, todoCacheKey(userID))
	return deleted, nil
}
