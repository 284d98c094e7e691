package repository

import (
	"database/sql"
	"go-todo-api/logger"
	"go-todo-api/model"

	"github.com/sirupsen/logrus"
)

// ITodoRepository defines the contract for to-do database operations.
// Every query is scoped to the owning user so one user can never read or
// mutate another user's items.
type ITodoRepository interface {
	CreateTodo(todo *model.Todo) error
	GetTodosByUserID(userID int) ([]*model.Todo, error)
	ToggleTodo(todoID, userID int) (*model.Todo, error)
	ClearCompleted(userID int) (int64, error)
}

// TodoRepository implements ITodoRepository.
type TodoRepository struct {
	DB *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

// CreateTodo inserts a new to-do item for its owner.
func (r *TodoRepository) CreateTodo(todo *model.Todo) error {
	log := logger.Log.WithField("user_id", todo.UserID)
	log.Info("Executing query to create a new todo")

	query := `INSERT INTO todos (user_id, text) VALUES ($1, $2) RETURNING id, completed, created_at`
	err := r.DB.QueryRow(query, todo.UserID, todo.Text).Scan(&todo.ID, &todo.Completed, &todo.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create todo query")
		return err
	}
	return nil
}

// GetTodosByUserID retrieves all to-dos for a user, newest first.
func (r *TodoRepository) GetTodosByUserID(userID int) ([]*model.Todo, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to get todos by user ID")

	query := `SELECT id, user_id, text, completed, created_at FROM todos WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for todos by user ID")
		return nil, err
	}
	defer rows.Close()

	var todos []*model.Todo
	for rows.Next() {
		var todo model.Todo
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Text, &todo.Completed, &todo.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan todo row")
			return nil, err
		}
		todos = append(todos, &todo)
	}
	return todos, rows.Err()
}

// ToggleTodo flips the completed flag of a to-do owned by userID.
// Returns sql.ErrNoRows when the item does not exist or belongs to someone
// else; the two cases are deliberately indistinguishable.
func (r *TodoRepository) ToggleTodo(todoID, userID int) (*model.Todo, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"todo_id": todoID,
		"user_id": userID,
	})
	log.Info("Executing query to toggle todo")

	todo := &model.Todo{}
	query := `UPDATE todos SET completed = NOT completed WHERE id = $1 AND user_id = $2
	          RETURNING id, user_id, text, completed, created_at`
	err := r.DB.QueryRow(query, todoID, userID).Scan(&todo.ID, &todo.UserID, &todo.Text, &todo.Completed, &todo.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute toggle todo query")
		}
		return nil, err
	}
	return todo, nil
}

// ClearCompleted deletes all completed to-dos for a user and reports how
// many rows were removed.
func (r *TodoRepository) ClearCompleted(userID int) (int64, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to clear completed todos")

	query := `DELETE FROM todos WHERE user_id = $1 AND completed = TRUE`
	result, err := r.DB.Exec(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute clear completed query")
		return 0, err
	}
	return result.RowsAffected()
}
