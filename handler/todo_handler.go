package handler

import (
	"encoding/json"
	"go-todo-api/common"
	"go-todo-api/logger"
	"go-todo-api/model"
	"go-todo-api/service"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

type TodoHandler struct {
	service *service.TodoService
}

func NewTodoHandler(s *service.TodoService) *TodoHandler {
	return &TodoHandler{service: s}
}

// ListTodos godoc
// @Summary      List the user's to-dos
// @Tags         todos
// @Produce      json
// @Success      200  {array}   model.Todo
// @Failure      401  {object}  common.AppError "Authentication required"
// @Router       /todos/ [get]
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	todos, err := h.service.ListTodosForUser(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve todos", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(todos)
	return nil
}

// CreateTodo godoc
// @Summary      Create a to-do
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        todo body model.CreateTodoRequest true "To-do payload"
// @Success      201  {object}  model.Todo
// @Failure      400  {object}  common.AppError "Validation failure"
// @Failure      401  {object}  common.AppError "Authentication required"
// @Router       /todos/ [post]
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	var req model.CreateTodoRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
	})
	log.Info("Create todo request received")

	todo, err := h.service.CreateTodo(r.Context(), userID, req.Text)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create todo", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(todo)
	return nil
}

// ToggleTodo godoc
// @Summary      Toggle a to-do's completed flag
// @Tags         todos
// @Produce      json
// @Param        id path int true "To-do ID"
// @Success      200  {object}  model.Todo
// @Failure      404  {object}  common.AppError "To-do not found or owned by another user"
// @Router       /todos/{id}/toggle/ [patch]
func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	todoID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid todo ID in URL path", err)
	}

	todo, err := h.service.ToggleTodo(r.Context(), todoID, userID)
	if err != nil {
		if err == service.ErrTodoNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not toggle todo", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(todo)
	return nil
}

// ClearCompleted godoc
// @Summary      Delete all completed to-dos
// @Tags         todos
// @Produce      json
// @Success      200  {object}  map[string]int64 "Number of deleted items"
// @Router       /todos/clear_completed/ [delete]
func (h *TodoHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	deleted, err := h.service.ClearCompleted(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not clear completed todos", err)
	}

	// 200, not 204: the response carries the deleted count and net/http
	// suppresses bodies on 204 responses.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int64{"deleted": deleted})
	return nil
}
