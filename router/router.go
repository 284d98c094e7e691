package router

import (
	"go-todo-api/config"
	"go-todo-api/handler"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-todo-api/docs"
)

// NewRouter wires every endpoint and the middleware chain: security headers
// on the outside, passive cookie authentication beneath them, per-IP rate
// limits on register/login and the RequireAuth guard on the todo routes.
// Nil handlers or middleware leave their routes unregistered, which keeps
// partial wiring usable in tests.
func NewRouter(authHandler *handler.AuthHandler, todoHandler *handler.TodoHandler, authMW *handler.AuthMiddleware, limiter *handler.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	if authHandler != nil {
		rl := config.AppConfig.RateLimit

		// The {$} suffix keeps trailing-slash routes as exact matches
		// instead of ServeMux subtree matches.
		mux.Handle("GET /csrf/{$}", handler.ErrorHandlingMiddleware(authHandler.GetCSRFToken))
		mux.Handle("POST /register/{$}", limiter.Limit("register", rl.RegisterPerHour, time.Hour,
			handler.ErrorHandlingMiddleware(authHandler.Register)))
		mux.Handle("POST /login/{$}", limiter.Limit("login", rl.LoginPerMinute, time.Minute,
			handler.ErrorHandlingMiddleware(authHandler.Login)))
		mux.Handle("POST /refresh/{$}", handler.ErrorHandlingMiddleware(authHandler.Refresh))
		mux.Handle("POST /logout/{$}", handler.ErrorHandlingMiddleware(authHandler.Logout))
	}

	if todoHandler != nil {
		mux.Handle("GET /todos/{$}", handler.RequireAuth(handler.ErrorHandlingMiddleware(todoHandler.ListTodos)))
		mux.Handle("POST /todos/{$}", handler.RequireAuth(handler.ErrorHandlingMiddleware(todoHandler.CreateTodo)))
		mux.Handle("PATCH /todos/{id}/toggle/{$}", handler.RequireAuth(handler.ErrorHandlingMiddleware(todoHandler.ToggleTodo)))
		mux.Handle("DELETE /todos/clear_completed/{$}", handler.RequireAuth(handler.ErrorHandlingMiddleware(todoHandler.ClearCompleted)))
	}

	var root http.Handler = mux
	if authMW != nil {
		root = authMW.Handler(root)
	}
	return handler.SecurityHeadersMiddleware(root)
}
