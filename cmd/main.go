// cmd/main.go
package main

import (
	"go-todo-api/app"
)

// @title           Go-Todo API
// @version         1.0
// @description     Cookie-based JWT authentication backend with a per-user to-do list API.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
