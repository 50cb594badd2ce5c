// Package todoapi provides an HTTP client for the todo server API.
//
// # Overview
//
// The client covers the four operations the todo workflow needs, all rooted
// at /api/todos/:
//
//   - GET    /api/todos/      list, {"todos": [...]} oldest first
//   - POST   /api/todos/      create from {"title", "detail"}
//   - PATCH  /api/todos/:id   update {"title", "detail"} or {"completed"}
//   - DELETE /api/todos/:id   delete, returns the remaining list
//
// Callers depend on the API interface so the actions layer can be exercised
// against a fake in tests:
//
//	client, err := todoapi.NewClient("localhost:3000", 5*time.Second)
//	if err != nil {
//		return err
//	}
//	todos, err := client.ListTodos(ctx)
//
// # Error Handling
//
// Two failure shapes matter to callers:
//
//   - The server never answered (dial failure, timeout, cancelled context).
//     These wrap ErrNoResponse and can be matched with errors.Is.
//   - The server answered with a status >= 400. These are *ResponseError
//     values carrying the status and the body text. DisplayMessage returns
//     the body verbatim, falling back to the status text when it is empty.
//
// Decode failures and responses missing an item id are plain wrapped
// errors. Wrapping uses github.com/pkg/errors so stack traces survive into
// the log file.
package todoapi
