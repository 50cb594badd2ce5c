package todoapi

// Todo mirrors a todo item as stored by the server.
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	Completed bool   `json:"completed"`
}

// TodoList mirrors the list payload returned by GET and DELETE.
type TodoList struct {
	Todos []Todo `json:"todos"`
}

// NewTodo is the POST body for creating an item.
type NewTodo struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Patch is the PATCH body. Only non-nil fields are sent.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Detail    *string `json:"detail,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// FieldsPatch builds a patch that rewrites title and detail.
func FieldsPatch(title, detail string) Patch {
	return Patch{Title: &title, Detail: &detail}
}

// CompletedPatch builds a patch that only sets the completed flag.
func CompletedPatch(completed bool) Patch {
	return Patch{Completed: &completed}
}
