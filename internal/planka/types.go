package planka

import "time"

// Planka entities are immutable snapshots of server state. The client
// never caches them beyond a single call; only the session token
// outlives a request.

// Project is the top-level grouping that owns boards.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Board belongs to a project and owns lists and labels.
type Board struct {
	ID        string  `json:"id"`
	ProjectID string  `json:"projectId"`
	Name      string  `json:"name"`
	Position  float64 `json:"position"`
}

// List is a column on a board. The server models its archive and trash
// containers as lists with a null name and position; those must be
// filtered from user-facing structure views.
type List struct {
	ID       string   `json:"id"`
	BoardID  string   `json:"boardId"`
	Name     *string  `json:"name"`
	Position *float64 `json:"position"`
}

// Card lives in a list. Type is mandatory on creation and is either
// "project" or "story".
type Card struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"boardId"`
	ListID      string     `json:"listId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Position    float64    `json:"position"`
	Type        string     `json:"type"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
}

// TaskList is a checklist container attached to a card. A card may have
// zero, one, or many.
type TaskList struct {
	ID       string  `json:"id"`
	CardID   string  `json:"cardId"`
	Name     string  `json:"name"`
	Position float64 `json:"position"`
}

// Task belongs to a task list, not directly to a card. The owning card
// is only reachable through TaskList.CardID.
type Task struct {
	ID          string  `json:"id"`
	TaskListID  string  `json:"taskListId"`
	Name        string  `json:"name"`
	Position    float64 `json:"position"`
	IsCompleted bool    `json:"isCompleted"`
}

// Label belongs to a board. Color is constrained to the known palette
// on writes only; reads accept any string so that new server-side
// palette entries do not break the client.
type Label struct {
	ID       string  `json:"id"`
	BoardID  string  `json:"boardId"`
	Name     *string `json:"name"`
	Color    string  `json:"color"`
	Position float64 `json:"position"`
}

// CardLabel is the junction record relating a card and a label. It has
// its own identity; the server deletes the relationship by this id, not
// by the (cardId, labelId) pair.
type CardLabel struct {
	ID      string `json:"id"`
	CardID  string `json:"cardId"`
	LabelID string `json:"labelId"`
}

// Comment is a user comment on a card, displayed newest-first.
type Comment struct {
	ID        string    `json:"id"`
	CardID    string    `json:"cardId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment is a file attached to a card. Read-only in this system.
type Attachment struct {
	ID     string `json:"id"`
	CardID string `json:"cardId"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// User is a kanban server account.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Included is the denormalized bag of related entities the server
// returns alongside a primary item or collection on some endpoints.
type Included struct {
	Projects    []Project    `json:"projects,omitempty"`
	Boards      []Board      `json:"boards,omitempty"`
	Lists       []List       `json:"lists,omitempty"`
	Cards       []Card       `json:"cards,omitempty"`
	Labels      []Label      `json:"labels,omitempty"`
	CardLabels  []CardLabel  `json:"cardLabels,omitempty"`
	TaskLists   []TaskList   `json:"taskLists,omitempty"`
	Tasks       []Task       `json:"tasks,omitempty"`
	Comments    []Comment    `json:"comments,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Users       []User       `json:"users,omitempty"`
}

// ItemResponse is the server's single-entity envelope.
type ItemResponse[T any] struct {
	Item     T        `json:"item"`
	Included Included `json:"included,omitempty"`
}

// ItemsResponse is the server's collection envelope.
type ItemsResponse[T any] struct {
	Items    []T      `json:"items"`
	Included Included `json:"included,omitempty"`
}

// CardInput is the payload for creating a card. Type is validated
// locally before any network call.
type CardInput struct {
	Name        string     `json:"name" validate:"required"`
	Type        string     `json:"type" validate:"required,oneof=project story"`
	Description string     `json:"description,omitempty"`
	Position    *float64   `json:"position,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// CardPatch is the payload for updating a card. Nil fields are left
// untouched by the server.
type CardPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Position    *float64   `json:"position,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsCompleted *bool      `json:"isCompleted,omitempty"`
	ListID      *string    `json:"listId,omitempty"`
}

// ListInput is the payload for creating a list on a board.
type ListInput struct {
	Name     string  `json:"name" validate:"required"`
	Position float64 `json:"position"`
}

// ProjectInput is the payload for creating a project.
type ProjectInput struct {
	Name string `json:"name" validate:"required"`
}

// BoardInput is the payload for creating a board in a project.
type BoardInput struct {
	Name     string  `json:"name" validate:"required"`
	Position float64 `json:"position"`
}

// LabelInput is the payload for creating a label. Color must be in the
// write palette.
type LabelInput struct {
	Name     *string `json:"name,omitempty"`
	Color    string  `json:"color" validate:"required,labelcolor"`
	Position float64 `json:"position"`
}

// LabelPatch is the payload for updating a label.
type LabelPatch struct {
	Name     *string  `json:"name,omitempty"`
	Color    *string  `json:"color,omitempty" validate:"omitempty,labelcolor"`
	Position *float64 `json:"position,omitempty"`
}

// TaskListInput is the payload for creating a task list on a card.
type TaskListInput struct {
	Name     string  `json:"name" validate:"required"`
	Position float64 `json:"position"`
}

// TaskInput is the payload for creating a task in a task list.
type TaskInput struct {
	Name     string  `json:"name" validate:"required"`
	Position float64 `json:"position"`
}

// TaskPatch is the payload for updating a task.
type TaskPatch struct {
	Name        *string  `json:"name,omitempty"`
	Position    *float64 `json:"position,omitempty"`
	IsCompleted *bool    `json:"isCompleted,omitempty"`
}

// CommentInput is the payload for creating or updating a comment.
type CommentInput struct {
	Text string `json:"text" validate:"required"`
}
