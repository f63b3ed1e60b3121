package planka

import (
	"context"
	"encoding/json"
	"fmt"
)

// defaultTaskListName names the checklist container created on demand
// when tasks are added to a card that has none.
const defaultTaskListName = "Tasks"

// CreateTaskList creates a checklist container on a card.
func (c *Client) CreateTaskList(ctx context.Context, cardID string, input TaskListInput) (*TaskList, error) {
	if err := validateInput("taskList", input); err != nil {
		return nil, err
	}
	if input.Position == 0 {
		input.Position = DefaultPosition
	}

	path := fmt.Sprintf("/cards/%s/task-lists", cardID)
	data, err := c.post(ctx, path, input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[TaskList]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected task list response shape", Op: "POST " + path, Err: err}
	}
	return &resp.Item, nil
}

// CreateTask creates a task in a task list.
func (c *Client) CreateTask(ctx context.Context, taskListID string, input TaskInput) (*Task, error) {
	if err := validateInput("task", input); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/task-lists/%s/tasks", taskListID)
	data, err := c.post(ctx, path, input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Task]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected task response shape", Op: "POST " + path, Err: err}
	}
	return &resp.Item, nil
}

// UpdateTask applies a partial update to a task, e.g. completion.
func (c *Client) UpdateTask(ctx context.Context, taskID string, patch TaskPatch) (*Task, error) {
	path := fmt.Sprintf("/tasks/%s", taskID)
	data, err := c.patch(ctx, path, patch)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Task]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected task response shape", Op: "PATCH " + path, Err: err}
	}
	return &resp.Item, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	_, err := c.delete(ctx, fmt.Sprintf("/tasks/%s", taskID))
	return err
}

// AddTasks creates tasks on a card, provisioning a checklist container
// when necessary.
//
// Agent callers should not need to know about the container concept: a
// card with no task list transparently gets one named "Tasks" at the
// default position before the first task is created. Tasks are created
// sequentially in the given order; each is spaced by DefaultPosition so
// later manual insertions have room. On a partial failure the tasks
// created so far are returned alongside the error.
func (c *Client) AddTasks(ctx context.Context, cardID string, names []string) ([]Task, error) {
	if len(names) == 0 {
		return nil, &Error{Kind: KindValidation, Message: "at least one task name is required"}
	}

	card, err := c.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	var target *TaskList
	for i := range card.Included.TaskLists {
		tl := &card.Included.TaskLists[i]
		if target == nil || tl.Position < target.Position {
			target = tl
		}
	}

	if target == nil {
		created, err := c.CreateTaskList(ctx, cardID, TaskListInput{
			Name:     defaultTaskListName,
			Position: DefaultPosition,
		})
		if err != nil {
			return nil, err
		}
		target = created
	}

	nextPosition := float64(DefaultPosition)
	for _, task := range card.Included.Tasks {
		if task.TaskListID == target.ID && task.Position+DefaultPosition > nextPosition {
			nextPosition = task.Position + DefaultPosition
		}
	}

	tasks := make([]Task, 0, len(names))
	for _, name := range names {
		task, err := c.CreateTask(ctx, target.ID, TaskInput{
			Name:     name,
			Position: nextPosition,
		})
		if err != nil {
			return tasks, err
		}
		tasks = append(tasks, *task)
		nextPosition += DefaultPosition
	}

	return tasks, nil
}
