package task_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/planka-community/planka-mcp/internal/instrumentation"
	"github.com/planka-community/planka-mcp/internal/planka"
	"github.com/planka-community/planka-mcp/internal/server"
	"github.com/planka-community/planka-mcp/internal/tools/batch"
	"github.com/planka-community/planka-mcp/internal/tools/common"
)

// getClient returns the shared kanban client or an actionable error.
func getClient(sc *server.ServerContext) (*planka.Client, error) {
	client := sc.Client()
	if client == nil {
		return nil, fmt.Errorf("kanban client is not configured; set PLANKA_BASE_URL, PLANKA_EMAIL and PLANKA_PASSWORD")
	}
	return client, nil
}

// RegisterTaskTools registers checklist task tools with the MCP server.
// All task tools mutate state, so nothing is registered in read-only mode.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	registerTaskWriteTools(s, sc)
	registerTaskListWriteTools(s, sc)

	return nil
}

// registerTaskWriteTools registers task creation and mutation tools
func registerTaskWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Add tasks tool
	addTasksTool := mcp.NewTool("planka_add_tasks",
		mcp.WithDescription("Add one or more checklist tasks to a card. If the card has no checklist yet, a 'Tasks' checklist is created automatically; otherwise the first existing checklist is reused. Tasks are appended in the given order."),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card to add tasks to"),
		),
		mcp.WithString("names",
			mcp.Required(),
			mcp.Description("Task name (string) or array of task names to add"),
		),
	)

	s.AddTool(addTasksTool, common.InstrumentedToolHandlerWithTarget(
		"planka_add_tasks", instrumentation.ResourceTasks, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			names, err := batch.ParseStringOrArray(args["names"], "names")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			created, err := client.AddTasks(ctx, cardID, names)
			if err != nil {
				// Partial failure: report what was created before the error
				if len(created) > 0 {
					result, _ := json.MarshalIndent(created, "", "  ")
					return mcp.NewToolResultError(fmt.Sprintf(
						"Created %d of %d tasks before failing: %v\n%s",
						len(created), len(names), err, string(result))), nil
				}
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add tasks: %v", err)), nil
			}

			result, _ := json.MarshalIndent(created, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Added %d tasks:\n%s", len(created), string(result))), nil
		}))

	// Update task tool
	updateTaskTool := mcp.NewTool("planka_update_task",
		mcp.WithDescription("Update a checklist task. Only the provided fields are changed."),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("name",
			mcp.Description("New task name"),
		),
		mcp.WithBoolean("isCompleted",
			mcp.Description("Mark the task completed or not"),
		),
		mcp.WithNumber("position",
			mcp.Description("New task position within its checklist"),
		),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithTarget(
		"planka_update_task", instrumentation.ResourceTasks, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, ok := args["taskId"].(string)
			if !ok || taskID == "" {
				return mcp.NewToolResultError("taskId is required"), nil
			}

			patch := planka.TaskPatch{}
			if name, ok := args["name"].(string); ok && name != "" {
				patch.Name = &name
			}
			if completed, ok := args["isCompleted"].(bool); ok {
				patch.IsCompleted = &completed
			}
			if pos, ok := args["position"].(float64); ok {
				patch.Position = &pos
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := client.UpdateTask(ctx, taskID, patch)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task updated successfully:\n%s", string(result))), nil
		}))

	// Complete tasks tool
	completeTasksTool := mcp.NewTool("planka_complete_tasks",
		mcp.WithDescription("Mark one or more checklist tasks as completed"),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to complete"),
		),
	)

	s.AddTool(completeTasksTool, common.InstrumentedToolHandlerWithTarget(
		"planka_complete_tasks", instrumentation.ResourceTasks, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			completed := true
			results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
				task, err := client.UpdateTask(ctx, taskID, planka.TaskPatch{IsCompleted: &completed})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s (%s) completed", task.ID, task.Name), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	// Delete tasks tool
	deleteTasksTool := mcp.NewTool("planka_delete_tasks",
		mcp.WithDescription("Delete one or more checklist tasks"),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to delete"),
		),
	)

	s.AddTool(deleteTasksTool, common.InstrumentedToolHandlerWithTarget(
		"planka_delete_tasks", instrumentation.ResourceTasks, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
				if err := client.DeleteTask(ctx, taskID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s deleted", taskID), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))
}

// registerTaskListWriteTools registers checklist container tools
func registerTaskListWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Create task list tool
	createTaskListTool := mcp.NewTool("planka_create_task_list",
		mcp.WithDescription("Create a named checklist on a card. planka_add_tasks creates a default 'Tasks' checklist on demand; use this tool when a card needs multiple or differently named checklists."),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card the checklist belongs to"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The checklist name"),
		),
		mcp.WithNumber("position",
			mcp.Description("Checklist position on the card (default: end of the default spacing)"),
		),
	)

	s.AddTool(createTaskListTool, common.InstrumentedToolHandlerWithTarget(
		"planka_create_task_list", instrumentation.ResourceTaskLists, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			input := planka.TaskListInput{Name: name}
			if pos, ok := args["position"].(float64); ok {
				input.Position = pos
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			taskList, err := client.CreateTaskList(ctx, cardID, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create checklist: %v", err)), nil
			}

			result, _ := json.MarshalIndent(taskList, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Checklist created successfully:\n%s", string(result))), nil
		}))
}
