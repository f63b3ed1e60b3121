package board_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/planka-community/planka-mcp/internal/instrumentation"
	"github.com/planka-community/planka-mcp/internal/planka"
	"github.com/planka-community/planka-mcp/internal/server"
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

// RegisterBoardTools registers project, board and list tools with the MCP server
func RegisterBoardTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerStructureTools(s, sc)

	if !readOnly {
		registerBoardWriteTools(s, sc)
	}

	return nil
}

// registerStructureTools registers the read-only structure views
func registerStructureTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// List projects tool
	listProjectsTool := mcp.NewTool("planka_list_projects",
		mcp.WithDescription("List all projects visible to the configured account"),
	)

	s.AddTool(listProjectsTool, common.InstrumentedToolHandlerWithTarget(
		"planka_list_projects", instrumentation.ResourceProjects, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			resp, err := client.GetProjects(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list projects: %v", err)), nil
			}

			result, _ := json.MarshalIndent(resp.Items, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Full structure tool: projects -> boards -> lists
	getStructureTool := mcp.NewTool("planka_get_structure",
		mcp.WithDescription("Get the full workspace structure: every project with its boards and each board's lists, sorted by position. Archive and trash containers are excluded."),
	)

	s.AddTool(getStructureTool, common.InstrumentedToolHandlerWithTarget(
		"planka_get_structure", instrumentation.ResourceProjects, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			structures, err := client.ProjectStructures(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get structure: %v", err)), nil
			}

			result, _ := json.MarshalIndent(structures, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// Board summary tool with per-card task counts
	getBoardSummaryTool := mcp.NewTool("planka_get_board_summary",
		mcp.WithDescription("Get a board with its lists, labels and cards. Each card carries a task counter {total, completed} folded from the card's checklists."),
		mcp.WithString("boardId",
			mcp.Required(),
			mcp.Description("The ID of the board to summarize"),
		),
	)

	s.AddTool(getBoardSummaryTool, common.InstrumentedToolHandlerWithTarget(
		"planka_get_board_summary", instrumentation.ResourceBoards, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			boardID, ok := args["boardId"].(string)
			if !ok || boardID == "" {
				return mcp.NewToolResultError("boardId is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			summary, err := client.BoardSummary(ctx, boardID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get board summary: %v", err)), nil
			}

			result, _ := json.MarshalIndent(summary, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))
}

// registerBoardWriteTools registers project/board/list creation tools
func registerBoardWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Create project tool
	createProjectTool := mcp.NewTool("planka_create_project",
		mcp.WithDescription("Create a new project"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the new project"),
		),
	)

	s.AddTool(createProjectTool, common.InstrumentedToolHandlerWithTarget(
		"planka_create_project", instrumentation.ResourceProjects, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			project, err := client.CreateProject(ctx, planka.ProjectInput{Name: name})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create project: %v", err)), nil
			}

			result, _ := json.MarshalIndent(project, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Project created successfully:\n%s", string(result))), nil
		}))

	// Create board tool
	createBoardTool := mcp.NewTool("planka_create_board",
		mcp.WithDescription("Create a new board in a project"),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project the board belongs to"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the new board"),
		),
		mcp.WithNumber("position",
			mcp.Description("Board position within the project (default: end of the default spacing)"),
		),
	)

	s.AddTool(createBoardTool, common.InstrumentedToolHandlerWithTarget(
		"planka_create_board", instrumentation.ResourceBoards, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			projectID, ok := args["projectId"].(string)
			if !ok || projectID == "" {
				return mcp.NewToolResultError("projectId is required"), nil
			}

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			// Zero position is replaced by the client's default spacing
			input := planka.BoardInput{Name: name}
			if pos, ok := args["position"].(float64); ok {
				input.Position = pos
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			board, err := client.CreateBoard(ctx, projectID, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create board: %v", err)), nil
			}

			result, _ := json.MarshalIndent(board, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Board created successfully:\n%s", string(result))), nil
		}))

	// Create list tool
	createListTool := mcp.NewTool("planka_create_list",
		mcp.WithDescription("Create a new list (column) on a board"),
		mcp.WithString("boardId",
			mcp.Required(),
			mcp.Description("The ID of the board the list belongs to"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the new list"),
		),
		mcp.WithNumber("position",
			mcp.Description("List position on the board (default: end of the default spacing)"),
		),
	)

	s.AddTool(createListTool, common.InstrumentedToolHandlerWithTarget(
		"planka_create_list", instrumentation.ResourceLists, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			boardID, ok := args["boardId"].(string)
			if !ok || boardID == "" {
				return mcp.NewToolResultError("boardId is required"), nil
			}

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			input := planka.ListInput{Name: name}
			if pos, ok := args["position"].(float64); ok {
				input.Position = pos
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			list, err := client.CreateList(ctx, boardID, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create list: %v", err)), nil
			}

			result, _ := json.MarshalIndent(list, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("List created successfully:\n%s", string(result))), nil
		}))
}
