package card_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

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

// RegisterCardTools registers card and comment tools with the MCP server
func RegisterCardTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerCardReadTools(s, sc)

	if !readOnly {
		registerCardWriteTools(s, sc)
		registerCommentWriteTools(s, sc)
	}

	return nil
}

// registerCardReadTools registers the card detail and comment listing tools
func registerCardReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Card detail tool
	getCardTool := mcp.NewTool("planka_get_card",
		mcp.WithDescription("Get a card with all its relations: checklists and tasks sorted by position, comments newest first, labels and attachments"),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card to retrieve"),
		),
	)

	s.AddTool(getCardTool, common.InstrumentedToolHandlerWithTarget(
		"planka_get_card", instrumentation.ResourceCards, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			detail, err := client.CardDetail(ctx, cardID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get card: %v", err)), nil
			}

			result, _ := json.MarshalIndent(detail, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	// List comments tool
	listCommentsTool := mcp.NewTool("planka_list_comments",
		mcp.WithDescription("List the comments on a card, newest first"),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card"),
		),
	)

	s.AddTool(listCommentsTool, common.InstrumentedToolHandlerWithTarget(
		"planka_list_comments", instrumentation.ResourceComments, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			comments, err := client.ListComments(ctx, cardID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list comments: %v", err)), nil
			}

			result, _ := json.MarshalIndent(comments, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))
}

// registerCardWriteTools registers card create/update/delete tools
func registerCardWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Create card tool
	createCardTool := mcp.NewTool("planka_create_card",
		mcp.WithDescription("Create a new card in a list. The card type is mandatory and must be 'project' or 'story'."),
		mcp.WithString("listId",
			mcp.Required(),
			mcp.Description("The ID of the list the card goes into"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The card name"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("The card type: 'project' or 'story'"),
		),
		mcp.WithString("description",
			mcp.Description("Markdown description for the card"),
		),
		mcp.WithString("dueDate",
			mcp.Description("Due date in RFC3339 format"),
		),
		mcp.WithNumber("position",
			mcp.Description("Card position within the list (default: end of the default spacing)"),
		),
	)

	s.AddTool(createCardTool, common.InstrumentedToolHandlerWithTarget(
		"planka_create_card", instrumentation.ResourceCards, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			listID, ok := args["listId"].(string)
			if !ok || listID == "" {
				return mcp.NewToolResultError("listId is required"), nil
			}

			input := planka.CardInput{}
			if name, ok := args["name"].(string); ok {
				input.Name = name
			}
			if cardType, ok := args["type"].(string); ok {
				input.Type = cardType
			}
			if description, ok := args["description"].(string); ok {
				input.Description = description
			}
			if dueStr, ok := args["dueDate"].(string); ok && dueStr != "" {
				due, err := time.Parse(time.RFC3339, dueStr)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("dueDate must be RFC3339: %v", err)), nil
				}
				input.DueDate = &due
			}
			if pos, ok := args["position"].(float64); ok {
				input.Position = &pos
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			card, err := client.CreateCard(ctx, listID, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create card: %v", err)), nil
			}

			result, _ := json.MarshalIndent(card, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Card created successfully:\n%s", string(result))), nil
		}))

	// Update card tool
	updateCardTool := mcp.NewTool("planka_update_card",
		mcp.WithDescription("Update a card. Only the provided fields are changed; moving a card is an update of its listId."),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card to update"),
		),
		mcp.WithString("name",
			mcp.Description("New card name"),
		),
		mcp.WithString("description",
			mcp.Description("New card description"),
		),
		mcp.WithString("listId",
			mcp.Description("Move the card to this list"),
		),
		mcp.WithString("dueDate",
			mcp.Description("New due date in RFC3339 format"),
		),
		mcp.WithBoolean("isCompleted",
			mcp.Description("Mark the card completed or not"),
		),
		mcp.WithNumber("position",
			mcp.Description("New card position within its list"),
		),
	)

	s.AddTool(updateCardTool, common.InstrumentedToolHandlerWithTarget(
		"planka_update_card", instrumentation.ResourceCards, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			patch := planka.CardPatch{}
			if name, ok := args["name"].(string); ok && name != "" {
				patch.Name = &name
			}
			if description, ok := args["description"].(string); ok {
				patch.Description = &description
			}
			if listID, ok := args["listId"].(string); ok && listID != "" {
				patch.ListID = &listID
			}
			if dueStr, ok := args["dueDate"].(string); ok && dueStr != "" {
				due, err := time.Parse(time.RFC3339, dueStr)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("dueDate must be RFC3339: %v", err)), nil
				}
				patch.DueDate = &due
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

			card, err := client.UpdateCard(ctx, cardID, patch)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update card: %v", err)), nil
			}

			result, _ := json.MarshalIndent(card, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Card updated successfully:\n%s", string(result))), nil
		}))

	// Delete card tool
	deleteCardTool := mcp.NewTool("planka_delete_card",
		mcp.WithDescription("Delete a card"),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card to delete"),
		),
	)

	s.AddTool(deleteCardTool, common.InstrumentedToolHandlerWithTarget(
		"planka_delete_card", instrumentation.ResourceCards, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteCard(ctx, cardID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete card: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Card %s deleted successfully", cardID)), nil
		}))
}

// registerCommentWriteTools registers comment create/update/delete tools
func registerCommentWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Add comment tool
	addCommentTool := mcp.NewTool("planka_add_comment",
		mcp.WithDescription("Add a comment to a card"),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card to comment on"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The comment text"),
		),
	)

	s.AddTool(addCommentTool, common.InstrumentedToolHandlerWithTarget(
		"planka_add_comment", instrumentation.ResourceComments, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			comment, err := client.CreateComment(ctx, cardID, planka.CommentInput{Text: text})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add comment: %v", err)), nil
			}

			result, _ := json.MarshalIndent(comment, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Comment added successfully:\n%s", string(result))), nil
		}))

	// Update comment tool
	updateCommentTool := mcp.NewTool("planka_update_comment",
		mcp.WithDescription("Update a comment's text"),
		mcp.WithString("commentId",
			mcp.Required(),
			mcp.Description("The ID of the comment to update"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The new comment text"),
		),
	)

	s.AddTool(updateCommentTool, common.InstrumentedToolHandlerWithTarget(
		"planka_update_comment", instrumentation.ResourceComments, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			commentID, ok := args["commentId"].(string)
			if !ok || commentID == "" {
				return mcp.NewToolResultError("commentId is required"), nil
			}

			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			comment, err := client.UpdateComment(ctx, commentID, planka.CommentInput{Text: text})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update comment: %v", err)), nil
			}

			result, _ := json.MarshalIndent(comment, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Comment updated successfully:\n%s", string(result))), nil
		}))

	// Delete comment tool
	deleteCommentTool := mcp.NewTool("planka_delete_comment",
		mcp.WithDescription("Delete a comment"),
		mcp.WithString("commentId",
			mcp.Required(),
			mcp.Description("The ID of the comment to delete"),
		),
	)

	s.AddTool(deleteCommentTool, common.InstrumentedToolHandlerWithTarget(
		"planka_delete_comment", instrumentation.ResourceComments, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			commentID, ok := args["commentId"].(string)
			if !ok || commentID == "" {
				return mcp.NewToolResultError("commentId is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteComment(ctx, commentID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete comment: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Comment %s deleted successfully", commentID)), nil
		}))
}
