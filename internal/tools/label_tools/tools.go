package label_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

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

// RegisterLabelTools registers label tools with the MCP server.
// The palette listing is read-only; everything else mutates the board.
func RegisterLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerPaletteTool(s, sc)

	if !readOnly {
		registerLabelWriteTools(s, sc)
		registerCardLabelTools(s, sc)
	}

	return nil
}

// registerPaletteTool registers the color palette listing
func registerPaletteTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	paletteTool := mcp.NewTool("planka_list_label_colors",
		mcp.WithDescription("List the label colors the kanban server accepts on label creation and update"),
	)

	s.AddTool(paletteTool, common.InstrumentedToolHandler(
		"planka_list_label_colors", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(strings.Join(planka.LabelColors(), "\n")), nil
		}))
}

// registerLabelWriteTools registers label create/update/delete tools
func registerLabelWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Create label tool
	createLabelTool := mcp.NewTool("planka_create_label",
		mcp.WithDescription("Create a label on a board. The color must come from the server's palette (see planka_list_label_colors)."),
		mcp.WithString("boardId",
			mcp.Required(),
			mcp.Description("The ID of the board the label belongs to"),
		),
		mcp.WithString("color",
			mcp.Required(),
			mcp.Description("The label color, one of the palette values"),
		),
		mcp.WithString("name",
			mcp.Description("Optional label name"),
		),
		mcp.WithNumber("position",
			mcp.Description("Label position on the board (default: end of the default spacing)"),
		),
	)

	s.AddTool(createLabelTool, common.InstrumentedToolHandlerWithTarget(
		"planka_create_label", instrumentation.ResourceLabels, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			boardID, ok := args["boardId"].(string)
			if !ok || boardID == "" {
				return mcp.NewToolResultError("boardId is required"), nil
			}

			input := planka.LabelInput{}
			if color, ok := args["color"].(string); ok {
				input.Color = color
			}
			if name, ok := args["name"].(string); ok && name != "" {
				input.Name = &name
			}
			if pos, ok := args["position"].(float64); ok {
				input.Position = pos
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			label, err := client.CreateLabel(ctx, boardID, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create label: %v", err)), nil
			}

			result, _ := json.MarshalIndent(label, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Label created successfully:\n%s", string(result))), nil
		}))

	// Update label tool
	updateLabelTool := mcp.NewTool("planka_update_label",
		mcp.WithDescription("Update a label's name, color or position. Only the provided fields are changed."),
		mcp.WithString("labelId",
			mcp.Required(),
			mcp.Description("The ID of the label to update"),
		),
		mcp.WithString("name",
			mcp.Description("New label name"),
		),
		mcp.WithString("color",
			mcp.Description("New label color, one of the palette values"),
		),
		mcp.WithNumber("position",
			mcp.Description("New label position on the board"),
		),
	)

	s.AddTool(updateLabelTool, common.InstrumentedToolHandlerWithTarget(
		"planka_update_label", instrumentation.ResourceLabels, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			labelID, ok := args["labelId"].(string)
			if !ok || labelID == "" {
				return mcp.NewToolResultError("labelId is required"), nil
			}

			patch := planka.LabelPatch{}
			if name, ok := args["name"].(string); ok && name != "" {
				patch.Name = &name
			}
			if color, ok := args["color"].(string); ok && color != "" {
				patch.Color = &color
			}
			if pos, ok := args["position"].(float64); ok {
				patch.Position = &pos
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			label, err := client.UpdateLabel(ctx, labelID, patch)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update label: %v", err)), nil
			}

			result, _ := json.MarshalIndent(label, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Label updated successfully:\n%s", string(result))), nil
		}))

	// Delete label tool
	deleteLabelTool := mcp.NewTool("planka_delete_label",
		mcp.WithDescription("Delete a label from its board. The label is detached from all cards."),
		mcp.WithString("labelId",
			mcp.Required(),
			mcp.Description("The ID of the label to delete"),
		),
	)

	s.AddTool(deleteLabelTool, common.InstrumentedToolHandlerWithTarget(
		"planka_delete_label", instrumentation.ResourceLabels, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			labelID, ok := args["labelId"].(string)
			if !ok || labelID == "" {
				return mcp.NewToolResultError("labelId is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteLabel(ctx, labelID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete label: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Label %s deleted successfully", labelID)), nil
		}))
}

// registerCardLabelTools registers attach/detach/set tools for card labels
func registerCardLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Add labels to card tool
	addCardLabelsTool := mcp.NewTool("planka_add_card_labels",
		mcp.WithDescription("Attach one or more labels to a card"),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card"),
		),
		mcp.WithString("labelIds",
			mcp.Required(),
			mcp.Description("Label ID (string) or array of label IDs to attach"),
		),
	)

	s.AddTool(addCardLabelsTool, common.InstrumentedToolHandlerWithTarget(
		"planka_add_card_labels", instrumentation.ResourceLabels, instrumentation.OperationAttach, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			labelIDs, err := batch.ParseStringOrArray(args["labelIds"], "labelIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(labelIDs, func(labelID string) (string, error) {
				if _, err := client.AddLabelToCard(ctx, cardID, labelID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Label %s attached to card %s", labelID, cardID), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	// Remove labels from card tool
	removeCardLabelsTool := mcp.NewTool("planka_remove_card_labels",
		mcp.WithDescription("Detach one or more labels from a card. Detaching a label that is not attached is a no-op."),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card"),
		),
		mcp.WithString("labelIds",
			mcp.Required(),
			mcp.Description("Label ID (string) or array of label IDs to detach"),
		),
	)

	s.AddTool(removeCardLabelsTool, common.InstrumentedToolHandlerWithTarget(
		"planka_remove_card_labels", instrumentation.ResourceLabels, instrumentation.OperationDetach, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			labelIDs, err := batch.ParseStringOrArray(args["labelIds"], "labelIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(labelIDs, func(labelID string) (string, error) {
				if err := client.RemoveLabelFromCard(ctx, cardID, labelID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Label %s detached from card %s", labelID, cardID), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	// Set card labels tool
	setCardLabelsTool := mcp.NewTool("planka_set_card_labels",
		mcp.WithDescription("Apply a label change set to a card in one call: removals are performed first, then additions. A label in both lists ends up attached."),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("The ID of the card"),
		),
		mcp.WithString("addLabelIds",
			mcp.Description("Label ID (string) or array of label IDs to attach"),
		),
		mcp.WithString("removeLabelIds",
			mcp.Description("Label ID (string) or array of label IDs to detach"),
		),
	)

	s.AddTool(setCardLabelsTool, common.InstrumentedToolHandlerWithTarget(
		"planka_set_card_labels", instrumentation.ResourceLabels, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			cardID, ok := args["cardId"].(string)
			if !ok || cardID == "" {
				return mcp.NewToolResultError("cardId is required"), nil
			}

			var addIDs, removeIDs []string
			var err error

			if args["addLabelIds"] != nil {
				addIDs, err = batch.ParseStringOrArray(args["addLabelIds"], "addLabelIds")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
			}
			if args["removeLabelIds"] != nil {
				removeIDs, err = batch.ParseStringOrArray(args["removeLabelIds"], "removeLabelIds")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
			}

			if len(addIDs) == 0 && len(removeIDs) == 0 {
				return mcp.NewToolResultError("at least one of addLabelIds or removeLabelIds is required"), nil
			}

			client, err := getClient(sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.SetCardLabels(ctx, cardID, addIDs, removeIDs); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to set card labels: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf(
				"Card %s labels updated: %d removed, %d added", cardID, len(removeIDs), len(addIDs))), nil
		}))
}
