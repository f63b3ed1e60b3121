package planka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CreateLabel creates a label on a board. The color is checked against
// the write palette locally; see palette.go for the read/write
// asymmetry.
func (c *Client) CreateLabel(ctx context.Context, boardID string, input LabelInput) (*Label, error) {
	if err := validateInput("label", input); err != nil {
		return nil, err
	}
	if input.Position == 0 {
		input.Position = DefaultPosition
	}

	path := fmt.Sprintf("/boards/%s/labels", boardID)
	data, err := c.post(ctx, path, input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Label]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected label response shape", Op: "POST " + path, Err: err}
	}
	return &resp.Item, nil
}

// UpdateLabel applies a partial update to a label.
func (c *Client) UpdateLabel(ctx context.Context, labelID string, patch LabelPatch) (*Label, error) {
	if err := validateInput("label", patch); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/labels/%s", labelID)
	data, err := c.patch(ctx, path, patch)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Label]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected label response shape", Op: "PATCH " + path, Err: err}
	}
	return &resp.Item, nil
}

// DeleteLabel deletes a label from its board.
func (c *Client) DeleteLabel(ctx context.Context, labelID string) error {
	_, err := c.delete(ctx, fmt.Sprintf("/labels/%s", labelID))
	return err
}

// AddLabelToCard attaches a label to a card via the card-labels
// junction endpoint.
func (c *Client) AddLabelToCard(ctx context.Context, cardID, labelID string) (*CardLabel, error) {
	path := fmt.Sprintf("/cards/%s/card-labels", cardID)
	data, err := c.post(ctx, path, map[string]string{"labelId": labelID})
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[CardLabel]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected card label response shape", Op: "POST " + path, Err: err}
	}
	return &resp.Item, nil
}

// RemoveLabelFromCard detaches a label from a card.
//
// The server only deletes the relationship by the junction record's own
// id, so the card is re-fetched to resolve it. A label that is not
// attached is a silent no-op, not an error. Deletion first targets the
// card-labels junction resource and falls back to the legacy nested
// path under the card; both address the same logical relationship and
// either succeeding is sufficient. The fallback assumes the two
// endpoints stay equivalent on the server side.
func (c *Client) RemoveLabelFromCard(ctx context.Context, cardID, labelID string) error {
	card, err := c.GetCard(ctx, cardID)
	if err != nil {
		return err
	}

	var junctionID string
	for _, cl := range card.Included.CardLabels {
		if cl.LabelID == labelID {
			junctionID = cl.ID
			break
		}
	}
	if junctionID == "" {
		// Already absent.
		return nil
	}

	if _, err := c.delete(ctx, fmt.Sprintf("/card-labels/%s", junctionID)); err == nil {
		return nil
	}

	if _, err := c.delete(ctx, fmt.Sprintf("/cards/%s/labels/%s", cardID, labelID)); err != nil {
		return err
	}
	return nil
}

// SetCardLabels applies a removal list and an addition list to a card.
//
// Removals run strictly before additions, so a label named in both
// lists ends up attached. An addition that fails because the label is
// already on the card counts as success; any other failure stops the
// operation.
func (c *Client) SetCardLabels(ctx context.Context, cardID string, addLabelIDs, removeLabelIDs []string) error {
	for _, labelID := range removeLabelIDs {
		if err := c.RemoveLabelFromCard(ctx, cardID, labelID); err != nil {
			return err
		}
	}

	for _, labelID := range addLabelIDs {
		if _, err := c.AddLabelToCard(ctx, cardID, labelID); err != nil {
			if isAlreadyAttached(err) {
				continue
			}
			return err
		}
	}

	return nil
}

// isAlreadyAttached recognizes the server's duplicate-attachment
// rejection, which SetCardLabels tolerates.
func isAlreadyAttached(err error) bool {
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	if pe.Status == 409 {
		return true
	}
	return pe.Kind == KindValidation && strings.Contains(strings.ToLower(pe.Message), "already")
}
