package planka

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// CardDetail is a card view with all related entities resolved. Task
// lists and tasks are ordered by position; comments newest-first, since
// chronology rather than position governs them. Labels, card-label
// relations, and attachments pass through in response order.
type CardDetail struct {
	Card        Card         `json:"card"`
	TaskLists   []TaskList   `json:"taskLists"`
	Tasks       []Task       `json:"tasks"`
	Comments    []Comment    `json:"comments"`
	Labels      []Label      `json:"labels"`
	CardLabels  []CardLabel  `json:"cardLabels"`
	Attachments []Attachment `json:"attachments"`
}

// GetCard fetches a single card with its included bag.
func (c *Client) GetCard(ctx context.Context, cardID string) (*ItemResponse[Card], error) {
	path := fmt.Sprintf("/cards/%s", cardID)
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Card]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected card response shape", Op: "GET " + path, Err: err}
	}
	return &resp, nil
}

// CardDetail assembles the full card view.
func (c *Client) CardDetail(ctx context.Context, cardID string) (*CardDetail, error) {
	card, err := c.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	comments, err := c.ListComments(ctx, cardID)
	if err != nil {
		return nil, err
	}

	taskLists := append([]TaskList(nil), card.Included.TaskLists...)
	sort.SliceStable(taskLists, func(i, j int) bool {
		return taskLists[i].Position < taskLists[j].Position
	})

	tasks := append([]Task(nil), card.Included.Tasks...)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Position < tasks[j].Position
	})

	return &CardDetail{
		Card:        card.Item,
		TaskLists:   taskLists,
		Tasks:       tasks,
		Comments:    comments,
		Labels:      card.Included.Labels,
		CardLabels:  card.Included.CardLabels,
		Attachments: card.Included.Attachments,
	}, nil
}

// CreateCard creates a card in a list. The card type is validated
// locally; a missing type never reaches the server.
func (c *Client) CreateCard(ctx context.Context, listID string, input CardInput) (*Card, error) {
	if err := validateInput("card", input); err != nil {
		return nil, err
	}
	if input.Position == nil {
		pos := float64(DefaultPosition)
		input.Position = &pos
	}

	path := fmt.Sprintf("/lists/%s/cards", listID)
	data, err := c.post(ctx, path, input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Card]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected card response shape", Op: "POST " + path, Err: err}
	}
	return &resp.Item, nil
}

// UpdateCard applies a partial update to a card.
func (c *Client) UpdateCard(ctx context.Context, cardID string, patch CardPatch) (*Card, error) {
	path := fmt.Sprintf("/cards/%s", cardID)
	data, err := c.patch(ctx, path, patch)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Card]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected card response shape", Op: "PATCH " + path, Err: err}
	}
	return &resp.Item, nil
}

// DeleteCard deletes a card.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	_, err := c.delete(ctx, fmt.Sprintf("/cards/%s", cardID))
	return err
}

// ListComments returns a card's comments sorted newest-first.
func (c *Client) ListComments(ctx context.Context, cardID string) ([]Comment, error) {
	path := fmt.Sprintf("/cards/%s/comments", cardID)
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp ItemsResponse[Comment]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected comments response shape", Op: "GET " + path, Err: err}
	}

	comments := resp.Items
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// CreateComment adds a comment to a card.
func (c *Client) CreateComment(ctx context.Context, cardID string, input CommentInput) (*Comment, error) {
	if err := validateInput("comment", input); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/cards/%s/comments", cardID)
	data, err := c.post(ctx, path, input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Comment]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected comment response shape", Op: "POST " + path, Err: err}
	}
	return &resp.Item, nil
}

// UpdateComment replaces a comment's text.
func (c *Client) UpdateComment(ctx context.Context, commentID string, input CommentInput) (*Comment, error) {
	if err := validateInput("comment", input); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/comments/%s", commentID)
	data, err := c.patch(ctx, path, input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Comment]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected comment response shape", Op: "PATCH " + path, Err: err}
	}
	return &resp.Item, nil
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	_, err := c.delete(ctx, fmt.Sprintf("/comments/%s", commentID))
	return err
}
