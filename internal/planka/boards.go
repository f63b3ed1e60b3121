package planka

import (
	"context"
	"encoding/json"
	"fmt"
)

// CardWithTasks decorates a card with aggregated task counters. The
// embedded card keeps its original shape; the counters are additions,
// not replacements.
type CardWithTasks struct {
	Card
	TaskCount          int `json:"taskCount"`
	CompletedTaskCount int `json:"completedTaskCount"`
}

// BoardSummary is a board view with lists, labels, card-label
// relations, and task-count-decorated cards.
type BoardSummary struct {
	Board      Board           `json:"board"`
	Lists      []List          `json:"lists"`
	Cards      []CardWithTasks `json:"cards"`
	Labels     []Label         `json:"labels"`
	CardLabels []CardLabel     `json:"cardLabels"`
}

// GetBoard fetches a single board with its full included bag (lists,
// cards, labels, cardLabels, taskLists, tasks).
func (c *Client) GetBoard(ctx context.Context, boardID string) (*ItemResponse[Board], error) {
	path := fmt.Sprintf("/boards/%s", boardID)
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Board]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected board response shape", Op: "GET " + path, Err: err}
	}
	return &resp, nil
}

// BoardSummary fetches a board and folds its task set into per-card
// counters.
//
// Tasks never carry a card id; the owning card is only reachable via
// Task → TaskList → Card, so the fold goes through a taskList→card map
// rather than assuming any direct association.
func (c *Client) BoardSummary(ctx context.Context, boardID string) (*BoardSummary, error) {
	board, err := c.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	cardByTaskList := make(map[string]string, len(board.Included.TaskLists))
	for _, tl := range board.Included.TaskLists {
		cardByTaskList[tl.ID] = tl.CardID
	}

	type counts struct{ total, completed int }
	byCard := make(map[string]counts)
	for _, task := range board.Included.Tasks {
		cardID, ok := cardByTaskList[task.TaskListID]
		if !ok {
			continue
		}
		cc := byCard[cardID]
		cc.total++
		if task.IsCompleted {
			cc.completed++
		}
		byCard[cardID] = cc
	}

	cards := make([]CardWithTasks, 0, len(board.Included.Cards))
	for _, card := range board.Included.Cards {
		cc := byCard[card.ID]
		cards = append(cards, CardWithTasks{
			Card:               card,
			TaskCount:          cc.total,
			CompletedTaskCount: cc.completed,
		})
	}

	return &BoardSummary{
		Board:      board.Item,
		Lists:      board.Included.Lists,
		Cards:      cards,
		Labels:     board.Included.Labels,
		CardLabels: board.Included.CardLabels,
	}, nil
}
