package planka

import (
	"context"
	"net/http"
	"testing"
)

func TestBoardSummary_FoldsTasksThroughTaskLists(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/boards/b1" {
			http.NotFound(w, r)
			return
		}
		okJSON(w, map[string]any{
			"item": map[string]any{"id": "b1", "projectId": "p1", "name": "Sprint", "position": 65535},
			"included": map[string]any{
				"lists": []map[string]any{
					{"id": "l1", "boardId": "b1", "name": "Todo", "position": 65535},
				},
				"cards": []map[string]any{
					{"id": "c1", "listId": "l1", "boardId": "b1", "name": "Ship it", "type": "project"},
					{"id": "c2", "listId": "l1", "boardId": "b1", "name": "Write docs", "type": "project"},
					{"id": "c3", "listId": "l1", "boardId": "b1", "name": "Empty", "type": "project"},
				},
				"taskLists": []map[string]any{
					{"id": "tl1", "cardId": "c1", "name": "Tasks", "position": 65535},
					{"id": "tl2", "cardId": "c2", "name": "Tasks", "position": 65535},
				},
				// Tasks reference only their task list; the card is two
				// hops away.
				"tasks": []map[string]any{
					{"id": "t1", "taskListId": "tl1", "name": "a", "position": 65535, "isCompleted": true},
					{"id": "t2", "taskListId": "tl1", "name": "b", "position": 131070, "isCompleted": false},
					{"id": "t3", "taskListId": "tl2", "name": "c", "position": 65535, "isCompleted": true},
					{"id": "t4", "taskListId": "orphaned", "name": "d", "position": 65535, "isCompleted": true},
				},
				"labels": []map[string]any{
					{"id": "lb1", "boardId": "b1", "name": "bug", "color": "berry-red"},
				},
				"cardLabels": []map[string]any{
					{"id": "cl1", "cardId": "c1", "labelId": "lb1"},
				},
			},
		})
	})

	summary, err := client.BoardSummary(context.Background(), "b1")
	if err != nil {
		t.Fatalf("BoardSummary failed: %v", err)
	}

	if summary.Board.ID != "b1" {
		t.Errorf("expected board b1, got %s", summary.Board.ID)
	}
	if len(summary.Lists) != 1 || len(summary.Labels) != 1 || len(summary.CardLabels) != 1 {
		t.Errorf("included relations not passed through: %d lists, %d labels, %d cardLabels",
			len(summary.Lists), len(summary.Labels), len(summary.CardLabels))
	}

	counts := make(map[string]CardWithTasks, len(summary.Cards))
	for _, card := range summary.Cards {
		counts[card.ID] = card
	}

	if c := counts["c1"]; c.TaskCount != 2 || c.CompletedTaskCount != 1 {
		t.Errorf("c1: expected 2/1, got %d/%d", c.TaskCount, c.CompletedTaskCount)
	}
	if c := counts["c2"]; c.TaskCount != 1 || c.CompletedTaskCount != 1 {
		t.Errorf("c2: expected 1/1, got %d/%d", c.TaskCount, c.CompletedTaskCount)
	}
	if c := counts["c3"]; c.TaskCount != 0 || c.CompletedTaskCount != 0 {
		t.Errorf("c3: expected 0/0, got %d/%d", c.TaskCount, c.CompletedTaskCount)
	}
}

func TestBoardSummary_NotFound(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		okJSON(w, map[string]string{"message": "Board not found"})
	})

	_, err := client.BoardSummary(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
