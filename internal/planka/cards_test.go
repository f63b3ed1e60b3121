package planka

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestCardDetail_SortsRelations(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cards/c1":
			okJSON(w, map[string]any{
				"item": map[string]any{"id": "c1", "listId": "l1", "boardId": "b1", "name": "Ship it", "type": "project"},
				"included": map[string]any{
					"taskLists": []map[string]any{
						{"id": "tl2", "cardId": "c1", "name": "Later", "position": 131070},
						{"id": "tl1", "cardId": "c1", "name": "Now", "position": 65535},
					},
					"tasks": []map[string]any{
						{"id": "t2", "taskListId": "tl1", "name": "second", "position": 131070},
						{"id": "t1", "taskListId": "tl1", "name": "first", "position": 65535},
					},
					"attachments": []map[string]any{
						{"id": "a1", "cardId": "c1", "name": "log.txt"},
					},
				},
			})
		case "/api/cards/c1/comments":
			okJSON(w, map[string]any{
				"items": []map[string]any{
					{"id": "m1", "cardId": "c1", "text": "older", "createdAt": "2026-01-01T10:00:00.000Z"},
					{"id": "m2", "cardId": "c1", "text": "newer", "createdAt": "2026-02-01T10:00:00.000Z"},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})

	detail, err := client.CardDetail(context.Background(), "c1")
	if err != nil {
		t.Fatalf("CardDetail failed: %v", err)
	}

	if detail.TaskLists[0].ID != "tl1" || detail.TaskLists[1].ID != "tl2" {
		t.Errorf("task lists not ordered by position: %s, %s", detail.TaskLists[0].ID, detail.TaskLists[1].ID)
	}
	if detail.Tasks[0].ID != "t1" || detail.Tasks[1].ID != "t2" {
		t.Errorf("tasks not ordered by position: %s, %s", detail.Tasks[0].ID, detail.Tasks[1].ID)
	}
	if detail.Comments[0].ID != "m2" || detail.Comments[1].ID != "m1" {
		t.Errorf("comments not newest-first: %s, %s", detail.Comments[0].ID, detail.Comments[1].ID)
	}
	if len(detail.Attachments) != 1 {
		t.Errorf("expected attachment pass-through, got %d", len(detail.Attachments))
	}
}

func TestCreateCard_TypeValidatedLocally(t *testing.T) {
	var requests atomic.Int64
	client, _, authCalls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		okJSON(w, map[string]any{"item": map[string]any{"id": "c1"}})
	})

	tests := []struct {
		name  string
		input CardInput
	}{
		{"missing type", CardInput{Name: "Ship it"}},
		{"unknown type", CardInput{Name: "Ship it", Type: "epic"}},
		{"missing name", CardInput{Type: "project"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateCard(context.Background(), "l1", tt.input)
			if KindOf(err) != KindValidation {
				t.Fatalf("expected validation kind, got %v", KindOf(err))
			}
		})
	}

	if requests.Load() != 0 || authCalls.Load() != 0 {
		t.Errorf("invalid payloads must not touch the network: %d requests, %d auths",
			requests.Load(), authCalls.Load())
	}
}

func TestCreateCard_StoryTypeAndDefaultPosition(t *testing.T) {
	var seen map[string]any
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/lists/l1/cards" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&seen); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		okJSON(w, map[string]any{
			"item": map[string]any{"id": "c1", "listId": "l1", "name": "Research spike", "type": "story"},
		})
	})

	card, err := client.CreateCard(context.Background(), "l1", CardInput{Name: "Research spike", Type: "story"})
	if err != nil {
		t.Fatalf("CreateCard failed: %v", err)
	}
	if card.Type != "story" {
		t.Errorf("expected story type back, got %q", card.Type)
	}
	if pos, ok := seen["position"].(float64); !ok || pos != DefaultPosition {
		t.Errorf("expected default position %d in payload, got %v", DefaultPosition, seen["position"])
	}
}

func TestListComments_SortedNewestFirst(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		okJSON(w, map[string]any{
			"items": []map[string]any{
				{"id": "m1", "cardId": "c1", "text": "first", "createdAt": "2026-03-01T09:00:00.000Z"},
				{"id": "m3", "cardId": "c1", "text": "third", "createdAt": "2026-03-03T09:00:00.000Z"},
				{"id": "m2", "cardId": "c1", "text": "second", "createdAt": "2026-03-02T09:00:00.000Z"},
			},
		})
	})

	comments, err := client.ListComments(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}

	want := []string{"m3", "m2", "m1"}
	for i, id := range want {
		if comments[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, comments[i].ID)
		}
	}
}
