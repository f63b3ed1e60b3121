package planka

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
)

// taskRecorder serves a card fixture and records task-list and task
// creations.
type taskRecorder struct {
	mu           sync.Mutex
	card         map[string]any
	taskLists    []map[string]any
	taskPayloads []map[string]any
	taskListIDs  []string
}

func (rec *taskRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		defer rec.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/cards/c1":
			okJSON(w, rec.card)
		case r.Method == http.MethodPost && r.URL.Path == "/api/cards/c1/task-lists":
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode task list payload: %v", err)
			}
			rec.taskLists = append(rec.taskLists, payload)
			okJSON(w, map[string]any{
				"item": map[string]any{"id": "tl-new", "cardId": "c1", "name": payload["name"], "position": payload["position"]},
			})
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/task-lists/"):
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode task payload: %v", err)
			}
			rec.taskPayloads = append(rec.taskPayloads, payload)
			listID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/task-lists/"), "/tasks")
			rec.taskListIDs = append(rec.taskListIDs, listID)
			okJSON(w, map[string]any{
				"item": map[string]any{"id": "t-new", "name": payload["name"], "position": payload["position"]},
			})
		default:
			http.NotFound(w, r)
		}
	}
}

func TestAddTasks_ProvisionsDefaultTaskListOnce(t *testing.T) {
	rec := &taskRecorder{
		card: map[string]any{
			"item":     map[string]any{"id": "c1", "listId": "l1", "name": "Ship it", "type": "project"},
			"included": map[string]any{},
		},
	}
	client, _, _ := newTestClient(t, rec.handler(t))

	tasks, err := client.AddTasks(context.Background(), "c1", []string{"write", "review", "merge"})
	if err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	if len(rec.taskLists) != 1 {
		t.Fatalf("expected exactly one task list creation, got %d", len(rec.taskLists))
	}
	if rec.taskLists[0]["name"] != "Tasks" {
		t.Errorf("expected default name Tasks, got %v", rec.taskLists[0]["name"])
	}

	for _, id := range rec.taskListIDs {
		if id != "tl-new" {
			t.Errorf("task created in %s instead of the provisioned list", id)
		}
	}
}

func TestAddTasks_ReusesLowestPositionedTaskList(t *testing.T) {
	rec := &taskRecorder{
		card: map[string]any{
			"item": map[string]any{"id": "c1", "listId": "l1", "name": "Ship it", "type": "project"},
			"included": map[string]any{
				"taskLists": []map[string]any{
					{"id": "tl-b", "cardId": "c1", "name": "Later", "position": 131070},
					{"id": "tl-a", "cardId": "c1", "name": "Now", "position": 65535},
				},
			},
		},
	}
	client, _, _ := newTestClient(t, rec.handler(t))

	if _, err := client.AddTasks(context.Background(), "c1", []string{"only"}); err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}

	if len(rec.taskLists) != 0 {
		t.Errorf("no task list should be created when one exists, got %d creations", len(rec.taskLists))
	}
	if len(rec.taskListIDs) != 1 || rec.taskListIDs[0] != "tl-a" {
		t.Errorf("expected task in lowest-positioned list tl-a, got %v", rec.taskListIDs)
	}
}

func TestAddTasks_PositionsAfterExistingTasks(t *testing.T) {
	rec := &taskRecorder{
		card: map[string]any{
			"item": map[string]any{"id": "c1", "listId": "l1", "name": "Ship it", "type": "project"},
			"included": map[string]any{
				"taskLists": []map[string]any{
					{"id": "tl-a", "cardId": "c1", "name": "Tasks", "position": 65535},
				},
				"tasks": []map[string]any{
					{"id": "t1", "taskListId": "tl-a", "name": "existing", "position": 131070},
					// A task in another card's list must not push the
					// position.
					{"id": "t9", "taskListId": "tl-other", "name": "elsewhere", "position": 983025},
				},
			},
		},
	}
	client, _, _ := newTestClient(t, rec.handler(t))

	if _, err := client.AddTasks(context.Background(), "c1", []string{"next", "after"}); err != nil {
		t.Fatalf("AddTasks failed: %v", err)
	}

	if len(rec.taskPayloads) != 2 {
		t.Fatalf("expected 2 task creations, got %d", len(rec.taskPayloads))
	}
	first, _ := rec.taskPayloads[0]["position"].(float64)
	second, _ := rec.taskPayloads[1]["position"].(float64)
	if first != 131070+DefaultPosition {
		t.Errorf("first task should land after the existing one, got %v", first)
	}
	if second != first+DefaultPosition {
		t.Errorf("tasks should be spaced by %d, got %v then %v", DefaultPosition, first, second)
	}
}

func TestAddTasks_EmptyNamesRejected(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty name list")
	})

	_, err := client.AddTasks(context.Background(), "c1", nil)
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation kind, got %v", KindOf(err))
	}
}

func TestAddTasks_PartialFailureReturnsCreated(t *testing.T) {
	var taskCalls int
	var mu sync.Mutex
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case r.URL.Path == "/api/cards/c1":
			okJSON(w, map[string]any{
				"item": map[string]any{"id": "c1", "listId": "l1", "name": "Ship it", "type": "project"},
				"included": map[string]any{
					"taskLists": []map[string]any{
						{"id": "tl-a", "cardId": "c1", "name": "Tasks", "position": 65535},
					},
				},
			})
		case r.URL.Path == "/api/task-lists/tl-a/tasks":
			taskCalls++
			if taskCalls > 1 {
				w.WriteHeader(http.StatusInternalServerError)
				okJSON(w, map[string]string{"message": "boom"})
				return
			}
			okJSON(w, map[string]any{"item": map[string]any{"id": "t1", "name": "first"}})
		default:
			http.NotFound(w, r)
		}
	})

	tasks, err := client.AddTasks(context.Background(), "c1", []string{"first", "second"})
	if err == nil {
		t.Fatal("expected an error from the second creation")
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("expected the first created task back, got %v", tasks)
	}
}
