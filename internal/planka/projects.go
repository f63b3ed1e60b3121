package planka

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// BoardStructure is a board with its user-facing lists resolved.
type BoardStructure struct {
	Board
	Lists []List `json:"lists"`
}

// ProjectStructure is a project with its boards and lists resolved.
type ProjectStructure struct {
	Project
	Boards []BoardStructure `json:"boards"`
}

// GetProjects fetches all projects together with the included boards.
func (c *Client) GetProjects(ctx context.Context) (*ItemsResponse[Project], error) {
	data, err := c.get(ctx, "/projects")
	if err != nil {
		return nil, err
	}

	var resp ItemsResponse[Project]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected projects response shape", Op: "GET /projects", Err: err}
	}
	return &resp, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (*Project, error) {
	if err := validateInput("project", input); err != nil {
		return nil, err
	}

	data, err := c.post(ctx, "/projects", input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Project]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected project response shape", Op: "POST /projects", Err: err}
	}
	return &resp.Item, nil
}

// CreateBoard creates a board in a project.
func (c *Client) CreateBoard(ctx context.Context, projectID string, input BoardInput) (*Board, error) {
	if err := validateInput("board", input); err != nil {
		return nil, err
	}
	if input.Position == 0 {
		input.Position = DefaultPosition
	}

	path := fmt.Sprintf("/projects/%s/boards", projectID)
	data, err := c.post(ctx, path, input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[Board]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected board response shape", Op: "POST " + path, Err: err}
	}
	return &resp.Item, nil
}

// CreateList creates a list on a board.
func (c *Client) CreateList(ctx context.Context, boardID string, input ListInput) (*List, error) {
	if err := validateInput("list", input); err != nil {
		return nil, err
	}
	if input.Position == 0 {
		input.Position = DefaultPosition
	}

	path := fmt.Sprintf("/boards/%s/lists", boardID)
	data, err := c.post(ctx, path, input)
	if err != nil {
		return nil, err
	}

	var resp ItemResponse[List]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Kind: KindAPI, Message: "unexpected list response shape", Op: "POST " + path, Err: err}
	}
	return &resp.Item, nil
}

// ProjectStructures assembles the full project → board → list structure.
//
// The bulk projects response includes boards but not lists, so every
// board costs one extra fetch. The fan-out runs sequentially in a fixed
// order; board counts are small enough that this N+1 is the accepted
// cost driver. Boards and lists are sorted by position ascending, and
// lists whose name is null (the server's archive and trash containers)
// are dropped from the view.
func (c *Client) ProjectStructures(ctx context.Context) ([]ProjectStructure, error) {
	projects, err := c.GetProjects(ctx)
	if err != nil {
		return nil, err
	}

	boardsByProject := make(map[string][]Board)
	for _, b := range projects.Included.Boards {
		boardsByProject[b.ProjectID] = append(boardsByProject[b.ProjectID], b)
	}

	structures := make([]ProjectStructure, 0, len(projects.Items))
	for _, p := range projects.Items {
		boards := boardsByProject[p.ID]
		sortBoards(boards)

		ps := ProjectStructure{Project: p, Boards: make([]BoardStructure, 0, len(boards))}
		for _, b := range boards {
			board, err := c.GetBoard(ctx, b.ID)
			if err != nil {
				return nil, err
			}

			lists := filterUserLists(board.Included.Lists)
			sortLists(lists)

			ps.Boards = append(ps.Boards, BoardStructure{Board: b, Lists: lists})
		}
		structures = append(structures, ps)
	}

	return structures, nil
}

// filterUserLists drops system archive/trash lists, which carry a null
// name.
func filterUserLists(lists []List) []List {
	kept := make([]List, 0, len(lists))
	for _, l := range lists {
		if l.Name == nil {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

func sortBoards(boards []Board) {
	sort.SliceStable(boards, func(i, j int) bool {
		return boards[i].Position < boards[j].Position
	})
}

// sortLists orders lists by position ascending. Lists with a null
// position stay in response order, after the positioned ones.
func sortLists(lists []List) {
	sort.SliceStable(lists, func(i, j int) bool {
		pi, pj := lists[i].Position, lists[j].Position
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return *pi < *pj
	})
}
