// Package planka provides an authenticated client for a Planka kanban
// server's REST API, plus the aggregation operations the MCP tools are
// built on.
//
// The client owns a single bearer-token session: tokens are acquired
// lazily from the credentials configured at construction, cached with a
// proactive expiry margin, and refreshed at most once per call when the
// server answers 401. Every operation either returns a typed value or a
// *Error classified into a closed set of kinds (configuration,
// authentication, permission, not_found, validation, network, api).
//
// Several endpoints return a primary entity together with a
// denormalized bag of related entities ("included"). The aggregation
// operations in this package reshape those bags into coherent views:
//
//   - ProjectStructures: project → board → list hierarchy, with the
//     server's null-named archive/trash lists filtered out
//   - BoardSummary: a board's cards decorated with task counters,
//     resolved through the Task → TaskList → Card indirection
//   - CardDetail: a card with its task lists, tasks, comments
//     (newest-first), labels, and attachments
//
// Write payloads are validated locally before any network call, so
// malformed input never costs a round trip. Label colors are only
// constrained on writes; reads accept any color string the server
// returns.
//
// # Example
//
//	client, err := planka.NewClient(planka.ConfigFromEnv())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := client.BoardSummary(ctx, boardID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, card := range summary.Cards {
//	    fmt.Printf("%s: %d/%d tasks done\n", card.Name, card.CompletedTaskCount, card.TaskCount)
//	}
package planka
