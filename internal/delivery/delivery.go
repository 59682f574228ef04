// Package delivery defines the contract every transport implementation
// (HTTP server, background worker) satisfies so main can start them
// uniformly.
package delivery

import "context"

// Delivery is a long-running transport. Serve blocks until the server
// stops or fails; shutdown happens through the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
