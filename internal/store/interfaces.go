// Package store is the boundary with the external graph store. It defines
// the narrow request/response contract the gateway depends on (open a
// transaction, run a query, commit or discard), the tagged Document type
// results arrive in, and an HTTP implementation of that contract.
package store

import (
	"context"
	"fmt"
)

// TransactionMode selects the transaction type for an operation. All list
// and get operations run in Read mode; create operations run in Write mode.
type TransactionMode string

const (
	Read  TransactionMode = "read"
	Write TransactionMode = "write"
)

// Result is the outcome of a single query: fetch queries yield Documents,
// insert queries yield an answer count.
type Result struct {
	Documents   []Document
	AnswerCount int
}

// Client opens transactions against one database of the graph store. A
// Client is safe for concurrent use; the process shares a single instance
// across all request handlers.
type Client interface {
	// Transaction opens a transaction of the given mode.
	Transaction(ctx context.Context, mode TransactionMode) (Transaction, error)

	// Close releases the client's resources.
	Close() error
}

// Transaction is a single open store transaction. A transaction that is
// closed without Commit discards its effects, which is the required behavior
// for all read operations.
type Transaction interface {
	// Query executes one query and fully drains its answer stream.
	Query(ctx context.Context, query string) (*Result, error)

	// Commit makes the transaction's effects durable. Only write operations
	// commit, and only after their result was drained without error.
	Commit(ctx context.Context) error

	// Close discards the transaction if it was not committed. Safe to defer
	// after a successful Commit.
	Close(ctx context.Context) error
}

// StoreError is a rejection or failure reported by the store: schema
// mismatch, connectivity failure, or a constraint violation on insert. It is
// propagated as-is; the gateway never retries.
type StoreError struct {
	// Status is the HTTP status reported by the store endpoint, 0 when the
	// request never completed.
	Status int

	// Code is the store's machine-readable error code, when present.
	Code string

	// Message is the store's human-readable message.
	Message string
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store: %s (%s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("store: %s (status %d)", e.Message, e.Status)
}
