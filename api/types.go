package api

import (
	"context"

	"prism-board/board"
)

// Sessions hands out the board session of a namespace.
type Sessions interface {
	Get(namespace string) *board.Session
}

// Authenticator is implemented by types able to extract namespaces from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

// Deduper prevents processing of duplicate event batches.
type Deduper interface {
	Claim(ctx context.Context, userID, key string) (claimed bool, prior *BatchOutcome, err error)
	Record(ctx context.Context, userID, key string, o BatchOutcome) error
	Release(ctx context.Context, userID, key string) error
}
