package database

import (
	"context"

	"github.com/uptrace/bun"
)

type txKey struct{}

// ContextWithTx attaches a running transaction to the context so that
// collaborating services (the ledger) join the same transaction instead of
// committing independently.
func ContextWithTx(ctx context.Context, tx bun.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// IDBFromContext returns the transaction attached to ctx, or fallback when
// none is running.
func IDBFromContext(ctx context.Context, fallback bun.IDB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return fallback
}
