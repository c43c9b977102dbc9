package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

// Ping is a no-op; the connection is already held by the transaction.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Members() store.Members { return &membersRepo{db: t.tx} }
func (t *txStore) Teams() store.Teams     { return &teamsRepo{db: t.tx} }
func (t *txStore) RegistrationTokens() store.RegistrationTokens {
	return &registrationTokensRepo{db: t.tx}
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
