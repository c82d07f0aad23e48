package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/testutil"
)

func TestToPgxTxOptions(t *testing.T) {
	assert.Equal(t, pgx.TxOptions{}, ToPgxTxOptions(nil))

	opts := ToPgxTxOptions(&sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: true})
	assert.Equal(t, pgx.Serializable, opts.IsoLevel)
	assert.Equal(t, pgx.ReadOnly, opts.AccessMode)

	assert.Equal(t, pgx.ReadCommitted, ToPgxIsoLevel(sql.LevelReadCommitted))
	assert.Equal(t, pgx.RepeatableRead, ToPgxIsoLevel(sql.LevelSnapshot))
	assert.Equal(t, pgx.TxIsoLevel(""), ToPgxIsoLevel(sql.LevelDefault))
	assert.Equal(t, pgx.ReadWrite, ToPgxAccessMode(false))
}

type probe struct {
	N int `db:"n"`
}

func TestWithPgxTx_RollsBackOnError(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		sentinel := errors.New("boom")

		err := WithPgxTx(ctx, db, TxConfig{Fn: func(tx pgx.Tx) error {
			if _, execErr := tx.Exec(ctx, `CREATE TEMP TABLE IF NOT EXISTS tx_probe (n int)`); execErr != nil {
				return execErr
			}
			return sentinel
		}})
		require.ErrorIs(t, err, sentinel)

		err = WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
			got, qErr := CollectOne[probe](ctx, conn, `SELECT 41 + 1 AS n`)
			if qErr != nil {
				return qErr
			}
			assert.Equal(t, 42, got.N)
			return nil
		})
		require.NoError(t, err)
	})
}
