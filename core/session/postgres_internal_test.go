package session

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/stefnlabs/websession/integration/database/pg"
)

// stubTx satisfies pgx.Tx through the embedded interface; db only compares
// identity, no method is called.
type stubTx struct{ pgx.Tx }

func TestPostgresStore_UsesContextTx(t *testing.T) {
	t.Parallel()

	store := NewPostgresStore(nil)

	// Without a transaction in the context, statements go to the pool.
	_, viaTx := store.db(context.Background()).(stubTx)
	assert.False(t, viaTx)

	tx := stubTx{}
	got := store.db(pg.WithTx(context.Background(), tx))
	assert.Equal(t, tx, got)
}

func TestRolesCodec(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		roles   []string
		encoded string
	}{
		{"empty", nil, ""},
		{"single", []string{"User"}, "User"},
		{"multiple", []string{"Admin", "User"}, "Admin,User"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.encoded, joinRoles(tc.roles))
			assert.Equal(t, tc.roles, splitRoles(tc.encoded))
		})
	}
}
