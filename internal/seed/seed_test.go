package seed

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/ordermanagement/internal/dbtest"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	pkghash "github.com/Skotchmaster/ordermanagement/pkg/hash"
)

func TestRun(t *testing.T) {
	t.Parallel()

	r := repo.New(dbtest.Open(t))
	ctx := context.Background()

	done, err := Run(ctx, r, bcrypt.MinCost, time.Now())
	require.NoError(t, err)
	assert.True(t, done)

	admin, err := r.FindUserByUsername(ctx, AdminUsername)
	require.NoError(t, err)
	assert.True(t, pkghash.CheckPassword(admin.Password, AdminPassword))

	customers, err := r.ListCustomers(ctx, &repo.ListParams{})
	require.NoError(t, err)
	assert.Len(t, customers, 3)

	list, err := r.ListOrders(ctx, &repo.ListParams{})
	require.NoError(t, err)
	require.Len(t, list, 6)

	// ids descending: the first seeded order is last
	first := list[len(list)-1]
	assert.Equal(t, "Customer 1", first.CustomerName)
	assert.True(t, decimal.NewFromInt(12000).Equal(first.Total), first.Total.String())

	done, err = Run(ctx, r, bcrypt.MinCost, time.Now())
	require.NoError(t, err)
	assert.False(t, done)

	customers, err = r.ListCustomers(ctx, &repo.ListParams{})
	require.NoError(t, err)
	assert.Len(t, customers, 3)
}
