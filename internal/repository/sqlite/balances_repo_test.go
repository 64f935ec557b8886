package sqlite

import (
	"context"
	"sync"
	"testing"

	"github.com/baharkarakas/wallet-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) repository.Balances {
	t.Helper()
	db, err := Open("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(context.Background(), db, false))
	return NewBalances(db)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGet_NotFound(t *testing.T) {
	r := newRepo(t)
	_, err := r.Get(context.Background(), 123, "USD")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAddAmount_CreateIncrementDecrement(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	added, err := r.AddAmount(ctx, 123, "USD", dec("15.5"))
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, int64(123), added.UserID)
	assert.Equal(t, "USD", added.Code)
	assert.True(t, added.Amount.Equal(dec("15.5")))

	increased, err := r.AddAmount(ctx, 123, "USD", dec("0.5"))
	require.NoError(t, err)
	assert.Equal(t, added.ID, increased.ID)
	assert.True(t, increased.Amount.Equal(dec("16")))

	decreased, err := r.AddAmount(ctx, 123, "USD", dec("-15"))
	require.NoError(t, err)
	assert.True(t, decreased.Amount.Equal(dec("1")))

	got, err := r.Get(ctx, 123, "USD")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("1")))
}

func TestAddAmount_RejectsNonPositiveCreate(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	_, err := r.AddAmount(ctx, 123, "USD", dec("-15.5"))
	assert.ErrorIs(t, err, repository.ErrInvalidAmount)

	_, err = r.AddAmount(ctx, 123, "USD", decimal.Zero)
	assert.ErrorIs(t, err, repository.ErrInvalidAmount)

	_, err = r.Get(ctx, 123, "USD")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAddAmount_FailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	_, err := r.AddAmount(ctx, 123, "USD", dec("10.25"))
	require.NoError(t, err)

	for _, delta := range []string{"-10.25", "-11", "0.001"} {
		_, err = r.AddAmount(ctx, 123, "USD", dec(delta))
		assert.ErrorIs(t, err, repository.ErrInvalidAmount, delta)
	}

	got, err := r.Get(ctx, 123, "USD")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("10.25")))
}

func TestAddAmount_RejectsOverflow(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	_, err := r.AddAmount(ctx, 123, "USD", dec("9999999999999999.99"))
	require.NoError(t, err)

	_, err = r.AddAmount(ctx, 123, "USD", dec("0.01"))
	assert.ErrorIs(t, err, repository.ErrInvalidAmount)

	_, err = r.AddAmount(ctx, 456, "USD", dec("10000000000000000"))
	assert.ErrorIs(t, err, repository.ErrInvalidAmount)

	got, err := r.Get(ctx, 123, "USD")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("9999999999999999.99")))
}

func TestList_InsertionOrderPerUser(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	for _, code := range []string{"USD", "AUD", "AED"} {
		_, err := r.AddAmount(ctx, 123, code, dec("1"))
		require.NoError(t, err)
	}
	_, err := r.AddAmount(ctx, 456, "EUR", dec("1"))
	require.NoError(t, err)

	list, err := r.List(ctx, 123)
	require.NoError(t, err)
	codes := make([]string, 0, len(list))
	for _, b := range list {
		codes = append(codes, b.Code)
	}
	assert.Equal(t, []string{"USD", "AUD", "AED"}, codes)

	empty, err := r.List(ctx, 789)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	_, err := r.AddAmount(ctx, 123, "USD", dec("1"))
	require.NoError(t, err)

	ok, err := r.Delete(ctx, 123, "USD")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Delete(ctx, 123, "USD")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddAmount_ConcurrentAdditionsAreNotLost(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.AddAmount(ctx, 123, "USD", dec("0.01"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := r.Get(ctx, 123, "USD")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("0.50")), got.Amount.String())
}
