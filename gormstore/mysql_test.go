package gormstore_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/delbertbeta/s-sso/domain"
	"github.com/delbertbeta/s-sso/gormstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMySQLStore connects to TEST_MYSQL_DSN, e.g.
// "root:root@tcp(localhost:3306)/ssso_test?parseTime=true".
func newMySQLStore(t *testing.T) *gormstore.Store {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	db, err := gormstore.Open(gormstore.DriverMySQL, dsn, false)
	require.NoError(t, err)
	store := gormstore.New(db)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMySQLConcurrentCodeRedemption(t *testing.T) {
	store := newMySQLStore(t)
	ctx := context.Background()

	code := "code-" + uuid.NewString()
	require.NoError(t, store.SaveAuthorizationCode(ctx, &domain.AuthorizationCode{
		Code:          code,
		ApplicationID: "app",
		UserID:        1,
		RedirectURI:   "https://app.example.com/cb",
		ExpiresAt:     time.Now().UTC().Add(time.Minute),
		CreatedAt:     time.Now().UTC(),
	}))

	const attempts = 8
	start := make(chan struct{})
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = store.Transaction(ctx, func(ctx context.Context, tx domain.Store) error {
				if _, err := tx.GetAuthorizationCode(ctx, code); err != nil {
					return err
				}
				if err := tx.DeleteAuthorizationCode(ctx, code); err != nil {
					return err
				}
				// Hold the row lock so the other deletes queue behind it.
				time.Sleep(50 * time.Millisecond)
				return nil
			})
		}()
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, 1, successes)

	_, err := store.GetAuthorizationCode(ctx, code)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
