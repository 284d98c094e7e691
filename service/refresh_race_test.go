// file: service/refresh_race_test.go

package service

import (
	"context"
	"errors"
	"go-todo-api/model"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRefresh_ConcurrentRotationHasOneWinner submits the same refresh token
// from many goroutines. The revocation list's compare-and-insert must let
// exactly one rotation through; every loser observes the token as revoked.
func TestRefresh_ConcurrentRotationHasOneWinner(t *testing.T) {
	ctx := context.Background()
	authService := newTestAuthService(t, nil)

	refreshToken, err := authService.tokens.Issue(7, model.TokenKindRefresh)
	require.NoError(t, err)

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := authService.Refresh(ctx, refreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrInvalidToken):
			losses++
		default:
			t.Fatalf("unexpected refresh error: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one concurrent refresh may win")
	assert.Equal(t, callers-1, losses)
}
