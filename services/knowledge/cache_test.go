package knowledge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingGateway struct {
	answer string
	err    error
	calls  int
}

func (g *countingGateway) Query(ctx context.Context, text string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func newCachedFixture(t *testing.T) (*CachedGateway, *countingGateway, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := &countingGateway{answer: "We open at nine."}
	return NewCachedGateway(backend, client, time.Hour, zap.NewNop()), backend, mr
}

func TestCachedGatewayServesRepeatQueriesFromCache(t *testing.T) {
	gw, backend, _ := newCachedFixture(t)
	ctx := context.Background()

	answer, err := gw.Query(ctx, "opening hours")
	require.NoError(t, err)
	assert.Equal(t, "We open at nine.", answer)
	assert.Equal(t, 1, backend.calls)

	answer, err = gw.Query(ctx, "opening hours")
	require.NoError(t, err)
	assert.Equal(t, "We open at nine.", answer)
	assert.Equal(t, 1, backend.calls, "repeat query must not reach the backend")
}

func TestCachedGatewayDistinctQueriesMissIndependently(t *testing.T) {
	gw, backend, _ := newCachedFixture(t)
	ctx := context.Background()

	_, err := gw.Query(ctx, "opening hours")
	require.NoError(t, err)
	_, err = gw.Query(ctx, "special offers")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
}

func TestCachedGatewayCacheFailureFallsThroughToBackend(t *testing.T) {
	gw, backend, mr := newCachedFixture(t)
	ctx := context.Background()
	mr.Close()

	answer, err := gw.Query(ctx, "opening hours")
	require.NoError(t, err)
	assert.Equal(t, "We open at nine.", answer)
	assert.Equal(t, 1, backend.calls)
}

func TestCachedGatewayBackendErrorIsNotCached(t *testing.T) {
	gw, backend, _ := newCachedFixture(t)
	ctx := context.Background()
	backend.err = errors.New("retrieval backend down")

	_, err := gw.Query(ctx, "opening hours")
	require.Error(t, err)

	backend.err = nil
	answer, err := gw.Query(ctx, "opening hours")
	require.NoError(t, err)
	assert.Equal(t, "We open at nine.", answer)
	assert.Equal(t, 2, backend.calls)
}
