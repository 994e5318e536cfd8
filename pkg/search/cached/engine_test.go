package cached

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/slask-facets/pkg/search"
)

type countingEngine struct {
	calls int
	err   error
}

func (e *countingEngine) Execute(ctx context.Context, q search.Query) (*search.RawResults, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	res := search.NewRawResults()
	res.Total = 3
	res.FieldCounts["brand"] = []search.ValueCount{{Value: "Acme", Count: 3}}
	return res, nil
}

// unreachable points at a port nothing listens on so every redis call fails fast.
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
}

func TestKey(t *testing.T) {
	a := search.NewQuery("shoe", 0, 10).WithFieldFacet("brand", nil, nil)
	b := search.NewQuery("shoe", 0, 10).WithFieldFacet("brand", nil, nil)
	c := a.WithQueryFacet("price", "[0 TO 10]")

	ka, err := Key(a)
	require.NoError(t, err)
	kb, _ := Key(b)
	kc, _ := Key(c)

	assert.True(t, strings.HasPrefix(ka, keyPrefix))
	assert.Equal(t, ka, kb)
	assert.NotEqual(t, ka, kc)
}

func TestExecuteWithoutRedis(t *testing.T) {
	next := &countingEngine{}
	c := WithClient(next, unreachable(), time.Minute)
	defer c.Close()

	res, err := c.Execute(context.Background(), search.NewQuery("", 0, 10))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, next.calls)
}

func TestExecutePassesEngineErrors(t *testing.T) {
	failure := errors.New("engine down")
	c := WithClient(&countingEngine{err: failure}, unreachable(), time.Minute)
	defer c.Close()

	_, err := c.Execute(context.Background(), search.NewQuery("", 0, 10))
	assert.ErrorIs(t, err, failure)
}
