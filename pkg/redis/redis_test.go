package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(Config{Host: mr.Host(), Port: mr.Port()}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := NewClient(Config{Host: host, Port: port}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
