package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cefilm-backend/internal/config"
)

func TestNewRedisUnreachable(t *testing.T) {
	start := time.Now()
	client, err := NewRedis(config.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
	assert.Less(t, time.Since(start), pingTimeout+time.Second)
}
