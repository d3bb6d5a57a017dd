package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMalformedDSN(t *testing.T) {
	pool, err := New(context.Background(), "://not-a-dsn")
	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "db: parse dsn")
}
