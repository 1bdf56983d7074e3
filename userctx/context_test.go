package userctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorID(t *testing.T) {
	ctx := context.Background()

	_, ok := GetActorID(ctx)
	assert.False(t, ok)

	_, ok = GetActorID(SetActorID(ctx, 0))
	assert.False(t, ok, "zero is not a valid actor")

	id, ok := GetActorID(SetActorID(ctx, 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "anonymous", GetDisplayName(context.Background()))
	assert.Equal(t, "Jane", GetDisplayName(SetDisplayName(context.Background(), "Jane")))
}
