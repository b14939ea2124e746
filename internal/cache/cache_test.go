package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"plot scoped to user", PlotKey("p1", "u1"), "plot:p1:user:u1"},
		{"unscoped", Key{Kind: "stage", ID: "s1"}, "stage:s1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestPlotKey_UserIsPartOfKey(t *testing.T) {
	a := PlotKey("p1", "alice").String()
	b := PlotKey("p1", "bob").String()
	assert.NotEqual(t, a, b, "different users must produce different keys for the same plot")
}

func TestNoop_AlwaysMisses(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, PlotKey("p1", "u1"), "data", time.Minute))

	_, ok, err := c.Get(ctx, PlotKey("p1", "u1"))
	require.NoError(t, err)
	assert.False(t, ok, "the no-op cache must always miss")

	require.NoError(t, c.Delete(ctx, PlotKey("p1", "u1")))
}
