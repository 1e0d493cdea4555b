package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockNowInLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*60*60)
	clk := New(loc)

	before := time.Now().Add(-time.Second)
	got := clk.Now()
	after := time.Now().Add(time.Second)

	require.Equal(t, loc, got.Location())
	require.True(t, got.After(before) && got.Before(after))
}

func TestClockDefaultsToLocal(t *testing.T) {
	t.Parallel()

	require.Equal(t, time.Local, New(nil).Location())
}
