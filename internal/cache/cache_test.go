package cache

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vvolodin/orders-service/internal/domain"
)

func order(uid string) *domain.Order {
	return &domain.Order{OrderUID: uid, TrackNumber: "TN-" + uid}
}

func TestPutAndGet(t *testing.T) {
	c := New()

	o := order("uid-1")
	c.Put(o)

	got, ok := c.Get("uid-1")
	require.True(t, ok)
	require.Equal(t, o, got)

	_, ok = c.Get("uid-2")
	require.False(t, ok)
}

func TestSnapshotInsertionOrder(t *testing.T) {
	c := New()

	for i := 0; i < 5; i++ {
		c.Put(order("uid-" + strconv.Itoa(i)))
	}

	snap := c.Snapshot()
	require.Len(t, snap, 5)
	for i, o := range snap {
		require.Equal(t, "uid-"+strconv.Itoa(i), o.OrderUID)
	}
}

func TestPutOverwriteKeepsPosition(t *testing.T) {
	c := New()
	c.Put(order("uid-a"))
	c.Put(order("uid-b"))

	updated := order("uid-a")
	updated.TrackNumber = "changed"
	c.Put(updated)

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, "uid-a", snap[0].OrderUID)
	require.Equal(t, "changed", snap[0].TrackNumber)
	require.Equal(t, "uid-b", snap[1].OrderUID)
}

func TestPopulateReplacesContents(t *testing.T) {
	c := New()
	c.Put(order("stale"))

	c.Populate([]domain.Order{*order("uid-1"), *order("uid-2")})

	require.Equal(t, 2, c.Len())
	_, ok := c.Get("stale")
	require.False(t, ok)

	snap := c.Snapshot()
	require.Equal(t, "uid-1", snap[0].OrderUID)
	require.Equal(t, "uid-2", snap[1].OrderUID)
}

func TestSnapshotAfterPopulateThenPut(t *testing.T) {
	c := New()
	c.Populate([]domain.Order{*order("warm-1"), *order("warm-2")})
	c.Put(order("live-1"))

	snap := c.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, "warm-1", snap[0].OrderUID)
	require.Equal(t, "warm-2", snap[1].OrderUID)
	require.Equal(t, "live-1", snap[2].OrderUID)
}
