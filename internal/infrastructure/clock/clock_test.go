package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystemClock_usesConfiguredLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	now := NewSystemClock(loc).Now()
	require.Equal(t, loc, now.Location())
	require.WithinDuration(t, time.Now(), now, time.Minute)
}

func TestSystemClock_nilLocationFallsBackToLocal(t *testing.T) {
	require.Equal(t, time.Local, NewSystemClock(nil).Now().Location())
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2012, time.April, 7, 10, 0, 0, 0, time.UTC)
	require.True(t, FixedClock{At: at}.Now().Equal(at))
}
