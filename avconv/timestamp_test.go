package avconv

import (
	"testing"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
)

func TestTimestamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 2*time.Second, Timestamp(60, astiav.NewRational(1, 30)))
	require.Equal(t, time.Duration(0), Timestamp(0, astiav.NewRational(1, 90000)))
	require.Equal(t, NoTimestamp, Timestamp(noPTS, astiav.NewRational(1, 30)))
	require.Equal(t, NoTimestamp, Timestamp(10, astiav.NewRational(1, 0)))
}
