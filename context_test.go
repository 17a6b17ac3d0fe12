package brotli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextLUT(t *testing.T) {
	lut1, lut2 := contextLUT(contextLSB6)
	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i&63), lut1[i])
		require.Equal(t, byte(0), lut2[i])
	}

	lut1, lut2 = contextLUT(contextMSB6)
	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i>>2), lut1[i])
		require.Equal(t, byte(0), lut2[i])
	}

	// The signed mode splits the id between both predecessors.
	lut1, lut2 = contextLUT(contextSigned)
	require.Equal(t, byte(0), lut1[0])
	require.Equal(t, byte(8), lut1[1])
	require.Equal(t, byte(0), lut2[0])
	require.Equal(t, byte(1), lut2[1])

	// All modes produce ids inside the 64-context space.
	for mode := contextLSB6; mode <= contextSigned; mode++ {
		lut1, lut2 = contextLUT(mode)
		for p1 := 0; p1 < 256; p1++ {
			for p2 := 0; p2 < 256; p2 += 17 {
				require.Less(t, int(lut1[p1]|lut2[p2]), numLiteralContexts)
			}
		}
	}
}

func TestDistanceContext(t *testing.T) {
	require.Equal(t, 0, distanceContext(2))
	require.Equal(t, 1, distanceContext(3))
	require.Equal(t, 2, distanceContext(4))
	require.Equal(t, 3, distanceContext(5))
	require.Equal(t, 3, distanceContext(22))
}
