package retrohost

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStorePaths(t *testing.T) {
	s := NewStateStore("/saves", "/roms/tetris.gb")
	assert.Equal(t, filepath.Join("/saves", "tetris_0.state"), s.SlotPath(0))
	assert.Equal(t, filepath.Join("/saves", "tetris_12.state"), s.SlotPath(12))
	assert.Equal(t, filepath.Join("/saves", "tetris.srm"), s.SRAMPath())
}

func TestStateStoreSlotRoundTrip(t *testing.T) {
	s := NewStateStore(filepath.Join(t.TempDir(), "nested"), "game.rom")

	require.NoError(t, s.WriteSlot(3, []byte{1, 2, 3}))
	data, err := s.ReadSlot(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = s.ReadSlot(4)
	assert.Error(t, err, "empty slot")

	assert.Error(t, s.WriteSlot(-1, nil))
	assert.Error(t, s.WriteSlot(MaxStateSlot+1, nil))
}

func TestStateStoreSRAM(t *testing.T) {
	s := NewStateStore(t.TempDir(), "game.rom")

	assert.Nil(t, s.ReadSRAM(), "no battery save yet")
	require.NoError(t, s.WriteSRAM(nil)) // cores without save RAM write nothing
	assert.Nil(t, s.ReadSRAM())

	require.NoError(t, s.WriteSRAM([]byte{9, 8, 7}))
	assert.Equal(t, []byte{9, 8, 7}, s.ReadSRAM())
}
