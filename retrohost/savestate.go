package retrohost

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StateStore persists save states and battery saves on disk, named after the
// loaded content so multiple games can share one save directory.
//
// Save states live at <dir>/<game>_<slot>.state, battery saves (SRAM) at
// <dir>/<game>.srm, matching the naming most frontends use.
type StateStore struct {
	dir  string
	game string
}

// MaxStateSlot is the highest addressable save-state slot.
const MaxStateSlot = 255

// NewStateStore creates a store for the given content path. The directory is
// created on first use, not here.
func NewStateStore(dir, contentPath string) *StateStore {
	game := filepath.Base(contentPath)
	game = strings.TrimSuffix(game, filepath.Ext(game))
	return &StateStore{dir: dir, game: game}
}

// SlotPath returns the filename for a save-state slot.
func (s *StateStore) SlotPath(slot int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%d.state", s.game, slot))
}

// SRAMPath returns the filename for the battery save.
func (s *StateStore) SRAMPath() string {
	return filepath.Join(s.dir, s.game+".srm")
}

// WriteSlot persists a serialized state buffer to a slot.
func (s *StateStore) WriteSlot(slot int, data []byte) error {
	if slot < 0 || slot > MaxStateSlot {
		return fmt.Errorf("save slot %d out of range", slot)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %v", err)
	}
	return os.WriteFile(s.SlotPath(slot), data, 0644)
}

// ReadSlot loads a previously written state buffer.
func (s *StateStore) ReadSlot(slot int) ([]byte, error) {
	if slot < 0 || slot > MaxStateSlot {
		return nil, fmt.Errorf("save slot %d out of range", slot)
	}
	return os.ReadFile(s.SlotPath(slot))
}

// WriteSRAM persists the battery save. Empty data is a no-op so cores without
// save RAM never produce a file.
func (s *StateStore) WriteSRAM(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %v", err)
	}
	return os.WriteFile(s.SRAMPath(), data, 0644)
}

// ReadSRAM loads the battery save, returning nil when none exists.
func (s *StateStore) ReadSRAM() []byte {
	data, err := os.ReadFile(s.SRAMPath())
	if err != nil {
		return nil
	}
	return data
}
