package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishAndDrain(t *testing.T) {
	b := NewBus(8)
	b.Publish(Event{Type: UnsupportedEnvCommand, Command: 999999})
	b.Publish(Event{Type: CoreMessage, Text: "hello"})

	got := b.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, uint32(999999), got[0].Command)
	assert.Equal(t, "hello", got[1].Text)
	assert.Empty(t, b.Drain())
}

func TestPublishNeverBlocks(t *testing.T) {
	b := NewBus(1)
	b.Publish(Event{Type: DuplicateFrame})
	b.Publish(Event{Type: DuplicateFrame}) // buffer full: dropped, not blocked
	assert.Equal(t, 1, b.Pending())
}
