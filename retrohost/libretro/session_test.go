package libretro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrohost/go-retrohost/retrohost/events"
	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/video"
)

func configuredSession(t *testing.T, m *mockCore) *Session {
	t.Helper()
	s := NewSession(m, SessionOptions{})
	require.NoError(t, s.Configure())
	require.NoError(t, s.Init())
	return s
}

func loadedSession(t *testing.T, m *mockCore) *Session {
	t.Helper()
	s := configuredSession(t, m)
	require.NoError(t, s.LoadGame(GameDescriptor{Path: "test.rom", Data: []byte{1, 2, 3}}))
	return s
}

func TestLifecycleHappyPath(t *testing.T) {
	m := newMockCore()
	s := NewSession(m, SessionOptions{})
	assert.Equal(t, Bound, s.State())

	require.NoError(t, s.Configure())
	assert.Equal(t, EnvironmentConfigured, s.State())
	assert.NotNil(t, m.env, "environment callback registered before init")
	assert.NotNil(t, m.video)
	assert.NotNil(t, m.inputState)

	require.NoError(t, s.Init())
	assert.True(t, m.initCalled)
	assert.Equal(t, Initialized, s.State())
	assert.Equal(t, "mockcore", s.SystemInfo().LibraryName)

	require.NoError(t, s.LoadGame(GameDescriptor{Path: "test.rom", Data: []byte{1, 2, 3}}))
	assert.Equal(t, GameLoaded, s.State())
	assert.Equal(t, float64(60), s.AVInfo().Timing.FPS)
	assert.Equal(t, DeviceJoypad, m.ports[0], "joypad plugged into every port")

	_, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, Running, s.State())
	assert.Equal(t, 1, m.runCalls)
}

func TestRunRejectedBeforeGameLoaded(t *testing.T) {
	m := newMockCore()
	s := NewSession(m, SessionOptions{})

	_, err := s.Advance()
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, Bound, stateErr.State)
	assert.Zero(t, m.runCalls, "run never reaches the core")

	require.NoError(t, s.Configure())
	require.NoError(t, s.Init())
	_, err = s.Advance()
	require.ErrorAs(t, err, &stateErr, "still rejected without a game")
	assert.Zero(t, m.runCalls)
}

func TestInitRequiresEnvironment(t *testing.T) {
	s := NewSession(newMockCore(), SessionOptions{})
	var stateErr *StateError
	require.ErrorAs(t, s.Init(), &stateErr)
}

func TestGameLoadFailureIsRecoverable(t *testing.T) {
	m := newMockCore()
	m.loadGameOK = false
	bus := events.NewBus(8)
	s := NewSession(m, SessionOptions{Bus: bus})
	require.NoError(t, s.Configure())
	require.NoError(t, s.Init())

	err := s.LoadGame(GameDescriptor{Path: "bad.rom"})
	var loadErr *GameLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "bad.rom", loadErr.Path)
	assert.Equal(t, Initialized, s.State(), "session stays usable")

	drained := bus.Drain()
	var sawFailure bool
	for _, e := range drained {
		if e.Type == events.GameLoadFailed {
			sawFailure = true
		}
	}
	assert.True(t, sawFailure, "failure reported as an event")

	// a second attempt can succeed
	m.loadGameOK = true
	require.NoError(t, s.LoadGame(GameDescriptor{Path: "good.rom"}))
	assert.Equal(t, GameLoaded, s.State())
}

func TestNeedFullPathDropsDataCopy(t *testing.T) {
	m := newMockCore()
	m.sysInfo.NeedFullPath = true
	s := configuredSession(t, m)
	require.NoError(t, s.LoadGame(GameDescriptor{Path: "disc.cue", Data: []byte{9, 9}}))
	assert.Nil(t, m.lastGame.Data, "core opens the file itself")
	assert.Equal(t, "disc.cue", m.lastGame.Path)
}

func TestScenarioRunProducesFrame(t *testing.T) {
	m := newMockCore()
	s := loadedSession(t, m)

	pixels := make([]byte, 144*512)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	addr := pinnedSlice(t, pixels)
	m.onRun = func(m *mockCore) {
		m.video(addr, 160, 144, 512)
	}

	frame, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, 160, frame.Video.Width)
	assert.Equal(t, 144, frame.Video.Height)
	assert.Equal(t, 512, frame.Video.Pitch)
	assert.False(t, frame.Video.IsDuplicate)
	assert.Equal(t, pixels, frame.Video.Pixels)
}

func TestScenarioDuplicateFrameRepeatsPixels(t *testing.T) {
	m := newMockCore()
	s := loadedSession(t, m)

	pixels := make([]byte, 144*512)
	for i := range pixels {
		pixels[i] = byte(i * 3)
	}
	addr := pinnedSlice(t, pixels)
	m.onRun = func(m *mockCore) { m.video(addr, 160, 144, 512) }
	first, err := s.Advance()
	require.NoError(t, err)

	// the source buffer dies after the callback; host must have copied
	for i := range pixels {
		pixels[i] = 0
	}

	m.onRun = func(m *mockCore) { m.video(0, 160, 144, 512) }
	second, err := s.Advance()
	require.NoError(t, err)

	assert.True(t, second.Video.IsDuplicate)
	assert.Equal(t, first.Video.Pixels, second.Video.Pixels, "previous frame's bytes redisplayed")
	assert.Equal(t, 160, second.Video.Width, "geometry untouched by a duplicate")
	assert.Equal(t, 144, second.Video.Height)
}

func TestAudioDrainedPerTick(t *testing.T) {
	m := newMockCore()
	s := loadedSession(t, m)

	batch := []int16{1, 2, 3, 4}
	batchAddr := pinnedSlice(t, batch)
	m.onRun = func(m *mockCore) {
		m.audio(100, -100)
		consumed := m.audioBatch(batchAddr, 2)
		assert.Equal(t, uintptr(2), consumed)
	}

	frame, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, []int16{100, -100, 1, 2, 3, 4}, frame.Audio)

	m.onRun = nil
	frame, err = s.Advance()
	require.NoError(t, err)
	assert.Nil(t, frame.Audio, "queue starts empty on the next run-call")
}

func TestInputFrozenPerRunCall(t *testing.T) {
	m := newMockCore()
	mgr := input.NewManager()
	s := NewSession(m, SessionOptions{Input: mgr})
	require.NoError(t, s.Configure())
	require.NoError(t, s.Init())
	require.NoError(t, s.LoadGame(GameDescriptor{Path: "test.rom"}))

	mgr.SetButton(0, input.JoypadA, true)

	var reads []int16
	m.onRun = func(m *mockCore) {
		m.inputPoll()
		reads = append(reads, m.inputState(0, DeviceJoypad, 0, input.JoypadA))
		// mid-call mutation must not be visible, even across a re-poll
		mgr.SetButton(0, input.JoypadA, false)
		m.inputPoll()
		reads = append(reads, m.inputState(0, DeviceJoypad, 0, input.JoypadA))
		reads = append(reads, m.inputState(3, DeviceJoypad, 0, input.JoypadR3))
	}

	_, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 1, 0}, reads)

	// next run-call sees the release
	m.onRun = func(m *mockCore) {
		m.inputPoll()
		reads = append(reads, m.inputState(0, DeviceJoypad, 0, input.JoypadA))
	}
	_, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, int16(0), reads[len(reads)-1])
}

func TestResetKeepsRunning(t *testing.T) {
	m := newMockCore()
	s := loadedSession(t, m)
	_, err := s.Advance()
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	assert.True(t, m.resetCalled)
	assert.Equal(t, Running, s.State())

	var stateErr *StateError
	s2 := NewSession(newMockCore(), SessionOptions{})
	require.ErrorAs(t, s2.Reset(), &stateErr)
}

func TestCloseIsTerminal(t *testing.T) {
	m := newMockCore()
	s := loadedSession(t, m)
	require.NoError(t, s.Close())
	assert.True(t, m.unloadCalled)
	assert.True(t, m.deinitCalled)
	assert.Equal(t, Unloading, s.State())

	_, err := s.Advance()
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	require.NoError(t, s.Close(), "idempotent")
}

func TestSaveAndRestoreState(t *testing.T) {
	m := newMockCore()
	m.stateBuf = []byte{0xde, 0xad, 0xbe, 0xef}
	s := loadedSession(t, m)

	buf, err := s.SaveState()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, buf)

	require.NoError(t, s.RestoreState([]byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{1, 2, 3, 4}, m.stateBuf)

	assert.Error(t, s.RestoreState([]byte{1}), "size mismatch rejected by the core")
}

func TestSaveStateRequiresGame(t *testing.T) {
	s := configuredSession(t, newMockCore())
	_, err := s.SaveState()
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestSaveRAMRoundTrip(t *testing.T) {
	m := newMockCore()
	m.saveRAM = []byte{5, 6, 7, 8}
	s := loadedSession(t, m)

	ram := s.SaveRAM()
	assert.Equal(t, []byte{5, 6, 7, 8}, ram)

	// returned slice is a copy, not a view into the core
	ram[0] = 0xff
	assert.Equal(t, byte(5), m.saveRAM[0])

	s.RestoreSaveRAM([]byte{9, 9, 9, 9})
	assert.Equal(t, []byte{9, 9, 9, 9}, m.saveRAM)
}

func TestSaveRAMAbsentRegion(t *testing.T) {
	s := loadedSession(t, newMockCore())
	assert.Nil(t, s.SaveRAM())
	s.RestoreSaveRAM([]byte{1}) // no-op, must not panic
}

func TestPixelFormatAppliesToNextFrame(t *testing.T) {
	m := newMockCore()
	s := loadedSession(t, m)

	format := new(uint32)
	*format = uint32(video.RGB565)
	ok := s.handleEnvironment(EnvSetPixelFormat, pinned(t, format))
	require.True(t, ok)

	pixels := make([]byte, 2*4)
	addr := pinnedSlice(t, pixels)
	m.onRun = func(m *mockCore) { m.video(addr, 2, 2, 4) }
	frame, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, video.RGB565, frame.Video.Format)
}

func TestRotationAppliesToPresentedFrame(t *testing.T) {
	m := newMockCore()
	s := loadedSession(t, m)

	turns := new(uint32)
	*turns = 1
	require.True(t, s.handleEnvironment(EnvSetRotation, pinned(t, turns)))

	format := new(uint32)
	*format = uint32(video.XRGB8888)
	require.True(t, s.handleEnvironment(EnvSetPixelFormat, pinned(t, format)))

	// a 2x1 source: pixel A on the left, B on the right
	pixels := []byte{
		1, 1, 1, 1,
		2, 2, 2, 2,
	}
	addr := pinnedSlice(t, pixels)
	m.onRun = func(m *mockCore) { m.video(addr, 2, 1, 8) }

	frame, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Video.Width, "quarter turn swaps dimensions")
	assert.Equal(t, 2, frame.Video.Height)
	// counter-clockwise: the right pixel ends up on top
	assert.Equal(t, []byte{2, 2, 2, 2, 1, 1, 1, 1}, frame.Video.Pixels)
}

func TestSaveStateUnsupportedByCore(t *testing.T) {
	// the default mock reports a zero serialization size
	s := loadedSession(t, newMockCore())
	buf, err := s.SaveState()
	require.ErrorIs(t, err, ErrSerializationUnsupported)
	assert.Nil(t, buf)
}
