package libretro

// mockCore implements Core without a dynamic library. Its Run invokes the
// registered callbacks the way a real core would, reentrantly on the calling
// goroutine.
type mockCore struct {
	env        EnvironmentFunc
	video      VideoRefreshFunc
	audio      AudioSampleFunc
	audioBatch AudioSampleBatchFunc
	inputPoll  InputPollFunc
	inputState InputStateFunc

	api uint32

	initCalled   bool
	deinitCalled bool
	resetCalled  bool
	unloadCalled bool
	runCalls     int

	loadGameOK bool
	lastGame   GameDescriptor

	onRun      func(m *mockCore)
	onLoadGame func(m *mockCore, game GameDescriptor)

	sysInfo SystemInfo
	avInfo  AVInfo

	stateBuf []byte
	saveRAM  []byte

	ports map[uint32]uint32
}

func newMockCore() *mockCore {
	return &mockCore{
		api:        APIVersion,
		loadGameOK: true,
		sysInfo:    SystemInfo{LibraryName: "mockcore", LibraryVersion: "1.0"},
		avInfo: AVInfo{
			Geometry: Geometry{BaseWidth: 160, BaseHeight: 144, MaxWidth: 160, MaxHeight: 144},
			Timing:   Timing{FPS: 60, SampleRate: 44100},
		},
		ports: make(map[uint32]uint32),
	}
}

func (m *mockCore) APIVersion() uint32 { return m.api }

func (m *mockCore) SetEnvironment(fn EnvironmentFunc)           { m.env = fn }
func (m *mockCore) SetVideoRefresh(fn VideoRefreshFunc)         { m.video = fn }
func (m *mockCore) SetAudioSample(fn AudioSampleFunc)           { m.audio = fn }
func (m *mockCore) SetAudioSampleBatch(fn AudioSampleBatchFunc) { m.audioBatch = fn }
func (m *mockCore) SetInputPoll(fn InputPollFunc)               { m.inputPoll = fn }
func (m *mockCore) SetInputState(fn InputStateFunc)             { m.inputState = fn }

func (m *mockCore) Init()   { m.initCalled = true }
func (m *mockCore) Deinit() { m.deinitCalled = true }
func (m *mockCore) Reset()  { m.resetCalled = true }

func (m *mockCore) Run() {
	m.runCalls++
	if m.onRun != nil {
		m.onRun(m)
	}
}

func (m *mockCore) LoadGame(game GameDescriptor) bool {
	m.lastGame = game
	if m.onLoadGame != nil {
		m.onLoadGame(m, game)
	}
	return m.loadGameOK
}

func (m *mockCore) LoadGameSpecial(kind uint32, game GameDescriptor) bool {
	return m.LoadGame(game)
}

func (m *mockCore) UnloadGame() { m.unloadCalled = true }

func (m *mockCore) SerializeSize() uint64 { return uint64(len(m.stateBuf)) }

func (m *mockCore) Serialize(buf []byte) bool {
	if len(buf) < len(m.stateBuf) {
		return false
	}
	copy(buf, m.stateBuf)
	return true
}

func (m *mockCore) Unserialize(buf []byte) bool {
	if len(buf) != len(m.stateBuf) {
		return false
	}
	copy(m.stateBuf, buf)
	return true
}

func (m *mockCore) CheatReset()                                  {}
func (m *mockCore) CheatSet(index uint32, enabled bool, code string) {}

func (m *mockCore) Region() uint32 { return RegionNTSC }

func (m *mockCore) MemoryData(id uint32) uintptr {
	if id != MemorySaveRAM || len(m.saveRAM) == 0 {
		return 0
	}
	return uintptrOf(m.saveRAM)
}

func (m *mockCore) MemorySize(id uint32) uint64 {
	if id != MemorySaveRAM {
		return 0
	}
	return uint64(len(m.saveRAM))
}

func (m *mockCore) SystemInfo() SystemInfo { return m.sysInfo }
func (m *mockCore) SystemAVInfo() AVInfo   { return m.avInfo }

func (m *mockCore) SetControllerPortDevice(port, device uint32) {
	m.ports[port] = device
}
