package video

// PixelFormat identifies how a core packs pixel data into a frame buffer.
// The numeric values match the libretro environment payload for
// SET_PIXEL_FORMAT and must not be reordered.
type PixelFormat uint32

const (
	// XRGB1555 packs a pixel into 16 bits: 0RRRRRGGGGGBBBBB.
	// This is the historical libretro default.
	XRGB1555 PixelFormat = 0
	// XRGB8888 packs a pixel into 32 bits with the high byte unused.
	XRGB8888 PixelFormat = 1
	// RGB565 packs a pixel into 16 bits: RRRRRGGGGGGBBBBB.
	RGB565 PixelFormat = 2
)

// Valid reports whether f is one of the formats this host can decode.
func (f PixelFormat) Valid() bool {
	switch f {
	case XRGB1555, XRGB8888, RGB565:
		return true
	}
	return false
}

// BytesPerPixel returns the packed size of a single pixel.
func (f PixelFormat) BytesPerPixel() int {
	if f == XRGB8888 {
		return 4
	}
	return 2
}

func (f PixelFormat) String() string {
	switch f {
	case XRGB1555:
		return "0RGB1555"
	case XRGB8888:
		return "XRGB8888"
	case RGB565:
		return "RGB565"
	}
	return "unknown"
}
