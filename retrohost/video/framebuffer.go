package video

// FrameBuffer holds one frame of video output as delivered by a core.
//
// Pixels is always an owned copy: core-provided memory is only valid for the
// duration of the video refresh callback, so the bridge copies it out before
// storing it here. Pitch is the byte stride between rows and may exceed
// Width * bytes-per-pixel when the core aligns rows internally.
type FrameBuffer struct {
	Pixels      []byte
	Width       int
	Height      int
	Pitch       int
	Format      PixelFormat
	IsDuplicate bool
}

// NewFrameBuffer creates an empty frame buffer for the given geometry.
func NewFrameBuffer(width, height int, format PixelFormat) *FrameBuffer {
	pitch := width * format.BytesPerPixel()
	return &FrameBuffer{
		Pixels: make([]byte, height*pitch),
		Width:  width,
		Height: height,
		Pitch:  pitch,
		Format: format,
	}
}

// Replace overwrites the buffer contents with a copy of src, which must hold
// at least height*pitch bytes. The previous pixel storage is reused when it
// is large enough, so steady-state frames do not allocate.
func (fb *FrameBuffer) Replace(src []byte, width, height, pitch int, format PixelFormat) {
	size := height * pitch
	if cap(fb.Pixels) < size {
		fb.Pixels = make([]byte, size)
	}
	fb.Pixels = fb.Pixels[:size]
	copy(fb.Pixels, src[:size])
	fb.Width = width
	fb.Height = height
	fb.Pitch = pitch
	fb.Format = format
	fb.IsDuplicate = false
}

// Clone returns an independent copy, used to hand immutable snapshots to the
// presentation surface.
func (fb *FrameBuffer) Clone() *FrameBuffer {
	pixels := make([]byte, len(fb.Pixels))
	copy(pixels, fb.Pixels)
	return &FrameBuffer{
		Pixels:      pixels,
		Width:       fb.Width,
		Height:      fb.Height,
		Pitch:       fb.Pitch,
		Format:      fb.Format,
		IsDuplicate: fb.IsDuplicate,
	}
}

// Rotated returns a copy rotated counter-clockwise by turns quarter turns,
// the orientation SET_ROTATION requests. Odd turn counts swap width and
// height. The copy is tightly packed and keeps the source format.
func (fb *FrameBuffer) Rotated(turns int) *FrameBuffer {
	turns = ((turns % 4) + 4) % 4
	if turns == 0 {
		return fb.Clone()
	}
	bpp := fb.Format.BytesPerPixel()
	w, h := fb.Width, fb.Height
	outW, outH := w, h
	if turns%2 == 1 {
		outW, outH = h, w
	}
	out := &FrameBuffer{
		Pixels:      make([]byte, outW*outH*bpp),
		Width:       outW,
		Height:      outH,
		Pitch:       outW * bpp,
		Format:      fb.Format,
		IsDuplicate: fb.IsDuplicate,
	}
	for y := 0; y < h; y++ {
		row := fb.Pixels[y*fb.Pitch:]
		for x := 0; x < w; x++ {
			var dx, dy int
			switch turns {
			case 1:
				dx, dy = y, w-1-x
			case 2:
				dx, dy = w-1-x, h-1-y
			case 3:
				dx, dy = h-1-y, x
			}
			copy(out.Pixels[(dy*outW+dx)*bpp:(dy*outW+dx+1)*bpp], row[x*bpp:(x+1)*bpp])
		}
	}
	return out
}

// XRGB8888 unpacks the frame into one uint32 per visible pixel, dropping any
// row padding implied by Pitch. Backends render from this regardless of the
// core's native format.
func (fb *FrameBuffer) XRGB8888() []uint32 {
	out := make([]uint32, fb.Width*fb.Height)
	bpp := fb.Format.BytesPerPixel()
	for y := 0; y < fb.Height; y++ {
		row := fb.Pixels[y*fb.Pitch:]
		for x := 0; x < fb.Width; x++ {
			px := row[x*bpp:]
			switch fb.Format {
			case XRGB8888:
				out[y*fb.Width+x] = uint32(px[0]) | uint32(px[1])<<8 | uint32(px[2])<<16 | uint32(px[3])<<24
			case RGB565:
				v := uint16(px[0]) | uint16(px[1])<<8
				r := uint32(v >> 11 & 0x1f)
				g := uint32(v >> 5 & 0x3f)
				b := uint32(v & 0x1f)
				// replicate high bits into the low bits to use the full range
				r = r<<3 | r>>2
				g = g<<2 | g>>4
				b = b<<3 | b>>2
				out[y*fb.Width+x] = r<<16 | g<<8 | b
			case XRGB1555:
				v := uint16(px[0]) | uint16(px[1])<<8
				r := uint32(v >> 10 & 0x1f)
				g := uint32(v >> 5 & 0x1f)
				b := uint32(v & 0x1f)
				r = r<<3 | r>>2
				g = g<<3 | g>>2
				b = b<<3 | b>>2
				out[y*fb.Width+x] = r<<16 | g<<8 | b
			}
		}
	}
	return out
}
