package tracer

import (
	"fmt"
	"sync/atomic"

	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// Framebuffer accumulates linear radiance for a frame. Workers add sample
// sums for disjoint pixels concurrently and Commit advances the per-pixel
// sample count once a full pass lands. Freeze seals the buffer after the
// final pass; any write after that is a bug and panics.
type Framebuffer struct {
	width  uint32
	height uint32

	// RGB triplets, one per pixel, row 0 at the top of the frame.
	accum   []float32
	samples uint32
	frozen  atomic.Bool
}

// Create a framebuffer for a width x height frame.
func NewFramebuffer(width, height uint32) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		accum:  make([]float32, width*height*3),
	}
}

func (fb *Framebuffer) Width() uint32 {
	return fb.width
}

func (fb *Framebuffer) Height() uint32 {
	return fb.height
}

// Get the number of committed samples per pixel.
func (fb *Framebuffer) Samples() uint32 {
	return fb.samples
}

// Accumulate adds a radiance sample sum to one pixel.
func (fb *Framebuffer) Accumulate(x, y uint32, c types.Vec3) {
	if fb.frozen.Load() {
		panic(fmt.Sprintf("tracer: accumulate on frozen framebuffer (pixel %d,%d)", x, y))
	}

	offset := (y*fb.width + x) * 3
	fb.accum[offset] += c[0]
	fb.accum[offset+1] += c[1]
	fb.accum[offset+2] += c[2]
}

// Commit records that every pixel accumulated sampleCount extra samples.
func (fb *Framebuffer) Commit(sampleCount uint32) {
	if fb.frozen.Load() {
		panic("tracer: commit on frozen framebuffer")
	}
	fb.samples += sampleCount
}

// Freeze seals the buffer against further writes.
func (fb *Framebuffer) Freeze() {
	fb.frozen.Store(true)
}

func (fb *Framebuffer) Frozen() bool {
	return fb.frozen.Load()
}

// Reset zeroes the accumulated radiance, clears the sample count and lifts
// a freeze.
func (fb *Framebuffer) Reset() {
	fb.frozen.Store(false)
	fb.samples = 0
	for i := range fb.accum {
		fb.accum[i] = 0
	}
}

// Linear returns a copy of the accumulated radiance averaged over the
// committed samples, packed as RGB triplets with row 0 at the top.
func (fb *Framebuffer) Linear() []float32 {
	out := make([]float32, len(fb.accum))
	if fb.samples == 0 {
		return out
	}

	scale := 1 / float32(fb.samples)
	for i, v := range fb.accum {
		out[i] = v * scale
	}
	return out
}

// RGBA maps the averaged radiance to display bytes, 4 per pixel with full
// alpha. Exposure scales the linear values before the gamma 2 transfer.
func (fb *Framebuffer) RGBA(exposure float32) []uint8 {
	out := make([]uint8, fb.width*fb.height*4)

	var scale float32
	if fb.samples > 0 {
		scale = exposure / float32(fb.samples)
	}

	di := 0
	for si := 0; si < len(fb.accum); si += 3 {
		out[di] = tonemapChannel(fb.accum[si] * scale)
		out[di+1] = tonemapChannel(fb.accum[si+1] * scale)
		out[di+2] = tonemapChannel(fb.accum[si+2] * scale)
		out[di+3] = 0xff
		di += 4
	}
	return out
}

// Gamma 2 transfer with a clamp just below 1.0 so the byte value never
// overflows.
func tonemapChannel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	v = math32.Sqrt(v)
	if v > 0.999 {
		v = 0.999
	}
	return uint8(256 * v)
}
