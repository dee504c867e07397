package renderer

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/aethr/lumen/bvh"
	"github.com/aethr/lumen/log"
	"github.com/aethr/lumen/scene"
	"github.com/aethr/lumen/tracer"
)

var logger = log.New("renderer")

// State tracks a renderer through its lifecycle.
type State uint32

const (
	// Inputs validated, nothing built yet.
	StateIdle State = iota

	// Acceleration structure and worker pool are in place.
	StateReady

	// A render pass is in flight.
	StateRendering

	// All samples accumulated; the framebuffer is frozen.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateRendering:
		return "rendering"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

type Renderer interface {
	// Render blocks until all samples for the frame have accumulated.
	Render() error

	// Frame returns the rendered frame as linear RGB triplets, row 0 at
	// the top of the image.
	Frame() []float32

	// RGBA returns the tonemapped frame as display bytes, 4 per pixel.
	RGBA() []uint8

	// Interrupt aborts an in-flight render.
	Interrupt()

	// Stats returns statistics for the last render.
	Stats() FrameStats

	// Close shuts down the renderer and its worker pool.
	Close()
}

// The default renderer traces frames on a CPU worker pool without any
// display attached.
type defaultRenderer struct {
	options Options
	sc      *scene.Scene
	camera  *scene.Camera
	sched   tracer.Scheduler

	state  atomic.Uint32
	closed atomic.Bool

	tree  *bvh.Tree
	fb    *tracer.Framebuffer
	pool  *tracer.Pool
	units []tracer.Unit

	stats FrameStats
}

// Create a new default renderer. A nil scheduler selects tile scheduling
// with the default tile size.
func NewDefault(sc *scene.Scene, camera *scene.Camera, sched tracer.Scheduler, opts Options) (Renderer, error) {
	return newDefault(sc, camera, sched, opts, true)
}

func newDefault(sc *scene.Scene, camera *scene.Camera, sched tracer.Scheduler, opts Options, requireSamples bool) (*defaultRenderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if camera == nil {
		return nil, ErrCameraNotDefined
	}

	opts.applyDefaults()
	if err := opts.validate(requireSamples); err != nil {
		return nil, err
	}

	if sched == nil {
		sched = tracer.NewTileScheduler(tracer.DefaultTileSize)
	}

	return &defaultRenderer{
		options: opts,
		sc:      sc,
		camera:  camera,
		sched:   sched,
	}, nil
}

// Prepare builds the acceleration structure, projects the camera for the
// frame aspect and starts the worker pool. It runs once; later calls are
// no-ops.
func (r *defaultRenderer) Prepare() error {
	if State(r.state.Load()) != StateIdle {
		return nil
	}

	start := time.Now()
	tree, err := bvh.Build(r.sc.Primitives(), bvh.DefaultMinLeafItems)
	if err != nil {
		return err
	}
	r.tree = tree

	treeStats := tree.Stats()
	r.stats.BvhNodes = treeStats.Nodes
	r.stats.BvhLeafs = treeStats.Leafs
	r.stats.BvhDepth = treeStats.MaxDepth
	r.stats.Primitives = treeStats.Primitives
	r.stats.BvhBuildTime = time.Since(start)
	r.stats.Workers = r.options.NumWorkers
	r.stats.SamplesPerPixel = r.options.SamplesPerPixel

	r.camera.SetupProjection(float32(r.options.FrameW) / float32(r.options.FrameH))
	if err = r.camera.Validate(); err != nil {
		return err
	}

	r.fb = tracer.NewFramebuffer(r.options.FrameW, r.options.FrameH)
	r.pool = tracer.NewPool(tracer.Config{
		Camera:          r.camera,
		Tree:            r.tree,
		Background:      r.sc.Background(),
		FrameW:          r.options.FrameW,
		FrameH:          r.options.FrameH,
		SamplesPerPixel: r.options.SamplesPerPixel,
		MaxDepth:        r.options.MaxDepth,
		RouletteDepth:   r.options.RouletteDepth,
		RouletteFloor:   r.options.RouletteFloor,
		Seed:            r.options.Seed,
		NumWorkers:      r.options.NumWorkers,
	}, r.fb)
	r.units = r.sched.Schedule(r.options.FrameW, r.options.FrameH)
	r.stats.Units = len(r.units)

	logger.Debugf(
		"prepared %d primitives (%d tree nodes, depth %d) in %d ms",
		r.stats.Primitives, r.stats.BvhNodes, r.stats.BvhDepth,
		r.stats.BvhBuildTime.Nanoseconds()/1e6,
	)

	r.state.Store(uint32(StateReady))
	return nil
}

// Render traces all remaining samples in a single pass and freezes the
// framebuffer.
func (r *defaultRenderer) Render() error {
	if err := r.Prepare(); err != nil {
		return err
	}

	done := r.fb.Samples()
	if done >= r.options.SamplesPerPixel {
		return ErrAlreadyComplete
	}
	if !r.state.CompareAndSwap(uint32(StateReady), uint32(StateRendering)) {
		return ErrAlreadyRendering
	}

	// A stale interrupt means the aborted pass left uncommitted sample sums
	// behind; drop them and restart the frame from scratch.
	if r.pool.Interrupted() {
		r.fb.Reset()
		r.pool.Reset()
		done = 0
	}

	start := time.Now()
	err := r.pool.RenderPass(r.units, done, r.options.SamplesPerPixel-done, r.options.Progress)
	if err != nil {
		r.state.Store(uint32(StateReady))
		if errors.Is(err, tracer.ErrInterrupted) {
			return ErrInterrupted
		}
		return err
	}
	r.stats.RenderTime += time.Since(start)

	r.fb.Freeze()
	r.state.Store(uint32(StateComplete))
	return nil
}

// RenderPass traces up to sampleCount additional samples per pixel. Once the
// accumulated samples reach the configured target the framebuffer freezes
// and the renderer completes; with a zero target passes accumulate forever.
// After an interrupted pass the renderer keeps rejecting passes until Reset
// discards the partial frame.
func (r *defaultRenderer) RenderPass(sampleCount uint32) error {
	if err := r.Prepare(); err != nil {
		return err
	}
	if sampleCount == 0 {
		return nil
	}

	target := r.options.SamplesPerPixel
	done := r.fb.Samples()
	if target > 0 && done >= target {
		return ErrAlreadyComplete
	}
	if !r.state.CompareAndSwap(uint32(StateReady), uint32(StateRendering)) {
		return ErrAlreadyRendering
	}

	if target > 0 && done+sampleCount > target {
		sampleCount = target - done
	}

	start := time.Now()
	err := r.pool.RenderPass(r.units, done, sampleCount, r.options.Progress)
	if err != nil {
		r.state.Store(uint32(StateReady))
		if errors.Is(err, tracer.ErrInterrupted) {
			return ErrInterrupted
		}
		return err
	}
	r.stats.RenderTime += time.Since(start)

	if target > 0 && r.fb.Samples() >= target {
		r.fb.Freeze()
		r.state.Store(uint32(StateComplete))
	} else {
		r.state.Store(uint32(StateReady))
	}
	return nil
}

// Reset discards all accumulated samples and clears a pending interrupt so
// the next render starts from scratch.
func (r *defaultRenderer) Reset() error {
	if State(r.state.Load()) == StateRendering {
		return ErrAlreadyRendering
	}
	if r.fb != nil {
		r.fb.Reset()
	}
	if r.pool != nil {
		r.pool.Reset()
	}
	if State(r.state.Load()) == StateComplete {
		r.state.Store(uint32(StateReady))
	}
	return nil
}

func (r *defaultRenderer) Interrupt() {
	if r.pool != nil {
		r.pool.Interrupt()
	}
}

func (r *defaultRenderer) State() State {
	return State(r.state.Load())
}

// Samples returns the number of accumulated samples per pixel.
func (r *defaultRenderer) Samples() uint32 {
	if r.fb == nil {
		return 0
	}
	return r.fb.Samples()
}

func (r *defaultRenderer) Frame() []float32 {
	if r.fb == nil {
		return nil
	}
	return r.fb.Linear()
}

func (r *defaultRenderer) RGBA() []uint8 {
	if r.fb == nil {
		return nil
	}
	return r.fb.RGBA(r.options.Exposure)
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

func (r *defaultRenderer) Close() {
	if r.closed.Swap(true) {
		return
	}
	if r.pool != nil {
		r.pool.Close()
	}
}

// Render traces a complete frame for the given scene and camera and returns
// it as linear RGB triplets, 3 per pixel with row 0 at the top.
func Render(sc *scene.Scene, camera *scene.Camera, frameW, frameH, samplesPerPixel, maxDepth uint32, seed uint64) ([]float32, error) {
	r, err := NewDefault(sc, camera, nil, Options{
		FrameW:          frameW,
		FrameH:          frameH,
		SamplesPerPixel: samplesPerPixel,
		MaxDepth:        maxDepth,
		RouletteDepth:   3,
		Seed:            seed,
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		return nil, err
	}
	return r.Frame(), nil
}
