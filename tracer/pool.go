package tracer

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Pool traces scheduled units over a fixed set of workers. Samples land in
// the attached framebuffer; every pixel sample reseeds off PixelSeed so the
// output is identical no matter how many workers run or how units get
// distributed among them.
type Pool struct {
	cfg   Config
	fb    *Framebuffer
	integ Integrator

	reqChan chan unitRequest
	wg      sync.WaitGroup
	aborted atomic.Bool
}

// Create a pool and start its workers. The pool keeps its workers parked on
// the request channel between passes; call Close to release them.
func NewPool(cfg Config, fb *Framebuffer) *Pool {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}

	p := &Pool{
		cfg: cfg,
		fb:  fb,
		integ: Integrator{
			Tree:          cfg.Tree,
			Background:    cfg.Background,
			MaxDepth:      cfg.MaxDepth,
			RouletteDepth: cfg.RouletteDepth,
			RouletteFloor: cfg.RouletteFloor,
		},
		reqChan: make(chan unitRequest),
	}

	p.wg.Add(cfg.NumWorkers)
	for i := 0; i < cfg.NumWorkers; i++ {
		go p.worker()
	}
	return p
}

// Close shuts down the pool workers. The pool cannot be used afterwards.
func (p *Pool) Close() {
	close(p.reqChan)
	p.wg.Wait()
}

// Interrupt raises the abort flag. Workers poll it between traced rows and
// bail out of in-flight units; the active pass returns ErrInterrupted.
func (p *Pool) Interrupt() {
	p.aborted.Store(true)
}

func (p *Pool) Interrupted() bool {
	return p.aborted.Load()
}

// Reset clears a pending interrupt so the pool accepts new passes.
func (p *Pool) Reset() {
	p.aborted.Store(false)
}

// RenderPass traces sampleCount samples for every pixel covered by the given
// units and accumulates them into the framebuffer. The progress callback,
// when set, fires after each completed unit. On success the framebuffer
// sample count advances by sampleCount; aborted or failed passes leave it
// untouched.
func (p *Pool) RenderPass(units []Unit, sampleStart, sampleCount uint32, progress func(done, total int)) error {
	if len(units) == 0 || sampleCount == 0 {
		return nil
	}

	start := time.Now()
	doneChan := make(chan Unit, len(units))
	errChan := make(chan error, len(units))
	go func() {
		for _, unit := range units {
			p.reqChan <- unitRequest{
				unit:        unit,
				sampleStart: sampleStart,
				sampleCount: sampleCount,
				doneChan:    doneChan,
				errChan:     errChan,
			}
		}
	}()

	var firstErr error
	completed := 0
	for pending := len(units); pending > 0; pending-- {
		select {
		case <-doneChan:
			completed++
			if progress != nil {
				progress(completed, len(units))
			}
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
			}
			p.aborted.Store(true)
		}
	}

	if firstErr != nil {
		return firstErr
	}
	if p.aborted.Load() {
		return ErrInterrupted
	}

	p.fb.Commit(sampleCount)
	logger.Debugf(
		"pass samples [%d, %d) over %d units done in %d ms",
		sampleStart, sampleStart+sampleCount, len(units),
		time.Since(start).Nanoseconds()/1e6,
	)
	return nil
}

func (p *Pool) worker() {
	defer p.wg.Done()

	// Reused for every sample; reseeded per sample off the pixel location.
	rng := rand.New(rand.NewSource(1))
	for req := range p.reqChan {
		p.process(req, rng)
	}
}

// process traces a single unit, converting worker panics into pass errors so
// a failing unit aborts the render instead of hanging the collector.
func (p *Pool) process(req unitRequest, rng *rand.Rand) {
	defer func() {
		if r := recover(); r != nil {
			p.aborted.Store(true)
			req.errChan <- fmt.Errorf("tracer: worker panic: %v", r)
		}
	}()

	if p.aborted.Load() {
		req.doneChan <- req.unit
		return
	}

	p.traceUnit(req, rng)
	req.doneChan <- req.unit
}

func (p *Pool) traceUnit(req unitRequest, rng *rand.Rand) {
	invW := 1 / float32(p.cfg.FrameW)
	invH := 1 / float32(p.cfg.FrameH)
	jitter := p.cfg.SamplesPerPixel > 1

	for y := req.unit.Y0; y < req.unit.Y1; y++ {
		if p.aborted.Load() {
			return
		}
		for x := req.unit.X0; x < req.unit.X1; x++ {
			// Samples accumulate one by one so the summation order per
			// pixel only depends on the sample index. Splitting a frame
			// into passes then lands on the exact same float sums as a
			// single batch pass.
			for s := req.sampleStart; s < req.sampleStart+req.sampleCount; s++ {
				rng.Seed(int64(PixelSeed(p.cfg.Seed, x, y, s)))

				jx, jy := float32(0.5), float32(0.5)
				if jitter {
					jx, jy = rng.Float32(), rng.Float32()
				}

				// Row 0 sits at the top of the frame while t runs
				// bottom-up through the camera viewport.
				u := (float32(x) + jx) * invW
				v := (float32(p.cfg.FrameH-1-y) + jy) * invH
				r := p.cfg.Camera.Ray(u, v, rng)
				p.fb.Accumulate(x, y, p.integ.Radiance(r, rng))
			}
		}
	}
}
