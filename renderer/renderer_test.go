package renderer

import (
	"errors"
	"testing"

	"github.com/aethr/lumen/scene"
	"github.com/aethr/lumen/types"
)

const (
	testFrameW uint32 = 16
	testFrameH uint32 = 12
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()

	sc, err := scene.NewBuilder().
		Add(
			scene.NewSphere(types.Vec3{0, -100.5, -1}, 100, scene.NewLambertian(0.8, 0.8, 0)),
			scene.NewSphere(types.Vec3{0, 0, -1}, 0.5, scene.NewLambertian(0.1, 0.2, 0.5)),
			scene.NewSphere(types.Vec3{1, 0, -1}, 0.5, scene.NewMetal(types.Vec3{0.8, 0.6, 0.2}, 0.1)),
		).
		Build()
	if err != nil {
		t.Fatalf("unexpected scene build error: %v", err)
	}
	return sc
}

func testOptions() Options {
	return Options{
		FrameW:          testFrameW,
		FrameH:          testFrameH,
		SamplesPerPixel: 4,
		MaxDepth:        3,
		Seed:            99,
		NumWorkers:      2,
	}
}

func TestNewDefaultValidation(t *testing.T) {
	sc := testScene(t)
	cam := scene.NewCamera(60)

	type spec struct {
		sc     *scene.Scene
		camera *scene.Camera
		opts   Options
		expErr error
	}
	specs := []spec{
		{nil, cam, testOptions(), ErrSceneNotDefined},
		{sc, nil, testOptions(), ErrCameraNotDefined},
		{sc, cam, Options{FrameW: 0, FrameH: 10, SamplesPerPixel: 1}, ErrInvalidDimensions},
		{sc, cam, Options{FrameW: 10, FrameH: 0, SamplesPerPixel: 1}, ErrInvalidDimensions},
		{sc, cam, Options{FrameW: 10, FrameH: 10, SamplesPerPixel: 0}, ErrInvalidSampleCount},
	}

	for index, s := range specs {
		if _, err := NewDefault(s.sc, s.camera, nil, s.opts); !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestRendererLifecycle(t *testing.T) {
	r, err := newDefault(testScene(t), scene.NewCamera(60), nil, testOptions(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	if got := r.State(); got != StateIdle {
		t.Fatalf("expected state %q after construction; got %q", StateIdle, got)
	}

	if err = r.Prepare(); err != nil {
		t.Fatalf("unexpected prepare error: %v", err)
	}
	if got := r.State(); got != StateReady {
		t.Fatalf("expected state %q after prepare; got %q", StateReady, got)
	}

	stats := r.Stats()
	if stats.BvhNodes == 0 || stats.Primitives != 3 {
		t.Fatalf("expected populated tree stats; got %+v", stats)
	}
	if stats.Units == 0 {
		t.Fatalf("expected scheduled units; got %+v", stats)
	}

	if err = r.Render(); err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if got := r.State(); got != StateComplete {
		t.Fatalf("expected state %q after render; got %q", StateComplete, got)
	}

	frame := r.Frame()
	if len(frame) != int(testFrameW*testFrameH*3) {
		t.Fatalf("expected %d frame components; got %d", testFrameW*testFrameH*3, len(frame))
	}

	rgba := r.RGBA()
	if len(rgba) != int(testFrameW*testFrameH*4) {
		t.Fatalf("expected %d rgba bytes; got %d", testFrameW*testFrameH*4, len(rgba))
	}

	// The sky gradient guarantees a non-black frame
	sum := float32(0)
	for _, v := range frame {
		sum += v
	}
	if sum == 0 {
		t.Fatal("expected a non-black frame")
	}

	if err = r.Render(); !errors.Is(err, ErrAlreadyComplete) {
		t.Fatalf("expected ErrAlreadyComplete on a finished frame; got %v", err)
	}
}

func TestRendererProgressivePasses(t *testing.T) {
	r, err := newDefault(testScene(t), scene.NewCamera(60), nil, testOptions(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	if err = r.RenderPass(1); err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if got := r.Samples(); got != 1 {
		t.Fatalf("expected 1 accumulated sample; got %d", got)
	}
	if got := r.State(); got != StateReady {
		t.Fatalf("expected state %q between passes; got %q", StateReady, got)
	}

	// Requesting more samples than remain clamps to the target
	if err = r.RenderPass(10); err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if got := r.Samples(); got != 4 {
		t.Fatalf("expected the pass to clamp at 4 samples; got %d", got)
	}
	if got := r.State(); got != StateComplete {
		t.Fatalf("expected state %q after the final pass; got %q", StateComplete, got)
	}

	if err = r.RenderPass(1); !errors.Is(err, ErrAlreadyComplete) {
		t.Fatalf("expected ErrAlreadyComplete; got %v", err)
	}

	// Reset discards the frame and reopens the renderer
	if err = r.Reset(); err != nil {
		t.Fatalf("unexpected reset error: %v", err)
	}
	if got := r.Samples(); got != 0 {
		t.Fatalf("expected 0 samples after reset; got %d", got)
	}
	if err = r.RenderPass(1); err != nil {
		t.Fatalf("unexpected pass error after reset: %v", err)
	}
}

func TestRendererInterrupt(t *testing.T) {
	r, err := newDefault(testScene(t), scene.NewCamera(60), nil, testOptions(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	if err = r.Prepare(); err != nil {
		t.Fatalf("unexpected prepare error: %v", err)
	}

	r.Interrupt()
	if err = r.RenderPass(1); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted; got %v", err)
	}
	if got := r.Samples(); got != 0 {
		t.Fatalf("expected no samples after an interrupted pass; got %d", got)
	}

	// A full render clears the stale interrupt and completes
	if err = r.Render(); err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if got := r.Samples(); got != 4 {
		t.Fatalf("expected 4 samples; got %d", got)
	}
}

func TestRenderDeterministicFrames(t *testing.T) {
	sc := testScene(t)

	frame1, err := Render(sc, scene.NewCamera(60), testFrameW, testFrameH, 2, 3, 1234)
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	frame2, err := Render(sc, scene.NewCamera(60), testFrameW, testFrameH, 2, 3, 1234)
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}

	if len(frame1) != int(testFrameW*testFrameH*3) {
		t.Fatalf("expected %d frame components; got %d", testFrameW*testFrameH*3, len(frame1))
	}
	for i := range frame1 {
		if frame1[i] != frame2[i] {
			t.Fatalf("component %d diverged between identical renders: %g != %g", i, frame1[i], frame2[i])
		}
	}
}
