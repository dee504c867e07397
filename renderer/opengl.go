//go:build !js

package renderer

import (
	"errors"
	"fmt"

	"github.com/aethr/lumen/scene"
	"github.com/aethr/lumen/tracer"
	"github.com/aethr/lumen/types"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	// Coefficients for converting delta cursor movements to yaw/pitch camera angles.
	mouseSensitivityX float32 = 0.005
	mouseSensitivityY float32 = 0.005

	// Camera movement speed
	cameraMoveSpeed float32 = 0.05
)

const (
	leftMouseButton  = 0
	rightMouseButton = 1
)

// An interactive opengl-based renderer. It refines the frame one sample per
// pixel at a time and restarts accumulation whenever the camera moves.
type interactiveRenderer struct {
	*defaultRenderer

	// opengl handles
	window    *glfw.Window
	fbTexture uint32
	texFbo    uint32

	// input state
	lastCursorPos types.Vec2
	mousePressed  [2]bool
}

// Create a new interactive opengl renderer. The caller must keep the render
// loop on the main thread; glfw event processing requires it.
func NewInteractive(sc *scene.Scene, camera *scene.Camera, sched tracer.Scheduler, opts Options) (Renderer, error) {
	// Zero samples per pixel refines the frame until the window closes
	base, err := newDefault(sc, camera, sched, opts, false)
	if err != nil {
		return nil, err
	}

	r := &interactiveRenderer{
		defaultRenderer: base,
	}

	if err = r.initGL(opts); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *interactiveRenderer) Close() {
	if r.window != nil {
		r.window.SetShouldClose(true)
	}
	r.defaultRenderer.Close()
}

func (r *interactiveRenderer) initGL(opts Options) error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %s", err.Error())
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	r.window, err = glfw.CreateWindow(int(opts.FrameW), int(opts.FrameH), "lumen", nil, nil)
	if err != nil {
		return fmt.Errorf("could not create opengl window: %s", err.Error())
	}
	r.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("could not init opengl: %s", err.Error())
	}

	// Setup texture for image data
	gl.GenTextures(1, &r.fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(opts.FrameW), int32(opts.FrameH), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &r.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Bind event callbacks
	r.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	r.window.SetKeyCallback(r.onKeyEvent)
	r.window.SetMouseButtonCallback(r.onMouseEvent)
	r.window.SetCursorPosCallback(r.onCursorPosEvent)

	return nil
}

func (r *interactiveRenderer) Render() error {
	if err := r.Prepare(); err != nil {
		return err
	}

	for !r.window.ShouldClose() {
		glfw.PollEvents()

		// Don't do anything if we don't require additional samples
		if r.options.SamplesPerPixel != 0 && r.Samples() >= r.options.SamplesPerPixel {
			continue
		}

		if err := r.RenderPass(1); err != nil {
			if errors.Is(err, ErrInterrupted) {
				continue
			}
			return err
		}

		r.blitFrame()
		r.updateTitle()
		r.window.SwapBuffers()
	}
	return nil
}

func (r *interactiveRenderer) updateTitle() {
	if r.options.SamplesPerPixel > 0 {
		r.window.SetTitle(fmt.Sprintf("lumen [%d/%d samples]", r.Samples(), r.options.SamplesPerPixel))
		return
	}
	r.window.SetTitle(fmt.Sprintf("lumen [%d samples]", r.Samples()))
}

func (r *interactiveRenderer) blitFrame() {
	gl.BindTexture(gl.TEXTURE_2D, r.fbTexture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(r.options.FrameW), int32(r.options.FrameH), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(r.RGBA()))

	// Frame rows run top-down while gl textures are bottom-up; flip the
	// source rect during the blit.
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.BlitFramebuffer(0, int32(r.options.FrameH), int32(r.options.FrameW), 0, 0, 0, int32(r.options.FrameW), int32(r.options.FrameH), gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

func (r *interactiveRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	var moveDir scene.CameraDirection
	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
		return
	case glfw.KeyUp:
		moveDir = scene.Forward
	case glfw.KeyDown:
		moveDir = scene.Backward
	case glfw.KeyLeft:
		moveDir = scene.Left
	case glfw.KeyRight:
		moveDir = scene.Right
	default:
		return
	}

	// Double speed if shift is pressed
	var speedScaler float32 = 1.0
	if (mods & glfw.ModShift) == glfw.ModShift {
		speedScaler = 2.0
	}
	r.camera.Move(moveDir, speedScaler*cameraMoveSpeed)
	r.restartAccumulation()
}

func (r *interactiveRenderer) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft && button != glfw.MouseButtonRight {
		return
	}

	r.mousePressed[leftMouseButton] = false
	r.mousePressed[rightMouseButton] = false

	if action == glfw.Press {
		xPos, yPos := w.GetCursorPos()
		r.lastCursorPos[0], r.lastCursorPos[1] = float32(xPos), float32(yPos)

		buttonIndex := leftMouseButton
		if button == glfw.MouseButtonRight {
			buttonIndex = rightMouseButton
		}
		r.mousePressed[buttonIndex] = true
	}
}

func (r *interactiveRenderer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !r.mousePressed[leftMouseButton] && !r.mousePressed[rightMouseButton] {
		return
	}

	// Calculate delta movement and apply mouse sensitivity
	newPos := types.Vec2{float32(xPos), float32(yPos)}
	delta := r.lastCursorPos.Sub(newPos)
	delta[0] *= mouseSensitivityX
	delta[1] *= mouseSensitivityY
	r.lastCursorPos = newPos

	if r.mousePressed[leftMouseButton] {
		// The left mouse button rotates lookat around eye
		r.camera.Pitch = delta[1]
		r.camera.Yaw = delta[0]
		r.camera.Update()
		r.restartAccumulation()
	}
}

// A camera change invalidates every accumulated sample.
func (r *interactiveRenderer) restartAccumulation() {
	if err := r.Reset(); err != nil {
		logger.Warningf("could not restart accumulation: %v", err)
	}
}
