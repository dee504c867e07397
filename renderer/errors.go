package renderer

import "errors"

var (
	ErrSceneNotDefined    = errors.New("renderer: no scene defined")
	ErrCameraNotDefined   = errors.New("renderer: no camera defined")
	ErrInvalidDimensions  = errors.New("renderer: frame dimensions must be positive")
	ErrInvalidSampleCount = errors.New("renderer: samples per pixel must be positive")
	ErrAlreadyRendering   = errors.New("renderer: another render pass is in progress")
	ErrAlreadyComplete    = errors.New("renderer: frame is already complete")
	ErrInterrupted        = errors.New("renderer: interrupted while rendering")
)
