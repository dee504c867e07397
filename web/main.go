//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/aethr/lumen/renderer"
	"github.com/aethr/lumen/scene"
)

// listScenes returns the names of the built-in scenes.
func listScenes() js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		presets := scene.Presets()
		names := make([]interface{}, len(presets))
		for index, preset := range presets {
			names[index] = preset.Name
		}
		return names
	})
}

// renderFrame renders a built-in scene and returns the tone-mapped frame as
// a Uint8ClampedArray suitable for putImageData.
//
// Args: sceneName, width, height, spp, maxDepth, seed. Trailing args may be
// omitted.
func renderFrame() js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		sceneName := "random"
		width := 256
		height := 256
		spp := 16
		maxDepth := 16
		var seed int64 = 42

		if len(args) >= 1 {
			sceneName = args[0].String()
		}
		if len(args) >= 2 {
			width = args[1].Int()
		}
		if len(args) >= 3 {
			height = args[2].Int()
		}
		if len(args) >= 4 {
			spp = args[3].Int()
		}
		if len(args) >= 5 {
			maxDepth = args[4].Int()
		}
		if len(args) >= 6 {
			seed = int64(args[5].Int())
		}

		preset, err := scene.PresetByName(sceneName)
		if err != nil {
			return jsError(err)
		}

		sc, camera, err := preset.Build(seed)
		if err != nil {
			return jsError(err)
		}

		opts := renderer.Options{
			FrameW:          uint32(width),
			FrameH:          uint32(height),
			SamplesPerPixel: uint32(spp),
			MaxDepth:        uint32(maxDepth),
			RouletteDepth:   3,
			Seed:            uint64(seed),
			// The wasm runtime multiplexes goroutines over a single
			// thread so extra workers only add scheduling overhead.
			NumWorkers: 1,
		}

		r, err := renderer.NewDefault(sc, camera, nil, opts)
		if err != nil {
			return jsError(err)
		}
		defer r.Close()

		if err = r.Render(); err != nil {
			return jsError(err)
		}

		pix := r.RGBA()
		jsArray := js.Global().Get("Uint8ClampedArray").New(len(pix))
		js.CopyBytesToJS(jsArray, pix)
		return jsArray
	})
}

func jsError(err error) interface{} {
	return map[string]interface{}{
		"error": err.Error(),
	}
}

func main() {
	js.Global().Set("lumenListScenes", listScenes())
	js.Global().Set("lumenRender", renderFrame())
	js.Global().Get("console").Call("log", "lumen wasm renderer initialized")

	// Keep the program running so the exported bindings stay valid.
	select {}
}
