//go:build !js

package cmd

import (
	"bytes"
	"errors"
	"time"

	"github.com/aethr/lumen/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the name and description of every built-in scene.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description"})
	for _, preset := range scene.Presets() {
		table.Append([]string{preset.Name, preset.Description})
	}
	table.Render()

	logger.Noticef("built-in scenes:\n%s", buf.String())
	return nil
}

// ShowSceneInfo generates a built-in scene and displays its stats.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, camera, err := buildSceneArg(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	logger.Noticef("scene information:\n%s", sc.Stats())
	logger.Noticef("camera at %v looking at %v, fov %g degrees", camera.Position, camera.LookAt, camera.FOV)
	return nil
}

// buildSceneArg generates the scene named by the first command argument
// using the seed flag.
func buildSceneArg(ctx *cli.Context) (*scene.Scene, *scene.Camera, error) {
	if ctx.NArg() != 1 {
		return nil, nil, errors.New(`missing scene name argument; run "lumen scene list" for the available scenes`)
	}

	sceneName := ctx.Args().First()
	preset, err := scene.PresetByName(sceneName)
	if err != nil {
		return nil, nil, err
	}

	seed := ctx.Int64("seed")
	start := time.Now()
	sc, camera, err := preset.Build(seed)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("generated scene %q with seed %d in %d ms", sceneName, seed, time.Since(start).Nanoseconds()/1e6)

	return sc, camera, nil
}
