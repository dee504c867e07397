//go:build !js

package main

import (
	"os"
	"runtime"

	"github.com/aethr/lumen/cmd"
	"github.com/urfave/cli"
)

func init() {
	// The interactive renderer drives glfw which requires its event
	// processing to happen on the main thread.
	runtime.LockOSThread()
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "render scenes using path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "scene",
			Usage: "list and inspect the built-in scenes",
			Subcommands: []cli.Command{
				{
					Name:   "list",
					Usage:  "list built-in scenes",
					Action: cmd.ListScenes,
				},
				{
					Name:      "info",
					Usage:     "display primitive and material stats for a built-in scene",
					ArgsUsage: "scene_name",
					Flags: []cli.Flag{
						cli.Int64Flag{
							Name:  "seed",
							Value: 42,
							Usage: "seed for procedural scene generation",
						},
					},
					Action: cmd.ShowSceneInfo,
				},
			},
		},
		{
			Name:   "render",
			Usage:  "render scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Render a single frame of a built-in scene and write it out as a png file.

Run "lumen scene list" for the available scenes.`,
					ArgsUsage: "scene_name",
					Flags: append([]cli.Flag{
						cli.IntFlag{
							Name:  "spp",
							Value: 64,
							Usage: "samples per pixel",
						},
						cli.IntFlag{
							Name:  "tile-size",
							Value: 32,
							Usage: "tile edge length in pixels for render work units",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					}, commonRenderFlags()...),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render interactive view of the scene",
					Description: `
Open an opengl window displaying a continuously refined view of the frame
buffer. Move the camera with the arrow keys (hold shift to move faster) and
rotate it by dragging with the left mouse button. Press escape to exit.`,
					ArgsUsage: "scene_name",
					Flags: append([]cli.Flag{
						cli.IntFlag{
							Name:  "spp",
							Value: 0,
							Usage: "sample budget per pixel; 0 refines until the window is closed",
						},
					}, commonRenderFlags()...),
					Action: cmd.RenderInteractive,
				},
			},
		},
	}

	app.Run(os.Args)
}

func commonRenderFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 512,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 512,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: 50,
			Usage: "max number of scatter events per path",
		},
		cli.IntFlag{
			Name:  "rr-depth",
			Value: 3,
			Usage: "scatter events before russian roulette may eliminate a path",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: 1.0,
			Usage: "camera exposure for tone-mapping",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 42,
			Usage: "seed for procedural scene generation and sampling",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "number of render workers; 0 starts one per physical core",
		},
	}
}
