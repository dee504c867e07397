//go:build !js

package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"time"

	"github.com/aethr/lumen/renderer"
	"github.com/aethr/lumen/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/urfave/cli"
)

// RenderFrame renders a still frame of a built-in scene and writes it
// out as a png file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, camera, err := buildSceneArg(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		MaxDepth:        uint32(ctx.Int("depth")),
		RouletteDepth:   uint32(ctx.Int("rr-depth")),
		Exposure:        float32(ctx.Float64("exposure")),
		Seed:            uint64(ctx.Int64("seed")),
		NumWorkers:      workerCount(ctx),
		Progress:        logProgress,
	}

	if opts.RouletteDepth >= opts.MaxDepth {
		logger.Notice("disabling russian roulette for path elimination")
		opts.RouletteDepth = 0
	}

	sched := tracer.NewTileScheduler(uint32(ctx.Int("tile-size")))
	r, err := renderer.NewDefault(sc, camera, sched, opts)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer r.Close()

	logHostInfo(opts.NumWorkers)
	logger.Noticef("rendering %dx%d frame at %d samples per pixel", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	if err = r.Render(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	// Display stats
	displayFrameStats(r.Stats())

	imgFile := ctx.String("out")
	start := time.Now()
	if err = writePNG(imgFile, opts.FrameW, opts.FrameH, r.RGBA()); err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)

	return nil
}

// RenderInteractive opens an opengl window displaying a continuously
// refined view of the frame buffer contents.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, camera, err := buildSceneArg(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		MaxDepth:        uint32(ctx.Int("depth")),
		RouletteDepth:   uint32(ctx.Int("rr-depth")),
		Exposure:        float32(ctx.Float64("exposure")),
		Seed:            uint64(ctx.Int64("seed")),
		NumWorkers:      workerCount(ctx),
	}

	r, err := renderer.NewInteractive(sc, camera, nil, opts)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer r.Close()

	logHostInfo(opts.NumWorkers)
	if err = r.Render(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	return nil
}

// workerCount resolves the workers flag; zero selects one worker per
// physical core.
func workerCount(ctx *cli.Context) int {
	workers := ctx.Int("workers")
	if workers > 0 {
		return workers
	}

	if cores, err := cpu.Counts(false); err == nil && cores > 0 {
		return cores
	}
	return runtime.NumCPU()
}

func logHostInfo(workers int) {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		logger.Debugf("could not query host memory stats: %v", err)
		logger.Infof("using %d render workers", workers)
		return
	}
	logger.Infof("using %d render workers; host memory %s of %s in use (%.1f%%)",
		workers, fmtSize(vmStat.Used), fmtSize(vmStat.Total), vmStat.UsedPercent)
}

// logProgress emits a notice roughly every tenth of the frame.
func logProgress(done, total int) {
	if total == 0 {
		return
	}
	if done == total || done*10/total != (done-1)*10/total {
		logger.Noticef("traced %3d%% of frame", done*100/total)
	}
}

func writePNG(imgFile string, frameW, frameH uint32, pix []uint8) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	img := &image.RGBA{
		Pix:    pix,
		Stride: int(frameW) * 4,
		Rect:   image.Rect(0, 0, int(frameW), int(frameH)),
	}
	return png.Encode(f, img)
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stat", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", stats.Primitives)})
	table.Append([]string{"BVH nodes", fmt.Sprintf("%d (%d leafs, max depth %d)", stats.BvhNodes, stats.BvhLeafs, stats.BvhDepth)})
	table.Append([]string{"BVH build time", fmt.Sprintf("%s", stats.BvhBuildTime)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", stats.Workers)})
	table.Append([]string{"Work units", fmt.Sprintf("%d", stats.Units)})
	table.Append([]string{"Samples per pixel", fmt.Sprintf("%d", stats.SamplesPerPixel)})
	table.SetFooter([]string{"Render time", fmt.Sprintf("%s", stats.RenderTime)})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}

// fmtSize pretty-prints a byte count.
func fmtSize(sz uint64) string {
	units := []string{"bytes", "KB", "MB", "GB", "TB"}
	val := float64(sz)
	var uIndex int
	for uIndex = 0; val >= 1024 && uIndex < len(units)-1; uIndex++ {
		val /= 1024
	}
	if uIndex == 0 {
		return fmt.Sprintf("%d %s", sz, units[uIndex])
	}
	return fmt.Sprintf("%.1f %s", val, units[uIndex])
}
