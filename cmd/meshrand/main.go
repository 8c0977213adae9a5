package main

import (
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/sourcegraph/conc/pool"
	"github.com/ungerik/go3d/vec3"

	"github.com/royalcat/meshrand/internal/stats"
	"github.com/royalcat/meshrand/objfile"
	"github.com/royalcat/meshrand/surface"

	_ "net/http/pprof"

	"github.com/urfave/cli/v3"

	_ "github.com/KimMachineGun/automemlimit"
	_ "go.uber.org/automaxprocs"
)

func main() {
	app := &cli.App{
		Name:        "meshrand",
		Description: "Random point generation on triangle mesh surfaces",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
			},
			&cli.StringFlag{
				Name:      "log.file",
				Usage:     "append logs to this file in addition to the console",
				TakesFile: true,
			},
		},
		Before: func(ctx *cli.Context) error {
			return setupLogging(ctx.Bool("verbose"), ctx.String("log.file"))
		},
		Commands: []*cli.Command{
			{
				Name:  "uniform",
				Usage: "generate area-uniform points on a mesh surface",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "input",
						Aliases:   []string{"i"},
						Required:  true,
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Required:  true,
						TakesFile: true,
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Value:   1000,
					},
					&cli.Int64Flag{
						Name:        "seed",
						DefaultText: "time-based",
					},
					&cli.IntFlag{
						Name:        "threads",
						Aliases:     []string{"t"},
						DefaultText: "max",
					},
				},
				Action: uniform,
			},
			{
				Name:    "poisson",
				Aliases: []string{"p"},
				Usage:   "generate minimum-separation (blue noise) points on a mesh surface",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "input",
						Aliases:   []string{"i"},
						Required:  true,
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Required:  true,
						TakesFile: true,
					},
					&cli.Float64Flag{
						Name:     "radius",
						Aliases:  []string{"r"},
						Required: true,
					},
					&cli.IntFlag{
						Name:  "retries",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:    "max",
						Aliases: []string{"m"},
						Value:   1 << 20,
					},
					&cli.Int64Flag{
						Name:        "seed",
						DefaultText: "time-based",
					},
					&cli.StringFlag{
						Name:      "stats",
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:        "pprof.listen",
						DefaultText: "",
					},
					&cli.BoolFlag{
						Name:        "pprof.profile",
						DefaultText: "",
					},
				},
				Action: poisson,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func uniform(ctx *cli.Context) error {
	log := slog.Default()

	verts, faces, err := objfile.LoadFile(ctx.String("input"))
	if err != nil {
		return fmt.Errorf("error loading mesh: %w", err)
	}
	log.Info("mesh loaded", "vertices", len(verts), "faces", len(faces))

	surf, err := surface.NewUniformSurface(verts, faces)
	if err != nil {
		return fmt.Errorf("error building surface distribution: %w", err)
	}

	count := ctx.Int("count")
	threads := ctx.Int("threads")
	if threads == 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	seed := seedFlag(ctx)

	// The distribution is read-only after construction, so workers only
	// need their own rng and their own slice of the output.
	bar := pb.StartNew(count)
	points := make([]vec3.T, count)
	pool := pool.New().WithMaxGoroutines(threads)
	for w := 0; w < threads; w++ {
		lo := count * w / threads
		hi := count * (w + 1) / threads
		rng := rand.New(rand.NewSource(seed + int64(w)))
		pool.Go(func() {
			for i := lo; i < hi; i++ {
				points[i] = surf.Sample(rng).Position
				bar.Increment()
			}
		})
	}
	pool.Wait()
	bar.Finish()

	log.Info("sampling complete", "points", humanize.Comma(int64(len(points))), "area", surf.TotalArea())
	return objfile.WritePointsFile(ctx.String("output"), points)
}

func poisson(ctx *cli.Context) error {
	log := slog.Default()

	if pprofListen := ctx.String("pprof.listen"); pprofListen != "" {
		go func() {
			log.Info("Starting pprof server")
			err := http.ListenAndServe(pprofListen, nil)
			if err != nil {
				log.Error("Error starting pprof server", "error", err)
			}
		}()
	}

	if ctx.Bool("pprof.profile") {
		f, err := os.OpenFile("profile.cpu.pprof", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("error creating pprof file: %w", err)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("error starting pprof: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	var collector *stats.Collector
	if ctx.String("stats") != "" {
		var err error
		collector, err = stats.NewCollector(time.Second)
		if err != nil {
			return fmt.Errorf("error creating stats collector: %w", err)
		}
		collector.Start()
	}

	verts, faces, err := objfile.LoadFile(ctx.String("input"))
	if err != nil {
		return fmt.Errorf("error loading mesh: %w", err)
	}
	log.Info("mesh loaded", "vertices", len(verts), "faces", len(faces))

	radius := float32(ctx.Float64("radius"))
	surf, err := surface.NewPoissonDiskSurface(radius, verts, faces)
	if err != nil {
		return fmt.Errorf("error building poisson disk surface: %w", err)
	}

	rng := rand.New(rand.NewSource(seedFlag(ctx)))
	points := surf.SampleBlueNoise(ctx.Int("retries"), ctx.Int("max"), rng)
	log.Info("sampling complete", "points", humanize.Comma(int64(len(points))), "radius", radius)

	if err := objfile.WritePointsFile(ctx.String("output"), points); err != nil {
		return fmt.Errorf("failed to save points to file: %s", err.Error())
	}

	if collector != nil {
		report := collector.Stop()
		if err := report.SaveToFile(ctx.String("stats")); err != nil {
			return fmt.Errorf("error writing stats report: %w", err)
		}
	}

	return nil
}

func seedFlag(ctx *cli.Context) int64 {
	if ctx.IsSet("seed") {
		return ctx.Int64("seed")
	}
	return time.Now().UnixNano()
}
