// delusion - software rasterizer viewer
// Renders OBJ and glTF models with a max-wins depth buffer, 4x rotated-grid
// MSAA and a choice of toon, Gouraud and Phong shaders.
//
// Controls (window and terminal):
//
//	Arrows   - Move the eye
//	W/S/A/D  - Move the light
//	Q        - Toggle the clear color
//	M/N      - MSAA off / 4x
//	I/K      - Rotate about X
//	J/L      - Rotate about Y
//	-/=      - Scale down/up
//	Space    - Random spin
//	X        - Toggle wireframe
//	Esc      - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/taigrr/delusion/pkg/config"
	"github.com/taigrr/delusion/pkg/models"
	"github.com/taigrr/delusion/pkg/render"
	"github.com/taigrr/delusion/pkg/shader"
)

var (
	configPath = flag.String("config", "", "Path to a YAML scene file")
	shaderName = flag.String("shader", "", "Shader: "+strings.Join(shader.Names(), ", "))
	msaaMode   = flag.String("msaa", "", "MSAA mode: 4x or disable")
	fill       = flag.Float64("fill", 0, "Viewport fill fraction (0,1]")
	size       = flag.String("size", "", "Frame size WxH")
	mode       = flag.String("mode", "", "Host: window, terminal or snapshot (default snapshot with -o, else window)")
	output     = flag.String("o", "", "Snapshot output (.png or .webp)")
	scale      = flag.Float64("scale", 0, "Snapshot resample factor")
	tileSize   = flag.Int("tiles", 0, "Tile edge in pixels")
	workers    = flag.Int("workers", 0, "Tile workers (1 renders on one goroutine)")
	targetFPS  = flag.Int("fps", 60, "Target FPS")
	debug      = flag.Bool("debug", false, "Debug logging, including the renderer")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "delusion - software rasterizer viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: delusion [options] <model.obj|model.glb>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Move the eye\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move the light\n")
		fmt.Fprintf(os.Stderr, "  Q           - Toggle clear color\n")
		fmt.Fprintf(os.Stderr, "  M/N         - MSAA off / 4x\n")
		fmt.Fprintf(os.Stderr, "  I/K/J/L     - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  -/=         - Scale model\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if err := run(log, flag.Args()); err != nil {
		log.Error().Err(err).Msg("delusion failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, paths []string) error {
	scene := config.Default()
	if *configPath != "" {
		var err error
		if scene, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if err := scene.Resolve(config.Flags{
		Shader:  *shaderName,
		MSAA:    *msaaMode,
		Fill:    *fill,
		Size:    *size,
		Output:  *output,
		Scale:   *scale,
		Tile:    *tileSize,
		Workers: *workers,
	}); err != nil {
		return err
	}
	if err := scene.Validate(); err != nil {
		return err
	}

	if len(paths) == 0 && scene.Model.Path != "" {
		paths = []string{scene.Model.Path}
	}
	if len(paths) == 0 {
		flag.Usage()
		return fmt.Errorf("no model given")
	}

	ms := make([]*models.Model, 0, len(paths))
	for _, p := range paths {
		m, err := models.LoadModel(p)
		if err != nil {
			return err
		}
		if scene.Model.Normalize {
			m.Normalize()
		}
		d, n, s := m.Maps()
		log.Info().
			Str("model", p).
			Int("vertices", m.VertexCount()).
			Int("triangles", m.TriangleCount()).
			Bool("diffuse", d).Bool("normal", n).Bool("specular", s).
			Msg("loaded")
		ms = append(ms, m)
	}

	host := *mode
	if host == "" {
		host = "window"
		if scene.Output != "" {
			host = "snapshot"
		}
	}

	fps := max(1, *targetFPS)
	v, err := newViewer(log, scene, ms, fps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug().Str("host", host).Str("shader", scene.Shader).Stringer("msaa", v.d.MSAA()).Msg("starting")
	switch host {
	case "window":
		return runWindow(ctx, v, fps)
	case "terminal":
		return runTerminal(ctx, v, fps)
	case "snapshot":
		if scene.Output == "" {
			return fmt.Errorf("snapshot mode needs -o or output in the scene file")
		}
		return runSnapshot(ctx, v)
	default:
		return fmt.Errorf("unknown mode %q (want window, terminal or snapshot)", host)
	}
}
