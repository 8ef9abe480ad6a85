package render

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/delusion/pkg/math3d"
	"github.com/taigrr/delusion/pkg/shader"
)

// DefaultTileSize is the edge length of a square tile in pixels.
const DefaultTileSize = 64

// TileOptions configures RenderTiled.
type TileOptions struct {
	Size    int // tile edge in pixels; DefaultTileSize when <= 0
	Workers int // concurrent tiles; runtime.NumCPU() when <= 0
}

func (o TileOptions) normalized() TileOptions {
	if o.Size <= 0 {
		o.Size = DefaultTileSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// Tiles partitions the frame into size×size rectangles, row by row. Edge
// tiles are cropped to the frame.
func (d *Delusion) Tiles(size int) []image.Rectangle {
	if size <= 0 {
		size = DefaultTileSize
	}
	bounds := d.Bounds()
	var tiles []image.Rectangle
	for y := bounds.Min.Y; y < bounds.Max.Y; y += size {
		for x := bounds.Min.X; x < bounds.Max.X; x += size {
			tiles = append(tiles, image.Rect(x, y, x+size, y+size).Intersect(bounds))
		}
	}
	return tiles
}

// RenderTiled rasterizes every face of geo in parallel tiles. Each tile is
// owned by one worker with its own clone of sh, so no two workers write the
// same pixel; within a tile faces keep their submission order and the
// result matches RasterizeFaces.
//
// A panic raised by the geometry or shader (for example a malformed face
// index) is returned as an error. Cancelling ctx stops scheduling further
// tiles; tiles already running finish.
func (d *Delusion) RenderTiled(ctx context.Context, light math3d.Vec3, sh shader.Cloner, geo shader.Geometry, opts TileOptions) error {
	opts = opts.normalized()
	tiles := d.Tiles(opts.Size)

	bins, err := d.binFaces(tiles, opts.Size, light, sh.Clone(), geo)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	scheduled := 0
	for i, rect := range tiles {
		if len(bins[i]) == 0 {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		faces := bins[i]
		scheduled++
		g.Go(func() (err error) {
			defer recoverTile(rect, &err)
			local := sh.Clone()
			for _, face := range faces {
				d.rasterize(d.vertices(face, light, local, geo), local, geo, rect)
			}
			return nil
		})
	}
	Logger().Debug("delusion: tiles scheduled",
		"tiles", len(tiles), "busy", scheduled, "workers", opts.Workers)

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// binFaces runs the vertex stage once per face and records, for every tile,
// the faces whose screen bounding box touches it.
func (d *Delusion) binFaces(tiles []image.Rectangle, size int, light math3d.Vec3, sh shader.Shader, geo shader.Geometry) (bins [][]int, err error) {
	defer recoverTile(d.Bounds(), &err)

	bounds := d.Bounds()
	cols := (bounds.Dx() + size - 1) / size
	bins = make([][]int, len(tiles))
	for face := range geo.FaceCount() {
		pts := d.vertices(face, light, sh, geo)
		r, ok := pixelBounds(pts[0].XY(), pts[1].XY(), pts[2].XY(), bounds)
		if !ok {
			continue
		}
		for ty := r.Min.Y / size; ty <= (r.Max.Y-1)/size; ty++ {
			for tx := r.Min.X / size; tx <= (r.Max.X-1)/size; tx++ {
				i := ty*cols + tx
				bins[i] = append(bins[i], face)
			}
		}
	}
	return bins, nil
}

// recoverTile converts a panic into an error for the tile rect.
func recoverTile(rect image.Rectangle, err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok {
		*err = fmt.Errorf("render tile %v: %w", rect, e)
	} else {
		*err = fmt.Errorf("render tile %v: %v", rect, r)
	}
	Logger().Warn("delusion: tile failed", "tile", rect, "err", *err)
}
