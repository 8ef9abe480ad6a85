package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taigrr/delusion/pkg/config"
	"github.com/taigrr/delusion/pkg/math3d"
	"github.com/taigrr/delusion/pkg/models"
	"github.com/taigrr/delusion/pkg/render"
	"github.com/taigrr/delusion/pkg/shader"
)

const (
	canvasTitle = "Delusion Canvas"

	eyeStep     = 0.8
	lightStep   = 0.5
	rotateStep  = 20.0 // degrees
	shrinkScale = 0.8
	growScale   = 1.2
	spinImpulse = 6.0 // degrees per frame
)

// action is a host-independent viewer command.
type action int

const (
	actNone action = iota
	actEyeLeft
	actEyeRight
	actEyeUp
	actEyeDown
	actLightLeft
	actLightRight
	actLightUp
	actLightDown
	actToggleClear
	actMSAAOff
	actMSAAOn
	actPitchUp
	actPitchDown
	actYawLeft
	actYawRight
	actShrink
	actGrow
	actSpin
	actWireframe
	actQuit
)

var actionNames = [...]string{
	actNone:        "none",
	actEyeLeft:     "eye-left",
	actEyeRight:    "eye-right",
	actEyeUp:       "eye-up",
	actEyeDown:     "eye-down",
	actLightLeft:   "light-left",
	actLightRight:  "light-right",
	actLightUp:     "light-up",
	actLightDown:   "light-down",
	actToggleClear: "toggle-clear",
	actMSAAOff:     "msaa-off",
	actMSAAOn:      "msaa-on",
	actPitchUp:     "pitch-up",
	actPitchDown:   "pitch-down",
	actYawLeft:     "yaw-left",
	actYawRight:    "yaw-right",
	actShrink:      "shrink",
	actGrow:        "grow",
	actSpin:        "spin",
	actWireframe:   "wireframe",
	actQuit:        "quit",
}

func (a action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// viewer owns the render state shared by every host: rasterizer, camera,
// light, model transform and the loaded models.
type viewer struct {
	log    zerolog.Logger
	scene  config.Scene
	models []*models.Model

	d     *render.Delusion
	cam   *render.Camera
	sh    shader.Cloner
	light math3d.Vec3
	clear render.Color
	model math3d.Mat4 // accumulated key transforms
	spin  *Spin
	wire  bool

	frame time.Duration
}

func newViewer(log zerolog.Logger, scene config.Scene, ms []*models.Model, fps int) (*viewer, error) {
	sh, err := shader.ByName(scene.Shader)
	if err != nil {
		return nil, err
	}
	v := &viewer{
		log:    log,
		scene:  scene,
		models: ms,
		cam:    render.NewCamera(scene.Eye.Vec3(), scene.Target.Vec3(), scene.Up.Vec3()),
		sh:     sh,
		light:  scene.LightDir(),
		clear:  scene.Clear.Color(),
		model:  scene.ModelMatrix(),
		spin:   NewSpin(fps),
	}
	v.resize(scene.Width, scene.Height)
	return v, nil
}

// resize replaces the rasterizer with one of the new size, keeping the
// MSAA mode.
func (v *viewer) resize(width, height int) {
	mode := v.scene.MSAAMode()
	if v.d != nil {
		mode = v.d.MSAA()
	}
	v.d = render.NewDelusion(width, height)
	v.d.SetViewport(math3d.Viewport(width, height, v.scene.Fill))
	v.d.EnableMSAA(mode)
	v.log.Debug().Int("width", width).Int("height", height).Stringer("msaa", mode).Msg("frame resized")
}

// apply executes a. It returns false when the viewer should quit.
func (v *viewer) apply(a action) bool {
	switch a {
	case actNone:
		return true
	case actQuit:
		return false
	case actEyeLeft:
		v.cam.Move(math3d.V3(-eyeStep, 0, 0))
	case actEyeRight:
		v.cam.Move(math3d.V3(eyeStep, 0, 0))
	case actEyeUp:
		v.cam.Move(math3d.V3(0, eyeStep, 0))
	case actEyeDown:
		v.cam.Move(math3d.V3(0, -eyeStep, 0))
	case actLightLeft:
		v.light.X -= lightStep
	case actLightRight:
		v.light.X += lightStep
	case actLightUp:
		v.light.Y += lightStep
	case actLightDown:
		v.light.Y -= lightStep
	case actToggleClear:
		if v.clear == v.scene.ClearAlt.Color() {
			v.clear = v.scene.Clear.Color()
		} else {
			v.clear = v.scene.ClearAlt.Color()
		}
	case actMSAAOff:
		v.d.DisableMSAA()
	case actMSAAOn:
		v.d.EnableMSAA(render.MSAAX4)
	case actPitchUp:
		v.model = math3d.ModelMatrix(math3d.AxisX(), -rotateStep, 1).Mul(v.model)
	case actPitchDown:
		v.model = math3d.ModelMatrix(math3d.AxisX(), rotateStep, 1).Mul(v.model)
	case actYawLeft:
		v.model = math3d.ModelMatrix(math3d.AxisY(), -rotateStep, 1).Mul(v.model)
	case actYawRight:
		v.model = math3d.ModelMatrix(math3d.AxisY(), rotateStep, 1).Mul(v.model)
	case actShrink:
		v.model = math3d.ModelMatrix(math3d.AxisY(), 0, shrinkScale).Mul(v.model)
	case actGrow:
		v.model = math3d.ModelMatrix(math3d.AxisY(), 0, growScale).Mul(v.model)
	case actSpin:
		v.spin.Kick(spinImpulse)
	case actWireframe:
		v.wire = !v.wire
	}
	v.log.Debug().Stringer("action", a).Msg("key")
	return true
}

// render draws one frame of every visible model.
func (v *viewer) render(ctx context.Context) error {
	start := time.Now()

	v.spin.Update()
	v.cam.Apply(v.d)
	v.d.SetModel(v.spin.Matrix().Mul(v.model))
	if u, ok := v.sh.(shader.Uniformer); ok {
		u.SetUniform(v.cam.ViewProjectionMatrix())
	}

	v.d.ClearFrameBuffer(v.clear)
	v.d.ClearDepthBuffer()

	opts := render.TileOptions{Size: v.scene.Tiles.Size, Workers: v.scene.Tiles.Workers}
	if v.wire {
		render.NewWireframe(v.d).DrawAxes(1)
	}
	for _, m := range v.models {
		if !v.d.Visible(m.AABB()) {
			continue
		}
		switch {
		case v.wire:
			render.NewWireframe(v.d).DrawFaces(m, render.ColorGreen)
		case opts.Workers > 1:
			if err := v.d.RenderTiled(ctx, v.light, v.sh, m, opts); err != nil {
				return fmt.Errorf("render %s: %w", m.Name, err)
			}
		default:
			v.d.RasterizeFaces(v.light, v.sh, m)
		}
	}

	v.frame = time.Since(start)
	return nil
}

// title is the window caption: MSAA mode, frame time and shader name.
func (v *viewer) title() string {
	ms := v.frame.Milliseconds()
	fps := 0
	if v.frame > 0 {
		fps = int(time.Second / v.frame)
	}
	return fmt.Sprintf("%sMSAA  %s - frame %dms/%dfps  shader: %v", v.d.MSAA(), canvasTitle, ms, fps, v.sh)
}
