package main

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/internal/config"
	"github.com/taigrr/roomfolio/pkg/anim"
	"github.com/taigrr/roomfolio/pkg/classify"
	"github.com/taigrr/roomfolio/pkg/controls"
	"github.com/taigrr/roomfolio/pkg/director"
	"github.com/taigrr/roomfolio/pkg/interact"
	"github.com/taigrr/roomfolio/pkg/loading"
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/media"
	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/scene"
	"github.com/taigrr/roomfolio/pkg/smoke"
	"github.com/taigrr/roomfolio/pkg/whiteboard"
	"github.com/taigrr/roomfolio/pkg/zoom"
)

// Initial view of the room.
var (
	cameraStart = math3d.V3(2.988389442190818, 2.0308409462503008, 2.407836573389637)
	orbitTarget = math3d.V3(-0.5347883276206734, 0.6471834122468871, 0.1438416559725952)
	glassTint   = render.RGB(220, 235, 245)
)

const glassOpacity = 0.15

// roomDeps are the host services a room talks to.
type roomDeps struct {
	Output media.Output // nil plays on the system speaker
	Opener interact.LinkOpener
	Cursor interact.CursorSink
	Seed   uint64
}

type loadStep struct {
	name string
	run  func() error
}

// room is the assembled portfolio room and everything that animates it.
// All of it is driven from the frame loop goroutine.
type room struct {
	cfg  *config.Config
	log  *zap.Logger
	deps roomDeps
	bg   render.Color

	scene   *scene.Scene
	objects *classify.Result
	atlas   []classify.Baked
	glass   *scene.Material
	aboutMe *scene.Material

	eng     *anim.Engine
	dir     *director.Director
	board   *whiteboard.Board
	camera  *render.Camera
	orbit   *controls.Orbit
	zoom    *zoom.Controller
	video   *media.Video
	screen1 *media.Screen
	audio   *media.Audio
	smoke   *smoke.Smoke
	tracker *loading.Tracker
	manager *interact.Manager

	steps         []loadStep
	elapsed       float64
	width, height int
}

// newRoom wires the room's components. Nothing is read from disk until
// LoadNext runs the planned steps.
func newRoom(cfg *config.Config, log *zap.Logger, deps roomDeps) (*room, error) {
	if log == nil {
		log = zap.NewNop()
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}

	r := &room{cfg: cfg, log: log, deps: deps, bg: bg}
	r.eng = anim.NewEngine()
	r.dir = director.New(r.eng, log.Named("director"))
	r.board = whiteboard.New(log.Named("whiteboard"))

	r.camera = render.NewCamera(cfg.Display.FOV)
	r.camera.SetClipPlanes(0.1, 100)
	r.camera.Position = cameraStart
	r.orbit = controls.NewOrbit(r.camera, orbitTarget, cfg.Display.FPS)
	r.zoom = zoom.New(r.eng, r.orbit, cfg.Presets(), log.Named("zoom"))

	placeholder := render.NewTexture(1, 1)
	placeholder.SetPixel(0, 0, render.ColorBlack)
	r.aboutMe = scene.NewTextureMaterial(config.AboutMeKey, placeholder)
	r.screen1 = media.NewScreen(r.aboutMe, nil)
	r.video = media.NewVideo(log.Named("video"))
	if !cfg.Scene.Mute {
		r.audio = media.NewAudio(deps.Output, log.Named("audio"))
		r.audio.SetVolume(cfg.Scene.Volume)
	}
	r.smoke = smoke.New(deps.Seed)
	r.glass = scene.NewGlassMaterial("glass", glassTint, glassOpacity)

	r.steps = r.plan()
	r.tracker = loading.NewTracker(len(r.steps), loading.Hooks{
		Intro:    r.playIntro,
		Autoplay: r.autoplay,
	}, log.Named("loading"))
	return r, nil
}

// plan lists the loading steps in the order progress messages expect:
// geometry, textures, materials, then media.
func (r *room) plan() []loadStep {
	steps := []loadStep{{"model", r.loadModel}}
	for _, t := range r.cfg.Atlas() {
		steps = append(steps, loadStep{"texture " + t.Key, func() error { return r.loadAtlas(t) }})
	}
	if path, ok := r.cfg.AboutMe(); ok {
		steps = append(steps, loadStep{"about me", func() error { return r.loadAboutMe(path) }})
	}
	steps = append(steps, loadStep{"materials", r.classify})
	if r.cfg.Scene.Video != "" {
		steps = append(steps, loadStep{"video", r.loadVideo})
	}
	if r.audio != nil && r.cfg.Scene.Audio != "" {
		steps = append(steps, loadStep{"audio", r.loadAudio})
	}
	return steps
}

// LoadNext runs one pending step and reports whether any remain.
func (r *room) LoadNext() (bool, error) {
	if len(r.steps) == 0 {
		return false, nil
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	if err := step.run(); err != nil {
		return false, fmt.Errorf("%s: %w", step.name, err)
	}
	r.tracker.Step(step.name)
	return len(r.steps) > 0, nil
}

// LoadAll runs every pending step.
func (r *room) LoadAll() error {
	for {
		more, err := r.LoadNext()
		if err != nil || !more {
			return err
		}
	}
}

func (r *room) loadModel() error {
	s, err := scene.LoadGLB(r.cfg.Scene.Model)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	r.scene = s
	return nil
}

// loadTexture decodes a baked image for bilinear sampling. Missing images
// are logged and skipped.
func (r *room) loadTexture(key, path string) *render.Texture {
	tex, err := render.LoadTexture(path)
	if err != nil {
		r.log.Warn("texture unavailable", zap.String("key", key), zap.Error(err))
		return nil
	}
	tex.FilterMode = render.FilterBilinear
	return tex
}

func (r *room) loadAtlas(t config.TextureConfig) error {
	if tex := r.loadTexture(t.Key, t.Path); tex != nil {
		r.atlas = append(r.atlas, classify.Baked{Key: t.Key, Material: scene.NewTextureMaterial(t.Key, tex)})
	}
	return nil
}

// loadAboutMe installs the about-me image, turned half a revolution and
// nudged onto the screen's UV island.
func (r *room) loadAboutMe(path string) error {
	tex := r.loadTexture(config.AboutMeKey, path)
	if tex == nil {
		return nil
	}
	tex.Transform = &render.UVTransform{
		Offset:   [2]float64{-0.01, -0.009},
		Repeat:   [2]float64{1, 1},
		Center:   [2]float64{0.5, 0.5},
		Rotation: math.Pi,
	}
	r.aboutMe.Texture = tex
	return nil
}

func (r *room) classify() error {
	res, err := classify.Classify(r.scene.Root, classify.Env{
		Atlas:   r.atlas,
		Glass:   r.glass,
		Video:   r.video.OnMaterial(),
		AboutMe: r.aboutMe,
		Board:   r.board,
		Log:     r.log.Named("classify"),
	})
	if err != nil {
		return err
	}
	r.objects = res
	r.video.Bind(res.Screen2)
	r.screen1.Bind(res.Screen1)
	r.scene.Root.Add(r.smoke.Node)

	icfg := interact.Config{
		Camera:   r.camera,
		Root:     r.scene.Root,
		Objects:  res,
		Director: r.dir,
		Zoom:     r.zoom,
		Board:    r.board,
		Orbit:    r.orbit,
		Monitor:  r.video,
		Screen1:  r.screen1,
		Links:    r.cfg.LinkTable(),
		Opener:   r.deps.Opener,
		Cursor:   r.deps.Cursor,
		Log:      r.log.Named("interact"),
	}
	if r.audio != nil {
		icfg.Audio = r.audio
	}
	r.manager = interact.New(icfg)
	if r.width > 0 && r.height > 0 {
		r.manager.Resize(float64(r.width), float64(r.height))
	}
	return nil
}

func (r *room) loadVideo() error {
	if err := r.video.OpenGIF(r.cfg.Scene.Video); err != nil {
		r.log.Warn("video unavailable", zap.Error(err))
	}
	return nil
}

func (r *room) loadAudio() error {
	if err := r.audio.OpenFile(r.cfg.Scene.Audio); err != nil {
		r.log.Warn("audio unavailable", zap.Error(err))
	}
	return nil
}

func (r *room) playIntro() {
	if r.objects == nil {
		return
	}
	r.dir.PlayIntro(r.objects.Intro)
}

func (r *room) autoplay() {
	if r.audio == nil {
		return
	}
	if err := r.audio.Play(); err != nil {
		r.log.Warn("autoplay", zap.Error(err))
	}
}

// Ready reports whether the room is loaded and the visitor has entered.
func (r *room) Ready() bool {
	return r.manager != nil && r.tracker.Entered()
}

// Enter leaves the entry prompt, optionally starting the music.
func (r *room) Enter(withAudio bool) error {
	return r.tracker.Enter(withAudio && r.audio != nil)
}

// Back zooms out and reports whether there was anything to zoom out of.
func (r *room) Back() bool {
	return r.zoom.ZoomOut() == nil
}

func (r *room) activePreset() string {
	return r.zoom.Current()
}

// Resize sets the viewport in framebuffer pixels.
func (r *room) Resize(width, height int) {
	r.width, r.height = width, height
	r.camera.SetAspectRatio(float64(width) / float64(height))
	if r.manager != nil {
		r.manager.Resize(float64(width), float64(height))
	}
}

// Update advances the room by dt seconds.
func (r *room) Update(dt float64) {
	r.elapsed += dt
	r.tracker.Update(dt)
	r.eng.Update(dt)
	if !r.zoom.Locked() {
		r.orbit.Update()
	}
	r.video.Update(dt)
	r.smoke.Update(r.elapsed, r.tracker.Progress())
	if r.Ready() {
		r.manager.Frame()
	}
	r.board.Upload()
}

// Settle advances the room frame by frame for the given seconds plus one
// frame.
func (r *room) Settle(seconds float64) {
	dt := 1 / float64(r.cfg.Display.FPS)
	for t := 0.0; t <= seconds; t += dt {
		r.Update(dt)
	}
}

// Draw renders the room into the rasterizer's framebuffer. Nothing but
// the background shows until the scene is classified.
func (r *room) Draw(fb *render.Framebuffer, rast *render.Rasterizer) {
	fb.Clear(r.bg)
	rast.BeginFrame()
	if r.objects != nil {
		r.scene.Draw(rast)
	}
}

// Close stops the background audio.
func (r *room) Close() {
	if r.audio != nil {
		r.audio.Close()
	}
}
