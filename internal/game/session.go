// Package game runs play sessions: it owns the world of one playthrough,
// steps it frame by frame and composes what the player sees. The screen flow
// around sessions is the Machine in fsm.go.
package game

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-zombies/internal/assets"
	"github.com/vovakirdan/tui-zombies/internal/camera"
	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/entity"
	"github.com/vovakirdan/tui-zombies/internal/render"
	"github.com/vovakirdan/tui-zombies/internal/tilemap"
)

// Options configures a new session.
type Options struct {
	Config   config.Config
	Runtime  core.RuntimeConfig
	Assets   assets.Provider // nil means the built-in sprites
	Cues     entity.Cues     // nil means silent
	Logger   *log.Logger
	Bindings core.Bindings // nil means core.DefaultBindings
}

// musicPlayer is implemented by cue sinks that can also loop music.
type musicPlayer interface {
	PlayMusic()
	StopMusic()
}

// Stats summarizes a session so far.
type Stats struct {
	Kills    int
	Pickups  int
	Hits     int
	Health   int
	MobsLeft int
	Elapsed  time.Duration
}

// FrameResult is everything the presenter needs for one frame.
type FrameResult struct {
	Image   *image.RGBA
	Labels  []render.Label
	Outcome Outcome
	Quit    bool
	Paused  bool
}

// Session is one playthrough of one map. It is not safe for concurrent use;
// the platform loop owns it.
type Session struct {
	tm       *tilemap.TileMap
	world    *entity.World
	cam      *camera.Camera
	cfg      config.Config
	runtime  core.RuntimeConfig
	bindings core.Bindings
	logger   *log.Logger

	input core.InputState
	env   entity.Env
	rng   *rand.Rand
	cues  entity.Cues
	clock float64

	ground  *image.RGBA // map background plus decals
	frame   *image.RGBA
	sprites *render.Sprites
	fog     *render.Fog

	paused  bool
	night   bool
	debug   bool
	quit    bool
	outcome Outcome
	stats   Stats
	closed  bool
}

// NewSession builds the world for tm and starts the level. Missing sprites
// or a map without a player spawn fail with a *tilemap.ResourceLoadError.
func NewSession(tm *tilemap.TileMap, opts Options) (*Session, error) {
	if tm == nil {
		return nil, errors.New("game: nil map")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	provider := opts.Assets
	if provider == nil {
		provider = assets.Builtin{}
	}
	cues := opts.Cues
	if cues == nil {
		cues = entity.NopCues{}
	}
	bindings := opts.Bindings
	if bindings == nil {
		bindings = core.DefaultBindings()
	}
	rt := opts.Runtime
	if rt.PixelScale <= 0 {
		rt.PixelScale = opts.Config.Display.PixelScale
	}
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	images, err := assets.Preload(provider, assets.Images)
	if err != nil {
		name := "assets"
		var le *assets.LoadError
		if errors.As(err, &le) {
			name = le.Name
		}
		return nil, &tilemap.ResourceLoadError{Path: name, Err: err}
	}

	s := &Session{
		tm:       tm,
		cfg:      opts.Config,
		runtime:  rt,
		bindings: bindings,
		logger:   logger,
		input:    core.NewInputState(),
		rng:      rand.New(rand.NewSource(rt.Seed)),
		cues:     cues,
		ground:   render.Clone(tm.Background()),
		sprites:  render.NewSprites(images),
		night:    opts.Config.Lighting.Night,
	}

	bounds := core.NewRect(0, 0, float64(tm.PixelWidth()), float64(tm.PixelHeight()))
	s.world = entity.NewWorld(bounds, s.cfg)
	if err := s.spawn(); err != nil {
		return nil, err
	}

	vw, vh := rt.ViewportSize()
	s.cam = camera.New(tm.PixelWidth(), tm.PixelHeight(), vw, vh)
	s.cam.Update(s.world.Player().Position())
	s.frame = image.NewRGBA(image.Rect(0, 0, vw, vh))
	s.fog = render.NewFog(vw, vh, images[assets.LightMask], 2*s.cfg.Lighting.LightRadius)

	s.env = entity.Env{
		World: s.world,
		Input: &s.input,
		Rand:  s.rng,
		Cues:  s.cues,
	}
	s.stats.Health = s.world.Player().Health()
	s.stats.MobsLeft = s.world.MobCount()

	s.cues.Play(entity.CueLevelStart)
	if m, ok := s.cues.(musicPlayer); ok {
		m.PlayMusic()
	}
	logger.Info("session started", "map", tm.ID(), "seed", rt.Seed, "mobs", s.stats.MobsLeft)
	return s, nil
}

// spawn turns map placements into entities. The player is placed first so
// every mob can take it as its target.
func (s *Session) spawn() error {
	objects := s.tm.Objects()
	placed := false
	for _, o := range objects {
		if o.Kind == tilemap.KindPlayer && !placed {
			s.world.SetPlayer(o.Pos)
			placed = true
		}
	}
	if !placed {
		return &tilemap.ResourceLoadError{Path: s.tm.ID(), Err: errors.New("map has no player spawn")}
	}

	accels := s.cfg.Mobs.Accelerations
	for _, o := range objects {
		switch o.Kind {
		case tilemap.KindZombie:
			accel := 0.0
			if len(accels) > 0 {
				accel = accels[s.rng.Intn(len(accels))]
			}
			s.world.AddMob(o.Pos, accel)
		case tilemap.KindWall:
			s.world.AddObstacle(o.Rect())
		case tilemap.KindHealth:
			s.world.AddItem(o.Pos, entity.ItemHealth, "")
		case tilemap.KindShotgun:
			s.world.AddItem(o.Pos, entity.ItemWeapon, config.WeaponShotgun)
		}
	}
	return nil
}

// Frame advances the session by dt seconds after applying events and
// returns the composed frame. The simulation does not move while paused or
// after the session has ended, but the frame is always composed.
func (s *Session) Frame(dt float64, events []core.Event) FrameResult {
	if s.closed {
		return FrameResult{Outcome: s.outcome, Quit: s.quit}
	}
	dt = core.ClampF(dt, 0, s.cfg.Display.MaxFrameDT)

	s.handle(events)
	if s.quit {
		return FrameResult{Image: s.frame, Outcome: s.outcome, Quit: true, Paused: s.paused}
	}

	if !s.paused && s.outcome == OutcomeNone {
		s.step(dt)
	}

	labels := s.compose()
	return FrameResult{
		Image:   s.frame,
		Labels:  labels,
		Outcome: s.outcome,
		Paused:  s.paused,
	}
}

func (s *Session) handle(events []core.Event) {
	for _, ev := range events {
		switch ev.Type {
		case core.EventQuit:
			s.quit = true
		case core.EventKeyDown:
			switch a := s.bindings.Lookup(ev.Key); a {
			case core.ActionQuit:
				s.quit = true
			case core.ActionToggleDebug:
				s.debug = !s.debug
			case core.ActionTogglePause:
				s.paused = !s.paused
			case core.ActionToggleNight:
				s.night = !s.night
			case core.ActionNone:
			default:
				s.input.Press(ev.Key, a)
			}
		case core.EventKeyUp:
			s.input.Release(ev.Key)
		}
	}
}

// step runs update, resolve and camera for one frame.
func (s *Session) step(dt float64) {
	s.clock += dt
	s.env.Now = s.clock
	s.stats.Elapsed = time.Duration(s.clock * float64(time.Second))

	s.world.Update(&s.env, dt)
	res := Resolve(s.world, &s.env)

	s.stats.Pickups += res.Pickups
	s.stats.Hits += res.Hits
	s.stats.Kills += len(res.Kills)
	s.stats.MobsLeft = s.world.MobCount()
	if p := s.world.Player(); p != nil {
		s.stats.Health = p.Health()
	}
	for _, pos := range res.Kills {
		s.splat(pos)
	}

	if p := s.world.Player(); p != nil {
		s.cam.Update(p.Position())
	}
	if res.Outcome != OutcomeNone {
		s.end(res.Outcome)
	}
}

// splat paints a blood decal onto the ground copy.
func (s *Session) splat(pos core.Vec2) {
	size := s.cfg.Mobs.SplatSize
	img, ok := s.sprites.Get(entity.SpriteSplat, size, size, s.rng.Float64()*2*math.Pi, false)
	if !ok {
		return
	}
	render.Blit(s.ground, img, image.Pt(int(pos.X), int(pos.Y)))
}

func (s *Session) end(o Outcome) {
	s.outcome = o
	s.input.Clear()
	if m, ok := s.cues.(musicPlayer); ok {
		m.StopMusic()
	}
	s.logger.Info("session ended",
		"map", s.tm.ID(),
		"outcome", o,
		"kills", s.stats.Kills,
		"duration", s.stats.Elapsed.Round(time.Millisecond),
	)
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if m, ok := s.cues.(musicPlayer); ok && s.outcome == OutcomeNone {
		m.StopMusic()
	}
}

// Outcome returns how the session ended, or OutcomeNone while it runs.
func (s *Session) Outcome() Outcome { return s.outcome }

// Stats returns the running totals.
func (s *Session) Stats() Stats { return s.stats }

// Map returns the map being played.
func (s *Session) Map() *tilemap.TileMap { return s.tm }

// World exposes the simulation for inspection.
func (s *Session) World() *entity.World { return s.world }

// Camera returns the session camera.
func (s *Session) Camera() *camera.Camera { return s.cam }

// Paused reports whether the simulation is frozen.
func (s *Session) Paused() bool { return s.paused }

// Night reports whether the fog overlay is on.
func (s *Session) Night() bool { return s.night }

// Debug reports whether hit boxes are drawn.
func (s *Session) Debug() bool { return s.debug }
