package glimmer

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// maxFrameDelta caps the time step of a single frame so a stalled host
// (dragged window, suspended terminal) does not make particles jump.
const maxFrameDelta = 100 * time.Millisecond

// world is everything a frame reads that a rebuild replaces. It is
// published whole through Renderer.world.
type world struct {
	cfg    Config
	states []State
	field  *Field
	frame  *rand.Rand
}

// Renderer drives the animation: it owns the current Field, the state
// scheduler and the rotation angle, and paints one frame per Frame call.
//
// Frame, Skip and TogglePause are meant for the host's frame goroutine.
// Resize and Reload may be called from any goroutine; they build a new
// Field off to the side and publish it with a single atomic swap.
type Renderer struct {
	world atomic.Pointer[world]

	// mu serializes rebuilds. Frames never take it.
	mu       sync.Mutex
	cfg      Config
	states   []State
	viewport Size
	rng      *rand.Rand

	// Frame goroutine only.
	current   *world
	scheduler *Scheduler
	clock     time.Duration
	lastNow   time.Duration
	started   bool
	angle     float64
	ctx       AnimationContext
	debug     bool
	stats     frameStats

	skip   atomic.Bool
	paused atomic.Bool
}

// NewRenderer validates cfg and builds its states. No field exists until the
// first Resize.
func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	states, err := cfg.States()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:    cfg,
		states: states,
		rng:    NewRand(cfg.Seed),
	}, nil
}

// Resize rebuilds the field for viewport. Calls with the current size are
// no-ops, so hosts may call it every frame.
func (r *Renderer) Resize(viewport Size) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if viewport == r.viewport && r.world.Load() != nil {
		return
	}
	r.viewport = viewport
	r.rebuildLocked()
}

// Reload validates cfg and, if it is usable, rebuilds the field with it. On
// error the running animation is left untouched.
func (r *Renderer) Reload(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	states, err := cfg.States()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.states = states
	r.rng = NewRand(cfg.Seed)
	if !r.viewport.Empty() {
		r.rebuildLocked()
	}
	Logger().Info("glimmer: config reloaded", "states", len(states), "particles", cfg.ParticleCount)
	return nil
}

func (r *Renderer) rebuildLocked() {
	if r.viewport.Empty() {
		return
	}
	start := time.Now()
	f := Rebuild(r.cfg, r.states, r.viewport, r.rng)
	r.world.Store(&world{
		cfg:    f.Config,
		states: r.states,
		field:  f,
		frame:  NewRand(r.rng.Uint64()),
	})
	Logger().Debug("glimmer: rebuilt field",
		"width", r.viewport.W, "height", r.viewport.H,
		"particles", len(f.Particles), "elapsed", time.Since(start))
}

// Skip requests a transition to the next state on the next frame.
func (r *Renderer) Skip() {
	r.skip.Store(true)
}

// TogglePause freezes or resumes the animation. Paused frames still paint
// so the host keeps presenting the last image.
func (r *Renderer) TogglePause() bool {
	for {
		p := r.paused.Load()
		if r.paused.CompareAndSwap(p, !p) {
			return !p
		}
	}
}

// Paused reports whether the animation is frozen.
func (r *Renderer) Paused() bool {
	return r.paused.Load()
}

// SetDebugMode enables per-frame timing logs at debug level.
func (r *Renderer) SetDebugMode(on bool) {
	r.debug = on
}

// Field returns the field the last frame drew, or nil before the first
// frame.
func (r *Renderer) Field() *Field {
	if r.current == nil {
		return nil
	}
	return r.current.field
}

// State returns the active state.
func (r *Renderer) State() State {
	if r.scheduler == nil {
		return State{}
	}
	return r.scheduler.Current()
}

// Angle returns the rotation of the volumetric state in radians.
func (r *Renderer) Angle() float64 {
	return r.angle
}

// Clock returns the animation time, which stops while paused.
func (r *Renderer) Clock() time.Duration {
	return r.clock
}

// Frame paints one frame onto s. now is the host's monotonic time; only
// differences between calls matter. Frame does nothing until a field has
// been built by Resize.
func (r *Renderer) Frame(now time.Duration, s Surface) {
	w := r.world.Load()
	if w == nil {
		return
	}
	if w != r.current {
		r.adopt(w)
	}

	var dt time.Duration
	if r.started {
		dt = min(max(now-r.lastNow, 0), maxFrameDelta)
	}
	r.lastNow, r.started = now, true
	paused := r.paused.Load()
	if paused {
		dt = 0
	}
	r.clock += dt

	cfg, f := w.cfg, w.field
	size := s.Size()
	r.stats.begin(r.debug)
	s.FillRect(Rect{Width: float64(size.W), Height: float64(size.H)}, f.background.WithAlpha(cfg.Trail))

	state, transitioned := r.scheduler.Advance(r.clock)
	if r.skip.Swap(false) {
		state, transitioned = r.scheduler.Skip(r.clock), true
	}
	if transitioned {
		f.Recolor(state, w.frame, cfg.Fade())
		if cfg.ResetRotation && state.Volumetric() {
			r.angle = 0
		}
		Logger().Info("glimmer: state transition", "state", state.Name, "index", r.scheduler.Index())
	}

	secs := dt.Seconds()
	if state.Volumetric() && !paused {
		step := cfg.RotationRate
		if cfg.FrameIndependent {
			step *= secs * 60
		}
		r.angle += step
	}

	cx, cy := f.Center()
	r.ctx = AnimationContext{
		Targets:          f.Targets.Points(state.Name),
		Rotating:         state.Volumetric(),
		Angle:            r.angle,
		Time:             r.clock.Seconds(),
		DT:               secs,
		Rate:             cfg.TransitionRate,
		FrameIndependent: cfg.FrameIndependent,
		Wave:             Wave{Amplitude: cfg.Wave.Amplitude, Frequency: cfg.Wave.Frequency},
		Noise:            f.noise,
		Depth:            cfg.Depth,
		CenterX:          cx,
		CenterY:          cy,
	}

	if !paused {
		for i := range f.Particles {
			f.Particles[i].Update(&r.ctx)
		}
	}
	r.stats.mark()
	for i := range f.Particles {
		p := &f.Particles[i]
		if p.visible {
			r.stats.drawn++
		} else {
			r.stats.culled++
		}
		p.Draw(s, cfg.Glow)
	}
	if fl, ok := s.(Flusher); ok {
		fl.Flush()
	}
	r.stats.end(state.Name)
}

// adopt switches the frame loop to a freshly published world. Scheduler,
// angle and clock restart so the new field assembles from its first state.
func (r *Renderer) adopt(w *world) {
	r.current = w
	r.scheduler = NewScheduler(w.states, w.cfg.Dwell())
	r.clock = 0
	r.angle = 0
}
