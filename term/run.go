package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/glimmer"
)

// DefaultFPS is the frame rate Run uses when none is given.
const DefaultFPS = 30

// Run animates r on screen until ctx is done or the user quits with q, Esc
// or Ctrl-C. n or space skips to the next state and p pauses. The caller
// owns the screen: it must be initialized, and is not finalized here.
func Run(ctx context.Context, r *glimmer.Renderer, screen tcell.Screen, fps int) error {
	if fps <= 0 {
		fps = DefaultFPS
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := NewSurface(screen)
	r.Resize(s.Size())

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !handleEvent(ev, r, s) {
				return nil
			}
		case <-ticker.C:
			r.Frame(time.Since(start), s)
		}
	}
}

// handleEvent applies one input event and reports whether to keep running.
func handleEvent(ev tcell.Event, r *glimmer.Renderer, s *Surface) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'n', ' ':
				r.Skip()
			case 'p':
				r.TogglePause()
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
		s.Resize()
		r.Resize(s.Size())
		glimmer.Logger().Debug("glimmer/term: resized", "width", s.w, "height", s.h)
	}
	return true
}
