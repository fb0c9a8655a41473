package starbloom

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelStep converts one ebiten wheel notch to pixels.
const wheelStep = 100

// StoryOptions supplies the optional parts of a Story.
type StoryOptions struct {
	Music *PlayerChannel
	Voice *PlayerChannel
	Sink  EventSink
}

// Story hosts an Engine inside an ebiten game: it owns the scrollable
// Document, translates ebiten input into InputEvents, feeds section
// visibility to the engine, and paints the backdrop each frame.
type Story struct {
	engine  *Engine
	doc     *Document
	music   *PlayerChannel
	voice   *PlayerChannel
	surface *ImageSurface
	cfg     Config
	log     logger

	size    Size
	scale   float64
	pointer Vec2
	clock   time.Duration

	touchID  ebiten.TouchID
	touching bool
	keys     []ebiten.Key
	touches  []ebiten.TouchID

	injectQueue     []injected
	runner          *TestRunner
	screenshotQueue []string
	fps             *fpsWidget

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
}

// NewStory creates a story over doc. The scene of the section under the
// viewport centre drives the backdrop; the first section marked Narration
// offers the voice track and the first marked End holds the end lock.
func NewStory(cfg Config, doc *Document, opts StoryOptions) *Story {
	s := &Story{
		doc:           doc,
		music:         opts.Music,
		voice:         opts.Voice,
		surface:       NewImageSurface(),
		cfg:           cfg,
		log:           newLogger(&cfg),
		scale:         1,
		pointer:       Vec2{0.5, 0.5},
		ScreenshotDir: "screenshots",
	}

	narration, end := -1, -1
	for i, sec := range doc.Sections() {
		if sec.Narration && narration < 0 {
			narration = i
		}
		if sec.End && end < 0 {
			end = i
		}
	}

	caps := DetectCapabilities()
	caps.Scroll = doc
	caps.Sink = opts.Sink
	if opts.Music != nil {
		caps.Music = opts.Music
	}
	if opts.Voice != nil {
		caps.Voice = opts.Voice
	}
	if end >= 0 {
		caps.EndAnchor = func() float64 { return doc.CenterOffset(end) }
	}
	s.engine = New(cfg, caps)
	s.size = Size{Width: doc.ViewportHeight() * 1.6, Height: doc.ViewportHeight()}
	s.engine.Initialize(cfg.Seed, s.size)

	doc.OnScroll(s.onScroll)
	if narration >= 0 {
		doc.Observe(narration, []float64{0, cfg.VisibilityThreshold}, func(ratio float64) {
			s.engine.OnNarrationSectionVisibilityChange(ratio >= cfg.VisibilityThreshold)
		})
	}
	if end >= 0 {
		doc.Observe(end, []float64{0, cfg.VisibilityThreshold}, s.engine.OnEndSectionVisibility)
	}
	s.syncScene()
	return s
}

// Engine returns the story's engine.
func (s *Story) Engine() *Engine { return s.engine }

// Document returns the story's document.
func (s *Story) Document() *Document { return s.doc }

func (s *Story) onScroll() {
	s.engine.HandleScroll()
	s.syncScene()
}

func (s *Story) syncScene() {
	i := s.doc.DominantSection()
	if i < 0 {
		return
	}
	s.engine.SetActiveScene(s.doc.Sections()[i].Scene)
}

// dispatch offers ev to the gates, then applies its default scroll action
// unless a gate prevented it.
func (s *Story) dispatch(ev *InputEvent) {
	s.engine.HandleInput(ev)
	s.doc.ApplyDefault(ev)
}

// Update advances the story by one tick.
func (s *Story) Update() error {
	if !s.processInjectedInput() {
		s.pollInput()
	}
	s.step(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// step runs one frame of simulation without reading ebiten input.
func (s *Story) step(dt time.Duration) {
	if s.runner != nil {
		s.runner.step(s)
	}
	s.clock += dt
	s.doc.Update(dt)
	if s.music != nil {
		s.music.Poll()
	}
	if s.voice != nil {
		s.voice.Poll()
	}
	s.engine.OnFrameTick(s.doc.Progress(), s.pointer, s.clock)
	if s.fps != nil {
		s.fps.update(dt)
	}
}

func (s *Story) pollInput() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		s.dispatch(WheelEvent(-dy * wheelStep))
	}

	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		switch k {
		case ebiten.KeyEnter:
			s.engine.StartJourney()
		case ebiten.KeyN:
			if err := s.engine.TriggerNarration(); err != nil {
				s.log.debugf("narration: %v", err)
			}
		case ebiten.KeyM:
			s.engine.ToggleMute()
		default:
			if key := ebitenKey(k); key != KeyOther {
				s.dispatch(KeyEvent(key))
			}
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.engine.StartJourney()
	}
	if x, y := ebiten.CursorPosition(); s.size.Width > 0 && s.size.Height > 0 {
		s.pointer = s.pointerAt(x, y)
	}

	s.touches = inpututil.AppendJustPressedTouchIDs(s.touches[:0])
	if !s.touching && len(s.touches) > 0 {
		s.touchID = s.touches[0]
		s.touching = true
		_, y := ebiten.TouchPosition(s.touchID)
		s.dispatch(TouchStartEvent(s.logical(y)))
		return
	}
	if s.touching {
		if inpututil.IsTouchJustReleased(s.touchID) {
			s.touching = false
			return
		}
		_, y := ebiten.TouchPosition(s.touchID)
		s.dispatch(TouchMoveEvent(s.logical(y)))
	}
}

// logical converts a screen coordinate, reported in device pixels by the
// Layout size, to layout pixels.
func (s *Story) logical(v int) float64 {
	return float64(v) / s.scale
}

// pointerAt normalises a device-pixel cursor position to the viewport.
func (s *Story) pointerAt(x, y int) Vec2 {
	return Vec2{s.logical(x) / s.size.Width, s.logical(y) / s.size.Height}
}

func ebitenKey(k ebiten.Key) Key {
	switch k {
	case ebiten.KeyArrowDown:
		return KeyArrowDown
	case ebiten.KeyArrowUp:
		return KeyArrowUp
	case ebiten.KeyPageDown:
		return KeyPageDown
	case ebiten.KeyPageUp:
		return KeyPageUp
	case ebiten.KeyEnd:
		return KeyEnd
	case ebiten.KeyHome:
		return KeyHome
	case ebiten.KeySpace:
		return KeySpace
	}
	return KeyOther
}

// Draw paints the backdrop onto screen.
func (s *Story) Draw(screen *ebiten.Image) {
	s.surface.Begin(screen, s.size, s.scale)
	s.engine.Draw(s.surface)
	s.surface.End()

	if s.cfg.Debug {
		stats := s.engine.Stats()
		stats.Vertices = s.surface.Vertices()
		stats.DrawCalls = s.surface.DrawCalls()
		s.log.debugLog(stats)
	}
	if s.fps != nil {
		s.fps.draw(screen)
	}
	s.flushScreenshots(screen)
}

// Layout sizes the backing buffer in device pixels, capped by
// MaxDeviceScale, and resizes the story when the window changes.
func (s *Story) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.scale = s.engine.DeviceScale(ebiten.Monitor().DeviceScaleFactor())
	s.resize(Size{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	return int(s.size.Width * s.scale), int(s.size.Height * s.scale)
}

func (s *Story) resize(size Size) {
	size = size.clamped()
	if size == s.size {
		return
	}
	s.size = size
	s.engine.OnResize(size)
	s.doc.SetViewportHeight(size.Height)
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Run opens a window and runs the story until it is closed.
func Run(s *Story, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 960, 600
	}
	if cfg.ShowFPS {
		s.fps = newFPSWidget()
	}
	if s.cfg.TPS > 0 {
		ebiten.SetTPS(s.cfg.TPS)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	s.resize(Size{Width: float64(cfg.Width), Height: float64(cfg.Height)})
	return ebiten.RunGame(s)
}
