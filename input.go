package starbloom

// InputKind identifies the source of an InputEvent.
type InputKind uint8

const (
	InputWheel InputKind = iota
	InputKey
	InputTouchStart
	InputTouchMove
)

// Key is a scroll-relevant key identity. Other keys map to KeyOther.
type Key uint8

const (
	KeyOther Key = iota
	KeyArrowDown
	KeyArrowUp
	KeyPageDown
	KeyPageUp
	KeyEnd
	KeyHome
	KeySpace
)

// scrollsDown reports whether k's default action moves the story forward.
func (k Key) scrollsDown() bool {
	switch k {
	case KeyArrowDown, KeyPageDown, KeyEnd, KeySpace:
		return true
	}
	return false
}

// InputEvent is one scroll-affecting input. Handlers may suppress its
// default scroll action with PreventDefault.
type InputEvent struct {
	Kind InputKind
	// DeltaY is the wheel delta in pixels; positive scrolls down.
	DeltaY float64
	Key    Key
	// TouchY is the single-touch position in pixels.
	TouchY float64

	prevented bool
}

// PreventDefault suppresses the event's default scroll action.
func (e *InputEvent) PreventDefault() { e.prevented = true }

// Prevented reports whether PreventDefault was called.
func (e *InputEvent) Prevented() bool { return e.prevented }

// WheelEvent returns a wheel event.
func WheelEvent(deltaY float64) *InputEvent {
	return &InputEvent{Kind: InputWheel, DeltaY: deltaY}
}

// KeyEvent returns a key-down event.
func KeyEvent(k Key) *InputEvent {
	return &InputEvent{Kind: InputKey, Key: k}
}

// TouchStartEvent returns a single-touch start at y.
func TouchStartEvent(y float64) *InputEvent {
	return &InputEvent{Kind: InputTouchStart, TouchY: y}
}

// TouchMoveEvent returns a single-touch move to y.
func TouchMoveEvent(y float64) *InputEvent {
	return &InputEvent{Kind: InputTouchMove, TouchY: y}
}

var keyNames = map[string]Key{
	"ArrowDown": KeyArrowDown,
	"ArrowUp":   KeyArrowUp,
	"PageDown":  KeyPageDown,
	"PageUp":    KeyPageUp,
	"End":       KeyEnd,
	"Home":      KeyHome,
	" ":         KeySpace,
	"Space":     KeySpace,
	"Spacebar":  KeySpace,
}

// ParseKey maps a DOM-style key name to a Key.
func ParseKey(name string) Key {
	if k, ok := keyNames[name]; ok {
		return k
	}
	return KeyOther
}
