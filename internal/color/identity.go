// Package color assigns stable visual identities to categories and focuses.
//
// Only the integer ID is persisted. The hue shown on screen is a pure
// function of the ID, so a restart reproduces the same colours without
// storing them.
package color

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ID identifies the visual tag of a category or focus.
type ID int

// Reserved system tags. Custom identities start above them.
const (
	None      ID = 0
	Default   ID = 1
	Highlight ID = 2
	Title     ID = 3
	Warning   ID = 4

	firstCustom ID = 5
	lastCustom  ID = 255
)

// Hue is one of the six distinguishable foreground colours. Black and white
// are left out so user items never look like chrome.
type Hue int

const (
	HueNone Hue = iota
	HueRed
	HueGreen
	HueYellow
	HueBlue
	HueMagenta
	HueCyan
)

var palette = []Hue{HueRed, HueGreen, HueYellow, HueBlue, HueMagenta, HueCyan}

var hueNames = map[Hue]string{
	HueNone:    "none",
	HueRed:     "red",
	HueGreen:   "green",
	HueYellow:  "yellow",
	HueBlue:    "blue",
	HueMagenta: "magenta",
	HueCyan:    "cyan",
}

// hue angles in degrees, tuned for dark terminals
var hueAngles = map[Hue]float64{
	HueRed:     2,
	HueGreen:   130,
	HueYellow:  50,
	HueBlue:    215,
	HueMagenta: 300,
	HueCyan:    180,
}

func (h Hue) String() string {
	if n, ok := hueNames[h]; ok {
		return n
	}
	return "unknown"
}

// Hex returns the display colour for h, or "" for HueNone.
func (h Hue) Hex() string {
	angle, ok := hueAngles[h]
	if !ok {
		return ""
	}
	return colorful.Hsv(angle, 0.62, 0.95).Hex()
}

// Tag is the reconstructed visual identity for an ID.
type Tag struct {
	ID  ID
	Hue Hue
}

// Custom reports whether the tag carries a user colour.
func (t Tag) Custom() bool { return t.Hue != HueNone }

// Reconstruct derives the tag for id. It depends on nothing but id.
func Reconstruct(id ID) Tag {
	if id < firstCustom {
		return Tag{ID: id, Hue: HueNone}
	}
	return Tag{ID: id, Hue: palette[int(id-firstCustom)%len(palette)]}
}

// Allocator hands out identities from a monotonically increasing counter.
// The zero value is not ready for use; call NewAllocator.
type Allocator struct {
	next ID
}

func NewAllocator() *Allocator {
	return &Allocator{next: firstCustom}
}

// Allocate returns the next unused ID, or None once the space is exhausted.
func (a *Allocator) Allocate() ID {
	if a.next > lastCustom {
		return None
	}
	id := a.next
	a.next++
	return id
}

// MarkReserved advances the counter past id so it is never handed out.
func (a *Allocator) MarkReserved(id ID) {
	if id >= a.next {
		a.next = id + 1
	}
}

// Reset rewinds the counter. Only safe once no item holds a custom ID.
func (a *Allocator) Reset() {
	a.next = firstCustom
}

// Next reports the ID the next Allocate call would return.
func (a *Allocator) Next() ID {
	return a.next
}
