package store

import "github.com/sadopc/focuslog/internal/color"

// Capacity limits.
const (
	MaxCategories = 50
	MaxFocuses    = 50
	MaxNameLen    = 100
)

type Focus struct {
	Name    string
	ColorID color.ID
}

func (f Focus) Tag() color.Tag { return color.Reconstruct(f.ColorID) }

type Category struct {
	Name    string
	ColorID color.ID
	Focuses []Focus
}

func (c Category) Tag() color.Tag { return color.Reconstruct(c.ColorID) }

// FocusIndex returns the position of the focus called name, or -1.
func (c Category) FocusIndex(name string) int {
	for i, f := range c.Focuses {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (c Category) clone() Category {
	out := c
	out.Focuses = append([]Focus(nil), c.Focuses...)
	return out
}
