package pix

import (
	"errors"
	"fmt"
)

// ErrColormapFull is returned by AddColor when every slot is taken.
var ErrColormapFull = errors.New("colormap is full")

// Color is a colormap entry.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Colormap is an ordered color table for images of depth 1, 2, 4 or 8.
type Colormap struct {
	depth  int
	colors []Color
}

// NewColormap creates an empty colormap with room for 2^depth entries.
func NewColormap(depth int) (*Colormap, error) {
	switch depth {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("%w: colormap depth %d", ErrInvalidDepth, depth)
	}
	return &Colormap{
		depth:  depth,
		colors: make([]Color, 0, 1<<depth),
	}, nil
}

// Depth returns the depth the colormap was created for.
func (c *Colormap) Depth() int { return c.depth }

// Capacity returns the maximum number of entries.
func (c *Colormap) Capacity() int { return 1 << c.depth }

// Len returns the number of entries.
func (c *Colormap) Len() int { return len(c.colors) }

// At returns entry i.
func (c *Colormap) At(i int) Color { return c.colors[i] }

// AddColor appends an entry, failing with ErrColormapFull at capacity.
func (c *Colormap) AddColor(col Color) error {
	if len(c.colors) >= c.Capacity() {
		return fmt.Errorf("%w: %d entries", ErrColormapFull, len(c.colors))
	}
	c.colors = append(c.colors, col)
	return nil
}

// Close drops every entry.
func (c *Colormap) Close() {
	if c == nil {
		return
	}
	c.colors = nil
}
