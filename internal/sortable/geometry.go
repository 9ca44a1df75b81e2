package sortable

// Point is a position in the host's coordinate space (pixels, terminal cells, ...).
type Point struct {
	X float64
	Y float64
}

// Rect is an on-screen bounding box as reported by a Host or Proxy.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Box is the dragged proxy's current extent, derived from the pointer and the
// proxy size cached at drag start.
type Box struct {
	Top    float64
	Left   float64
	Right  float64
	Bottom float64
}

// Candidate is a drop target with its geometry cached at drag start.
type Candidate struct {
	Item   *Item
	Top    float64
	Left   float64
	Right  float64
	Bottom float64
	// MidY and MidX are the vertical and horizontal half-points.
	MidY float64
	MidX float64
}

func newCandidate(it *Item, r Rect) Candidate {
	return Candidate{
		Item:   it,
		Top:    r.Top,
		Left:   r.Left,
		Right:  r.Left + r.Width,
		Bottom: r.Top + r.Height,
		MidY:   r.Top + r.Height/2,
		MidX:   r.Left + r.Width/2,
	}
}

// Overlaps reports whether the dragged box has crossed into the near half of c
// on both axes. All comparisons are strict.
func Overlaps(b Box, c Candidate) bool {
	vertical := (b.Top > c.Top && b.Top < c.MidY) ||
		(b.Bottom < c.Bottom && b.Bottom > c.MidY)
	if !vertical {
		return false
	}
	return (b.Left > c.Left && b.Left < c.MidX) ||
		(b.Right < c.Right && b.Right > c.MidX)
}

// FirstOverlap returns the first candidate, in slice order, that b overlaps.
func FirstOverlap(b Box, cands []Candidate) (Candidate, bool) {
	for _, c := range cands {
		if Overlaps(b, c) {
			return c, true
		}
	}
	return Candidate{}, false
}
