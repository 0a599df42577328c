package nav

// Cursor is a wrap-around selection over a list of n items. The index is -1
// only while the list is empty.
type Cursor struct {
	index  int
	length int
}

// NewCursor returns a cursor on the first of n items.
func NewCursor(n int) Cursor {
	c := Cursor{index: -1}
	c.SetLength(n)
	return c
}

// Selected returns the current index and whether there is one.
func (c Cursor) Selected() (int, bool) {
	if c.length == 0 || c.index < 0 {
		return 0, false
	}
	return c.index, true
}

// Len returns the length the cursor is bounded by.
func (c Cursor) Len() int { return c.length }

// Next moves forward, wrapping from the last item to the first.
func (c *Cursor) Next() {
	if c.length == 0 {
		return
	}
	c.index = (c.index + 1) % c.length
}

// Prev moves backward, wrapping from the first item to the last.
func (c *Cursor) Prev() {
	if c.length == 0 {
		return
	}
	c.index = (c.index - 1 + c.length) % c.length
}

// Select jumps to i, clamped into range.
func (c *Cursor) Select(i int) {
	if c.length == 0 {
		c.index = -1
		return
	}
	c.index = clamp(i, 0, c.length-1)
}

// SetLength rebounds the cursor after the underlying list changed. The index
// is kept when still valid and clamped to the last item otherwise.
func (c *Cursor) SetLength(n int) {
	if n < 0 {
		n = 0
	}
	c.length = n
	switch {
	case n == 0:
		c.index = -1
	case c.index < 0:
		c.index = 0
	case c.index >= n:
		c.index = n - 1
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
