package app

// Cursor tracks the selected row of a scrolling list and the first row on
// screen.
type Cursor struct {
	Index  int
	Offset int
}

// Move shifts the selection by delta and clamps it to [0, n). It does not
// wrap.
func (c *Cursor) Move(delta, n int) {
	c.Index += delta
	c.Clamp(n)
}

// Top selects the first row.
func (c *Cursor) Top() {
	c.Index = 0
	c.Offset = 0
}

// Bottom selects the last of n rows.
func (c *Cursor) Bottom(n int) {
	c.Index = n - 1
	c.Clamp(n)
}

// Set selects row i if it exists.
func (c *Cursor) Set(i, n int) {
	if i >= 0 && i < n {
		c.Index = i
	}
}

// Clamp keeps the cursor inside a list of n rows.
func (c *Cursor) Clamp(n int) {
	if n <= 0 {
		c.Index, c.Offset = 0, 0
		return
	}
	c.Index = max(0, min(c.Index, n-1))
	c.Offset = max(0, min(c.Offset, n-1))
}

// Scroll moves Offset so Index is within a window of height rows.
func (c *Cursor) Scroll(height int) {
	if height <= 0 {
		return
	}
	if c.Index < c.Offset {
		c.Offset = c.Index
	}
	if c.Index >= c.Offset+height {
		c.Offset = c.Index - height + 1
	}
}
