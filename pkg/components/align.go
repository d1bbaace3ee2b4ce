package components

// Align controls horizontal placement of text in a cell.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)
