package twitter

// Cursor is the opaque pagination token the Twitter API hands back for
// cursored collections.
type Cursor int64

const (
	// CursorStart begins a walk at the first page.
	CursorStart Cursor = -1
	// CursorEnd is the terminal sentinel returned alongside the last page.
	CursorEnd Cursor = 0
)

// Done reports whether the walk has reached the last page.
func (c Cursor) Done() bool {
	return c == CursorEnd
}
