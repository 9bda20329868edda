package grid

// Buffer is a single line text buffer with a cursor, used while a cell is
// open for editing.
type Buffer struct {
	text   []rune
	cursor int
}

// NewBuffer returns a buffer holding text with the cursor at the end.
func NewBuffer(text string) Buffer {
	r := []rune(text)
	return Buffer{text: r, cursor: len(r)}
}

// String returns the buffer content.
func (b *Buffer) String() string { return string(b.text) }

// Cursor returns the cursor position in runes.
func (b *Buffer) Cursor() int { return b.cursor }

// Len returns the content length in runes.
func (b *Buffer) Len() int { return len(b.text) }

// AtStart reports whether the cursor is before the first rune.
func (b *Buffer) AtStart() bool { return b.cursor == 0 }

// AtEnd reports whether the cursor is after the last rune.
func (b *Buffer) AtEnd() bool { return b.cursor == len(b.text) }

// Insert adds r at the cursor.
func (b *Buffer) Insert(r rune) {
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
}

// Backspace removes the rune before the cursor.
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// Delete removes the rune under the cursor.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

// Left moves the cursor one rune left.
func (b *Buffer) Left() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// Right moves the cursor one rune right.
func (b *Buffer) Right() {
	if b.cursor < len(b.text) {
		b.cursor++
	}
}

// Home moves the cursor to the start.
func (b *Buffer) Home() { b.cursor = 0 }

// End moves the cursor to the end.
func (b *Buffer) End() { b.cursor = len(b.text) }

// SetCursor places the cursor at pos, clamped to the content.
func (b *Buffer) SetCursor(pos int) {
	b.cursor = max(0, min(pos, len(b.text)))
}
