package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment
const (
	AlignLeft   byte = 0
	AlignCenter byte = 1
	AlignRight  byte = 2
)

// Character size for GS !
const (
	SizeNormal byte = 0x00
	SizeDouble byte = 0x11
	SizeWide   byte = 0x10
	SizeTall   byte = 0x01
)

// Common paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS job. Text is laid out on a fixed character grid
// of Width columns.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a job for paper that fits width characters per line.
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width is the number of characters per line.
func (d *Document) Width() int { return d.width }

func (d *Document) Align(a byte) *Document {
	d.buf.Write([]byte{ESC, 'a', a})
	return d
}

func (d *Document) Bold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) Size(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Line writes s, cut to the paper width, and a line feed.
func (d *Document) Line(s string) *Document {
	d.buf.WriteString(clip(s, d.width))
	d.buf.WriteByte(LF)
	return d
}

// Rule fills one line with c.
func (d *Document) Rule(c byte) *Document {
	d.buf.Write(bytes.Repeat([]byte{c}, d.width))
	d.buf.WriteByte(LF)
	return d
}

// Columns writes left and right on one line with right flush to the margin.
// The left text is shortened when both do not fit.
func (d *Document) Columns(left, right string) *Document {
	right = clip(right, d.width)
	room := d.width - utf8.RuneCountInString(right) - 1
	if room < 0 {
		room = 0
	}
	left = clip(left, room)
	gap := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", gap))
	d.buf.WriteString(right)
	d.buf.WriteByte(LF)
	return d
}

// Feed advances the paper n lines.
func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// Cut cuts the paper. A partial cut leaves a tab holding the receipt.
func (d *Document) Cut(partial bool) *Document {
	mode := byte(0x00)
	if partial {
		mode = 0x01
	}
	d.buf.Write([]byte{GS, 'V', mode})
	return d
}

// Bytes returns the job built so far.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
