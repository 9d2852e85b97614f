package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
)

// Document builds an ESC/POS byte stream and, alongside it, a plain-text
// rendering of the same layout for on-screen previews.
type Document struct {
	buf   bytes.Buffer
	plain strings.Builder
	width int // print width in characters (32 for 58mm, 48 for 80mm)
	align int
}

// NewDocument creates a document for the given paper width in characters.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width returns the line width in characters.
func (d *Document) Width() int {
	return d.width
}

func (d *Document) line(s string) {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)

	pad := 0
	switch d.align {
	case AlignCenter:
		pad = (d.width - utf8.RuneCountInString(s)) / 2
	case AlignRight:
		pad = d.width - utf8.RuneCountInString(s)
	}
	if pad > 0 {
		d.plain.WriteString(strings.Repeat(" ", pad))
	}
	d.plain.WriteString(s)
	d.plain.WriteByte('\n')
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.line("")
	return d
}

// FeedLines advances the paper n lines. Not reflected in the preview.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.align = align
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.line(s)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	d.line(fmt.Sprintf(format, args...))
	return d
}

// Separator prints a full-width separator line.
func (d *Document) Separator(char byte) *Document {
	d.line(strings.Repeat(string(char), d.width))
	return d
}

// KeyValue prints key on the left and value flush right.
func (d *Document) KeyValue(key, value string) *Document {
	d.line(spread(key, value, d.width))
	return d
}

// ItemLine prints "qty x name" and a right-aligned total, truncating the name to fit.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	prefix := fmt.Sprintf("%dx ", qty)
	room := d.width - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(total) - 1
	d.line(spread(prefix+truncate(name, room), total, d.width))
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// PlainText returns the preview rendering without control codes.
func (d *Document) PlainText() string {
	return d.plain.String()
}

func spread(left, right string, width int) string {
	spaces := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "."
}
