package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment selects ESC a justification
type Alignment byte

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Size selects GS ! character magnification
type Size byte

const (
	SizeNormal Size = 0x00
	SizeTall   Size = 0x01
	SizeWide   Size = 0x10
	SizeDouble Size = 0x11
)

// DefaultWidth fits 58mm paper. 80mm paper takes 48 columns.
const DefaultWidth = 32

// Thermal heads print a single-byte code page; common symbols that fall
// outside it are spelled out.
var transliterations = strings.NewReplacer(
	"₹", "Rs.",
	"€", "EUR",
	"£", "GBP",
	"–", "-",
	"—", "-",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

// Ticket accumulates an ESC/POS byte stream for a fixed column width
type Ticket struct {
	buf   bytes.Buffer
	width int
	wide  bool
}

// NewTicket starts a ticket with the printer reset
func NewTicket(width int) *Ticket {
	if width <= 0 {
		width = DefaultWidth
	}
	t := &Ticket{width: width}
	t.buf.Write([]byte{ESC, '@'})
	return t
}

// Width is the usable column count at the current character size
func (t *Ticket) Width() int {
	if t.wide {
		return t.width / 2
	}
	return t.width
}

func (t *Ticket) Align(a Alignment) *Ticket {
	t.buf.Write([]byte{ESC, 'a', byte(a)})
	return t
}

func (t *Ticket) Bold(on bool) *Ticket {
	var b byte
	if on {
		b = 1
	}
	t.buf.Write([]byte{ESC, 'E', b})
	return t
}

func (t *Ticket) Size(s Size) *Ticket {
	t.wide = s&SizeWide != 0
	t.buf.Write([]byte{GS, '!', byte(s)})
	return t
}

// Line writes s, cut to the current width, and a line feed
func (t *Ticket) Line(s string) *Ticket {
	t.buf.WriteString(truncate(clean(s), t.Width()))
	t.buf.WriteByte(LF)
	return t
}

func (t *Ticket) Linef(format string, args ...interface{}) *Ticket {
	return t.Line(fmt.Sprintf(format, args...))
}

// Wrap writes s word-wrapped to the current width; embedded newlines are kept
func (t *Ticket) Wrap(s string) *Ticket {
	for _, para := range strings.Split(clean(s), "\n") {
		for _, line := range wrap(para, t.Width()) {
			t.buf.WriteString(line)
			t.buf.WriteByte(LF)
		}
	}
	return t
}

// Rule prints a full-width line of ch
func (t *Ticket) Rule(ch rune) *Ticket {
	t.buf.WriteString(strings.Repeat(string(ch), t.Width()))
	t.buf.WriteByte(LF)
	return t
}

// Columns prints left flush-left and right flush-right on one line. left is
// shortened when both do not fit.
func (t *Ticket) Columns(left, right string) *Ticket {
	left, right = clean(left), clean(right)
	room := t.Width() - runeLen(right) - 1
	if room < 1 {
		return t.Line(right)
	}
	left = truncate(left, room)
	t.buf.WriteString(left)
	t.buf.WriteString(strings.Repeat(" ", t.Width()-runeLen(left)-runeLen(right)))
	t.buf.WriteString(right)
	t.buf.WriteByte(LF)
	return t
}

// Item prints the item name on its own line followed by "qty x price" and
// the line total
func (t *Ticket) Item(name string, qty int, price, total string) *Ticket {
	t.Wrap(name)
	return t.Columns(fmt.Sprintf("  %d x %s", qty, price), total)
}

func (t *Ticket) Feed(n int) *Ticket {
	for i := 0; i < n; i++ {
		t.buf.WriteByte(LF)
	}
	return t
}

// Cut feeds and cuts the paper, leaving a hinge when partial
func (t *Ticket) Cut(partial bool) *Ticket {
	mode := byte(0x00)
	if partial {
		mode = 0x01
	}
	t.buf.Write([]byte{GS, 'V', mode})
	return t
}

func (t *Ticket) Bytes() []byte {
	return t.buf.Bytes()
}

// clean transliterates known symbols and replaces other runes the printer
// code page cannot show
func clean(s string) string {
	s = transliterations.Replace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case r < 0x20:
			return -1
		case r > 0x7e:
			return '?'
		}
		return r
	}, s)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if runeLen(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	for _, w := range words {
		for runeLen(w) > width {
			if cur.Len() > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case cur.Len() == 0:
			cur.WriteString(w)
		case runeLen(cur.String())+1+runeLen(w) <= width:
			cur.WriteByte(' ')
			cur.WriteString(w)
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
