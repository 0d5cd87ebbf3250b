package glyph

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrBrokenChain is returned by Validate when the prev/next links disagree.
var ErrBrokenChain = errors.New("glyph chain is inconsistent")

// Measurer 返回字符串在当前字体下的水平宽度。
type Measurer interface {
	MeasureText(s string) float64
}

// Document 以双向链表保存全部字符，是链结构的唯一维护者。
// 零值即空文档，但插入字符需要 Measurer，请使用 NewDocument。
type Document struct {
	measurer Measurer
	head     *Glyph
	tail     *Glyph
	n        int
}

// NewDocument creates an empty document whose glyph widths come from m.
func NewDocument(m Measurer) *Document {
	return &Document{measurer: m}
}

// Load 追加 text 中的每个字符；place 决定新字符的初始位置（用于入场动画），可为空。
func (d *Document) Load(text string, place func() Vec) {
	for _, r := range text {
		var pos Vec
		if place != nil {
			pos = place()
		}
		d.link(newGlyph(r, d.measure(r), pos), nil)
	}
}

func (d *Document) Head() *Glyph { return d.head }
func (d *Document) Tail() *Glyph { return d.tail }
func (d *Document) Len() int     { return d.n }

// Empty reports whether the document has no glyphs.
func (d *Document) Empty() bool { return d.head == nil }

// InsertBefore 在 target 之前插入字符 value 并返回新节点；target 为 nil 时追加到末尾。
// 新节点从 target 当前位置出发（追加时从末尾字符右侧出发），避免编辑时从随机位置飞入。
func (d *Document) InsertBefore(target *Glyph, value rune) *Glyph {
	var pos Vec
	switch {
	case target != nil:
		pos = target.Pos
	case d.tail != nil:
		pos = d.tail.rightEdge()
	}
	g := newGlyph(value, d.measure(value), pos)
	d.link(g, target)
	return g
}

// RemoveBefore 删除 target 的前驱并返回被删除的节点。
// target 为 nil 或没有前驱时不做任何事并返回 nil（相当于在文首退格）。
func (d *Document) RemoveBefore(target *Glyph) *Glyph {
	if target == nil || target.prev == nil {
		return nil
	}
	victim := target.prev
	target.prev = victim.prev
	if victim.prev == nil {
		d.head = target
	} else {
		victim.prev.next = target
	}
	victim.prev = nil
	victim.next = nil
	d.n--
	return victim
}

// RemoveTail 删除最后一个字符并返回它；空文档返回 nil。
func (d *Document) RemoveTail() *Glyph {
	last := d.tail
	if last == nil {
		return nil
	}
	d.tail = last.prev
	if d.tail == nil {
		d.head = nil
	} else {
		d.tail.next = nil
	}
	last.prev = nil
	d.n--
	return last
}

// link 把 g 接到 before 之前；before 为 nil 时接到链尾。
func (d *Document) link(g, before *Glyph) {
	if before == nil {
		g.prev = d.tail
		if d.tail == nil {
			d.head = g
		} else {
			d.tail.next = g
		}
		d.tail = g
	} else {
		g.prev = before.prev
		g.next = before
		if before.prev == nil {
			d.head = g
		} else {
			before.prev.next = g
		}
		before.prev = g
	}
	d.n++
}

func (d *Document) measure(r rune) float64 {
	if d.measurer == nil {
		return 0
	}
	return d.measurer.MeasureText(string(r))
}

// All returns a head-to-tail iterator over the glyphs.
func (d *Document) All() iter.Seq[*Glyph] {
	return func(yield func(*Glyph) bool) {
		for g := d.head; g != nil; g = g.next {
			if !yield(g) {
				return
			}
		}
	}
}

// Backward returns a tail-to-head iterator following prev links.
func (d *Document) Backward() iter.Seq[*Glyph] {
	return func(yield func(*Glyph) bool) {
		for g := d.tail; g != nil; g = g.prev {
			if !yield(g) {
				return
			}
		}
	}
}

// Index 返回 g 在文档中的下标，不在文档中时返回 -1。
func (d *Document) Index(g *Glyph) int {
	if g == nil {
		return -1
	}
	i := 0
	for cur := d.head; cur != nil; cur = cur.next {
		if cur == g {
			return i
		}
		i++
	}
	return -1
}

// At returns the i-th glyph or nil when i is out of range.
func (d *Document) At(i int) *Glyph {
	if i < 0 {
		return nil
	}
	for g := d.head; g != nil; g = g.next {
		if i == 0 {
			return g
		}
		i--
	}
	return nil
}

// Text 按链表顺序拼出当前文本。
func (d *Document) Text() string {
	var b strings.Builder
	for g := d.head; g != nil; g = g.next {
		b.WriteRune(g.Value)
	}
	return b.String()
}

// Validate 检查链表不变式：首尾端点、双向链接一致、无环且长度与计数一致。
func (d *Document) Validate() error {
	if d.head == nil || d.tail == nil {
		if d.head != d.tail || d.n != 0 {
			return fmt.Errorf("%w: empty document with head=%v tail=%v len=%d", ErrBrokenChain, d.head, d.tail, d.n)
		}
		return nil
	}
	if d.head.prev != nil {
		return fmt.Errorf("%w: head has a predecessor", ErrBrokenChain)
	}
	if d.tail.next != nil {
		return fmt.Errorf("%w: tail has a successor", ErrBrokenChain)
	}
	count := 0
	var last *Glyph
	for g := d.head; g != nil; g = g.next {
		if count > d.n {
			return fmt.Errorf("%w: cycle or length mismatch after %d glyphs", ErrBrokenChain, count)
		}
		if g.prev != last {
			return fmt.Errorf("%w: glyph %d (%q) prev link mismatch", ErrBrokenChain, count, g.Value)
		}
		last = g
		count++
	}
	if last != d.tail {
		return fmt.Errorf("%w: forward walk does not end at tail", ErrBrokenChain)
	}
	if count != d.n {
		return fmt.Errorf("%w: counted %d glyphs, want %d", ErrBrokenChain, count, d.n)
	}
	return nil
}
