package view

import (
	"fmt"
	"strings"
)

// Axis is the direction a Stack lays out its children.
type Axis int

const (
	// Vertical stacks children top to bottom.
	Vertical Axis = iota
	// Horizontal stacks children left to right.
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Stack groups child views along an axis.
type Stack struct {
	Axis    Axis
	Spacing float64
}

// NewStack returns an empty vertical stack.
func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) String() string {
	return fmt.Sprintf("stack(%s)", s.Axis)
}

// Box is a filled rectangle.
type Box struct {
	Name     string
	Color    Color
	Selected bool
	// OnTap is called by Tap.
	OnTap func()
}

// NewBox returns a transparent box.
func NewBox() *Box {
	return &Box{}
}

// Tap simulates a tap on the box.
func (b *Box) Tap() {
	if b.OnTap != nil {
		b.OnTap()
	}
}

func (b *Box) String() string {
	var sb strings.Builder
	sb.WriteString("box")
	if b.Name != "" {
		fmt.Fprintf(&sb, " %s", b.Name)
	}
	fmt.Fprintf(&sb, " %s", b.Color)
	if b.Selected {
		sb.WriteString(" [selected]")
	}
	return sb.String()
}

// Label displays a line of text.
type Label struct {
	Text          string
	Color         Color
	Strikethrough bool
}

// NewLabel returns an empty black label.
func NewLabel() *Label {
	return &Label{Color: ColorBlack}
}

func (l *Label) String() string {
	text := l.Text
	if l.Strikethrough {
		text = "~" + text + "~"
	}
	return fmt.Sprintf("label %q", text)
}
