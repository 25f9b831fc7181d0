package layout

import "fmt"

// Layout is the in-memory footprint of a type: size and alignment in bytes.
type Layout struct {
	Size  int `json:"size" msgpack:"size"`
	Align int `json:"align" msgpack:"align"`
}

// New builds a layout, clamping alignment to at least one byte.
func New(size, align int) Layout {
	if align <= 0 {
		align = 1
	}
	if size < 0 {
		size = 0
	}
	return Layout{Size: size, Align: align}
}

// Scalar describes a primitive whose alignment equals its size.
func Scalar(size int) Layout {
	if size <= 0 {
		return Layout{Size: 0, Align: 1}
	}
	return Layout{Size: size, Align: size}
}

// Words returns how many alignment-sized units fit into the layout.
// Code generators emit opaque blobs as arrays of such units.
func (l Layout) Words() int {
	if l.Align <= 0 {
		return l.Size
	}
	return (l.Size + l.Align - 1) / l.Align
}

func (l Layout) String() string {
	return fmt.Sprintf("size=%d align=%d", l.Size, l.Align)
}
