package layout

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Struct lays out members sequentially in declaration order, padding each
// to its alignment.
func Struct(members []Layout) Layout {
	size := 0
	align := 1
	for _, m := range members {
		a := maxInt(1, m.Align)
		size = roundUp(size, a) + m.Size
		align = maxInt(align, a)
	}
	size = roundUp(size, align)
	return Layout{Size: size, Align: align}
}

// Union overlays members: the size of the largest, rounded to the widest
// alignment.
func Union(members []Layout) Layout {
	size := 0
	align := 1
	for _, m := range members {
		size = maxInt(size, m.Size)
		align = maxInt(align, maxInt(1, m.Align))
	}
	return Layout{Size: roundUp(size, align), Align: align}
}
