package layout_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbind/internal/layout"
)

func TestStructPadsMembersToAlignment(t *testing.T) {
	l := layout.Struct([]layout.Layout{
		layout.Scalar(1),
		layout.Scalar(4),
		layout.Scalar(2),
	})
	assert.Equal(t, layout.Layout{Size: 12, Align: 4}, l)
}

func TestStructEmpty(t *testing.T) {
	assert.Equal(t, layout.Layout{Size: 0, Align: 1}, layout.Struct(nil))
}

func TestUnionTakesLargestMember(t *testing.T) {
	l := layout.Union([]layout.Layout{layout.Scalar(1), layout.New(5, 1), layout.Scalar(4)})
	assert.Equal(t, layout.Layout{Size: 8, Align: 4}, l)
}

func TestWords(t *testing.T) {
	cases := []struct {
		l    layout.Layout
		want int
	}{
		{layout.New(16, 8), 2},
		{layout.New(12, 8), 2},
		{layout.New(1, 1), 1},
		{layout.Layout{Size: 7}, 7},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.l.Words(), "%v", tc.l)
	}
}

func TestLookupTarget(t *testing.T) {
	tgt, err := layout.LookupTarget("")
	require.NoError(t, err)
	assert.Equal(t, "x86_64-linux-gnu", tgt.Triple)

	tgt, err = layout.LookupTarget("X86_64-PC-Windows-MSVC")
	require.NoError(t, err)
	assert.Equal(t, layout.Scalar(4), tgt.Long())
	assert.Equal(t, layout.Scalar(2), tgt.WChar())

	_, err = layout.LookupTarget("mips-unknown-none")
	require.Error(t, err)
}

func TestTargetPointerDefaults(t *testing.T) {
	assert.Equal(t, layout.Layout{Size: 8, Align: 8}, layout.Target{}.Pointer())
	assert.Equal(t, layout.Layout{Size: 4, Align: 4}, layout.I686LinuxGNU().Pointer())
	assert.Equal(t, layout.Layout{Size: 12, Align: 4}, layout.I686LinuxGNU().LongDouble())
}

func TestLayoutError(t *testing.T) {
	kind, err := layout.ParseErrorKind("Incomplete")
	require.NoError(t, err)
	var lerr error = &layout.LayoutError{Kind: kind, Spelling: "struct Opaque"}
	assert.Equal(t, "layout of `struct Opaque` unavailable: incomplete", lerr.Error())

	var target *layout.LayoutError
	require.True(t, errors.As(lerr, &target))
	assert.Equal(t, layout.LayoutErrIncomplete, target.Kind)

	_, err = layout.ParseErrorKind("soggy")
	require.Error(t, err)
}
