package layout

import (
	"fmt"
	"sort"
	"strings"
)

// Target describes the data model of the platform the foreign headers were
// parsed for. It supplies layouts for builtin scalar types.
type Target struct {
	Triple          string // e.g. "x86_64-linux-gnu"
	PtrSize         int    // bytes
	PtrAlign        int    // bytes
	LongSize        int
	WCharSize       int
	LongDoubleSize  int
	LongDoubleAlign int
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:          "x86_64-linux-gnu",
		PtrSize:         8,
		PtrAlign:        8,
		LongSize:        8,
		WCharSize:       4,
		LongDoubleSize:  16,
		LongDoubleAlign: 16,
	}
}

func AArch64AppleDarwin() Target {
	return Target{
		Triple:          "aarch64-apple-darwin",
		PtrSize:         8,
		PtrAlign:        8,
		LongSize:        8,
		WCharSize:       4,
		LongDoubleSize:  8,
		LongDoubleAlign: 8,
	}
}

func X86_64PCWindowsMSVC() Target {
	return Target{
		Triple:          "x86_64-pc-windows-msvc",
		PtrSize:         8,
		PtrAlign:        8,
		LongSize:        4,
		WCharSize:       2,
		LongDoubleSize:  8,
		LongDoubleAlign: 8,
	}
}

func I686LinuxGNU() Target {
	return Target{
		Triple:          "i686-linux-gnu",
		PtrSize:         4,
		PtrAlign:        4,
		LongSize:        4,
		WCharSize:       4,
		LongDoubleSize:  12,
		LongDoubleAlign: 4,
	}
}

var knownTargets = map[string]func() Target{
	"x86_64-linux-gnu":       X86_64LinuxGNU,
	"aarch64-apple-darwin":   AArch64AppleDarwin,
	"x86_64-pc-windows-msvc": X86_64PCWindowsMSVC,
	"i686-linux-gnu":         I686LinuxGNU,
}

// LookupTarget resolves a triple to a known data model. An empty triple
// selects x86_64-linux-gnu.
func LookupTarget(triple string) (Target, error) {
	triple = strings.TrimSpace(strings.ToLower(triple))
	if triple == "" {
		return X86_64LinuxGNU(), nil
	}
	if mk, ok := knownTargets[triple]; ok {
		return mk(), nil
	}
	names := make([]string, 0, len(knownTargets))
	for name := range knownTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return Target{}, fmt.Errorf("unknown target %q (expected one of: %s)", triple, strings.Join(names, ", "))
}

// Pointer returns the layout of a data pointer on the target.
func (t Target) Pointer() Layout {
	ptrSize := t.PtrSize
	ptrAlign := t.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return Layout{Size: ptrSize, Align: ptrAlign}
}

// Long returns the layout of C `long`.
func (t Target) Long() Layout {
	if t.LongSize <= 0 {
		return Scalar(8)
	}
	return Scalar(t.LongSize)
}

// WChar returns the layout of `wchar_t`.
func (t Target) WChar() Layout {
	if t.WCharSize <= 0 {
		return Scalar(4)
	}
	return Scalar(t.WCharSize)
}

// LongDouble returns the layout of `long double`.
func (t Target) LongDouble() Layout {
	if t.LongDoubleSize <= 0 {
		return Scalar(16)
	}
	return New(t.LongDoubleSize, t.LongDoubleAlign)
}
