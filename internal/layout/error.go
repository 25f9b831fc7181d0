package layout

import (
	"fmt"
	"strings"
)

// LayoutErrorKind mirrors the reasons a foreign parser refuses to report a
// type's layout.
type LayoutErrorKind uint8

const (
	// LayoutErrInvalid indicates the type has no meaningful layout.
	LayoutErrInvalid LayoutErrorKind = iota + 1
	LayoutErrIncomplete
	LayoutErrDependent
	LayoutErrNotConstantSize
	LayoutErrInvalidFieldName
	LayoutErrUndeduced
)

func (k LayoutErrorKind) String() string {
	switch k {
	case LayoutErrInvalid:
		return "invalid"
	case LayoutErrIncomplete:
		return "incomplete"
	case LayoutErrDependent:
		return "dependent"
	case LayoutErrNotConstantSize:
		return "not-constant-size"
	case LayoutErrInvalidFieldName:
		return "invalid-field-name"
	case LayoutErrUndeduced:
		return "undeduced"
	default:
		return fmt.Sprintf("LayoutErrorKind(%d)", k)
	}
}

// ParseErrorKind converts the textual kind used in dumps.
func ParseErrorKind(s string) (LayoutErrorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "invalid":
		return LayoutErrInvalid, nil
	case "incomplete":
		return LayoutErrIncomplete, nil
	case "dependent":
		return LayoutErrDependent, nil
	case "not-constant-size", "not_constant_size":
		return LayoutErrNotConstantSize, nil
	case "invalid-field-name", "invalid_field_name":
		return LayoutErrInvalidFieldName, nil
	case "undeduced":
		return LayoutErrUndeduced, nil
	default:
		return 0, fmt.Errorf("unknown layout error kind %q", s)
	}
}

// LayoutError reports a failed layout query for a foreign type.
type LayoutError struct {
	Kind     LayoutErrorKind
	Spelling string
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Spelling == "" {
		return fmt.Sprintf("layout unavailable: %s", e.Kind)
	}
	return fmt.Sprintf("layout of `%s` unavailable: %s", e.Spelling, e.Kind)
}
