package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Ingestion
	IngestInfo              Code = 4000
	IngestUnsupportedType   Code = 4001
	IngestInvalidType       Code = 4002
	IngestUnknownLayout     Code = 4003
	IngestMemberDropped     Code = 4004
	IngestNestedFailure     Code = 4005
	IngestUnsupportedDecl   Code = 4006
	IngestNegativeArraySize Code = 4007
	IngestAliasCycle        Code = 4008

	// Analysis
	AnalysisInfo       Code = 5000
	AnalysisOpaqueBlob Code = 5001

	// Project / IO
	ProjInfo Code = 6000
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		IngestInfo:              "Ingestion information",
		IngestUnsupportedType:   "Unsupported foreign type",
		IngestInvalidType:       "Invalid foreign type",
		IngestUnknownLayout:     "Layout unknown",
		IngestMemberDropped:     "Member dropped from composite",
		IngestNestedFailure:     "Nested type could not be resolved",
		IngestUnsupportedDecl:   "Unsupported declaration",
		IngestNegativeArraySize: "Array size out of range",
		IngestAliasCycle:        "Typedef refers to itself",
		AnalysisInfo:            "Analysis information",
		AnalysisOpaqueBlob:      "Type analysed as opaque blob",
		ProjInfo:                "Project information",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("ING%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("ANA%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
