package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Loading unit files and writing output
	IOInfo          Code = 1000
	IOLoadFailure   Code = 1001
	IODecodeFailure Code = 1002
	IOWriteFailure  Code = 1003
	IOCacheCorrupt  Code = 1004

	// Project configuration
	ProjInfo           Code = 2000
	ProjConfigInvalid  Code = 2001
	ProjSDKUnsupported Code = 2002
	ProjNoUnits        Code = 2003

	// Lowering
	LowInfo                 Code = 4000
	LowUnsupportedConstruct Code = 4001
	LowAmbiguousMemberKind  Code = 4002
	LowNameCollision        Code = 4003
	LowMalformedInput       Code = 4004

	// Observability
	ObsInfo    Code = 9000
	ObsTimings Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	IOInfo:                  "I/O information",
	IOLoadFailure:           "Failed to read unit file",
	IODecodeFailure:         "Failed to decode unit file",
	IOWriteFailure:          "Failed to write output",
	IOCacheCorrupt:          "Output cache entry is corrupt",
	ProjInfo:                "Project information",
	ProjConfigInvalid:       "Invalid project configuration",
	ProjSDKUnsupported:      "Unsupported Dart SDK version",
	ProjNoUnits:             "No compilation units found",
	LowInfo:                 "Lowering information",
	LowUnsupportedConstruct: "Unsupported construct",
	LowAmbiguousMemberKind:  "Ambiguous inherited member",
	LowNameCollision:        "Generated name collision",
	LowMalformedInput:       "Malformed typed tree",
	ObsInfo:                 "Observability information",
	ObsTimings:              "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
