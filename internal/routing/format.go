// Package routing defines the routing payload shared by the classifier and
// format handlers, along with the pure format detection, intent matching,
// and handler selection policies.
package routing

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format is the detected container format of an input.
type Format string

const (
	FormatPDF     Format = "PDF"
	FormatJSON    Format = "JSON"
	FormatEmail   Format = "EMAIL"
	FormatText    Format = "TEXT"
	FormatUnknown Format = "UNKNOWN"
)

var (
	markerContentType = []byte("Content-Type:")
	markerSubject     = []byte("Subject:")
)

// DetectFormat maps a source name and optional raw bytes to a Format.
//
// Extension decides first: .pdf and .json map directly, .eml is always EMAIL.
// The bytes of .txt and .msg sources, and of raw input (an empty name or
// RawInputName), are inspected: both a Content-Type: and a Subject: header
// marker yield EMAIL, otherwise TEXT. Any other name is UNKNOWN regardless
// of its bytes.
func DetectFormat(name string, data []byte) Format {
	if name == "" || name == RawInputName {
		return inspect(data)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".json":
		return FormatJSON
	case ".eml":
		return FormatEmail
	case ".txt", ".msg":
		return inspect(data)
	}

	return FormatUnknown
}

func inspect(data []byte) Format {
	if hasEmailMarkers(data) {
		return FormatEmail
	}
	return FormatText
}

func hasEmailMarkers(data []byte) bool {
	return bytes.Contains(data, markerContentType) && bytes.Contains(data, markerSubject)
}
