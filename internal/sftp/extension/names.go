// Package extension holds the registry of SFTP vendor extensions: their wire
// names, and decoders/encoders for the extensions whose payload layout is
// independently specified.
//
// Unknown extension names are never an error. Their payload is returned as
// an Opaque blob so newer servers keep working.
package extension

import (
	"slices"
	"strings"

	"github.com/marmos91/sftpbridge/internal/sftp/wire"
)

// Extension names as they appear on the wire.
const (
	PosixRename      = "posix-rename@openssh.com"
	StatVFS          = "statvfs@sftp.ws"
	FStatVFS         = "fstatvfs@openssh.com"
	Hardlink         = "hardlink@openssh.com"
	FSync            = "fsync@openssh.com"
	NewlineSFTPWS    = "newline@sftp.ws"
	Newline          = "newline"
	NewlineVandyke   = "newline@vandyke.com"
	Charset          = "charset@sftp.ws"
	Meta             = "meta@sftp.ws"
	Versions         = "versions"
	VendorID         = "vendor-id"
	CopyFile         = "copy-file"
	CopyData         = "copy-data"
	CheckFile        = "check-file"
	CheckFileHandle  = "check-file-handle"
	CheckFileName    = "check-file-name"
	Supported        = "supported"
	Supported2       = "supported2"
	DefaultFSAttribs = "default-fs-attribs@vandyke.com"
	SymlinkOrder     = "symlink-order@rjk.greenend.org.uk"
	LinkOrder        = "link-order@rjk.greenend.org.uk"
)

var known = map[string]struct{}{
	PosixRename:      {},
	StatVFS:          {},
	FStatVFS:         {},
	Hardlink:         {},
	FSync:            {},
	NewlineSFTPWS:    {},
	Newline:          {},
	NewlineVandyke:   {},
	Charset:          {},
	Meta:             {},
	Versions:         {},
	VendorID:         {},
	CopyFile:         {},
	CopyData:         {},
	CheckFile:        {},
	CheckFileHandle:  {},
	CheckFileName:    {},
	Supported:        {},
	Supported2:       {},
	DefaultFSAttribs: {},
	SymlinkOrder:     {},
	LinkOrder:        {},
}

// IsKnown reports whether name is one of the registered extension names.
func IsKnown(name string) bool {
	_, ok := known[name]
	return ok
}

// Names returns every registered extension name, sorted.
func Names() []string {
	names := make([]string, 0, len(known))
	for n := range known {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Contains reports whether value is one of the tokens of the comma-joined
// list csv. Tokens must not themselves contain commas.
func Contains(csv, value string) bool {
	return strings.Contains(","+csv+",", ","+value+",")
}

// Write serializes a simple string-valued extension pair.
func Write(w *wire.Writer, name, value string) {
	w.WriteString(name)
	w.WriteString(value)
}
