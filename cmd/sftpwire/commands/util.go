package commands

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/marmos91/sftpbridge/internal/cli/output"
	"github.com/marmos91/sftpbridge/internal/sftp/attrs"
	"github.com/marmos91/sftpbridge/internal/sftp/extension"
	"github.com/marmos91/sftpbridge/internal/sftp/status"
	"github.com/marmos91/sftpbridge/internal/sftp/statvfs"
)

// parseHex decodes a payload argument. Whitespace, colons and a leading
// 0x are ignored.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload: %w", err)
	}
	return data, nil
}

func flagNames(f attrs.Flag) string {
	var parts []string
	for _, fn := range []struct {
		bit  attrs.Flag
		name string
	}{
		{attrs.FlagSize, "SIZE"},
		{attrs.FlagUIDGID, "UIDGID"},
		{attrs.FlagPermissions, "PERMISSIONS"},
		{attrs.FlagACModTime, "ACMODTIME"},
		{attrs.FlagExtended, "EXTENDED"},
	} {
		if f&fn.bit != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "|")
}

func fileType(a *attrs.Attributes) string {
	switch {
	case a.IsDirectory():
		return "directory"
	case a.IsFile():
		return "file"
	case a.IsSymbolicLink():
		return "symlink"
	}
	return "other"
}

// attrsFields lists only the fields a's flags define.
func attrsFields(a *attrs.Attributes) *output.Fields {
	f := output.NewFields().Add("flags", flagNames(a.Flags))
	if a.Has(attrs.FlagSize) {
		f.Add("size", a.Size)
	}
	if a.Has(attrs.FlagUIDGID) {
		f.Add("uid", a.UID).Add("gid", a.GID)
	}
	if a.Has(attrs.FlagPermissions) {
		f.Add("mode", fmt.Sprintf("0%o", a.Mode)).
			Add("type", fileType(a)).
			Add("perm", a.FileMode().String())
	}
	if a.Has(attrs.FlagACModTime) {
		f.Add("atime", a.Atime.UTC().Format(time.RFC3339)).
			Add("mtime", a.Mtime.UTC().Format(time.RFC3339))
	}
	if a.Nlink != 0 {
		f.Add("nlink", a.Nlink)
	}
	if a.Metadata != nil {
		f.Add("metadata", a.Metadata)
	}
	return f
}

func statvfsFields(s *statvfs.VfsStats) *output.Fields {
	return output.NewFields().
		Add("block_size", s.BlockSize).
		Add("blocks", s.Blocks).
		Add("blocks_free", s.BlocksFree).
		Add("blocks_avail", s.BlocksAvail).
		Add("files", s.Files).
		Add("files_free", s.FilesFree).
		Add("fs_type", fmt.Sprintf("0x%x", s.FSType)).
		Add("total", humanize.IBytes(s.TotalBytes())).
		Add("free", humanize.IBytes(s.FreeBytes())).
		Add("avail", humanize.IBytes(s.AvailBytes()))
}

func statusFields(s *status.Status) *output.Fields {
	return output.NewFields().
		Add("code", uint32(s.Code)).
		Add("name", s.Code.String()).
		Add("message", s.Message).
		Add("language", s.Language)
}

// describePayload renders an extension payload on one line.
func describePayload(p extension.Payload) string {
	switch v := p.(type) {
	case extension.Text:
		return string(v)
	case extension.Opaque:
		return "0x" + hex.EncodeToString(v)
	case extension.LineEnding:
		return fmt.Sprintf("%q", string(v))
	case *extension.VendorInfo:
		return fmt.Sprintf("%s %s %s (build %d)", v.VendorName, v.ProductName, v.ProductVersion, v.ProductBuild)
	case *extension.Features:
		return fmt.Sprintf("max_read=%d open_flags=0x%x extensions=%s",
			v.MaxReadSize, v.OpenFlags, strings.Join(v.Extensions, ","))
	case *extension.FSAttribs:
		return fmt.Sprintf("case_preserved=%t case_sensitive=%t illegal=%q reserved=%s",
			v.CasePreserved(), v.CaseSensitive(), v.IllegalCharacters, strings.Join(v.ReservedNames, ","))
	}
	return fmt.Sprintf("%v", p)
}

func versionTable(v *extension.Version) *output.Table {
	t := output.NewTable("EXTENSION", "KNOWN", "PAYLOAD")
	for _, p := range v.Extensions {
		known := "no"
		if extension.IsKnown(p.Name) {
			known = "yes"
		}
		t.AddRow(p.Name, known, describePayload(p.Payload))
	}
	return t
}
