package extension

import (
	"slices"

	"github.com/marmos91/sftpbridge/internal/sftp/wire"
)

// Payload is the decoded value of one extension pair. Encode writes it back
// as the pair's length-prefixed data field.
type Payload interface {
	Encode(w *wire.Writer)
}

// Text is the payload of a known extension whose data is a plain string.
type Text string

func (t Text) Encode(w *wire.Writer) { w.WriteString(string(t)) }

// Opaque is the payload of an unrecognised extension, kept byte-for-byte.
type Opaque []byte

func (o Opaque) Encode(w *wire.Writer) { w.WriteData(o) }

// VendorInfo is the vendor-id payload.
type VendorInfo struct {
	VendorName     string `json:"vendor_name" yaml:"vendor_name"`
	ProductName    string `json:"product_name" yaml:"product_name"`
	ProductVersion string `json:"product_version" yaml:"product_version"`
	ProductBuild   uint64 `json:"product_build" yaml:"product_build"`
}

func (v *VendorInfo) Encode(w *wire.Writer) {
	w.WriteBlock(func(b *wire.Writer) {
		b.WriteString(v.VendorName)
		b.WriteString(v.ProductName)
		b.WriteString(v.ProductVersion)
		b.WriteUint64(v.ProductBuild)
	})
}

// LineEnding is the newline@vandyke.com payload: a string nested inside the
// data field.
type LineEnding string

func (l LineEnding) Encode(w *wire.Writer) {
	w.WriteBlock(func(b *wire.Writer) {
		b.WriteString(string(l))
	})
}

// Features is the supported / supported2 payload. OpenBlockVector,
// BlockVector and AttribExtensions only exist on the wire for supported2.
type Features struct {
	// V2 selects the supported2 layout.
	V2 bool `json:"v2" yaml:"v2"`

	AttributeMask    uint32   `json:"attribute_mask" yaml:"attribute_mask"`
	AttributeBits    uint32   `json:"attribute_bits" yaml:"attribute_bits"`
	OpenFlags        uint32   `json:"open_flags" yaml:"open_flags"`
	AccessMask       uint32   `json:"access_mask" yaml:"access_mask"`
	MaxReadSize      uint32   `json:"max_read_size" yaml:"max_read_size"`
	OpenBlockVector  uint16   `json:"open_block_vector,omitempty" yaml:"open_block_vector,omitempty"`
	BlockVector      uint16   `json:"block_vector,omitempty" yaml:"block_vector,omitempty"`
	AttribExtensions []string `json:"attrib_extensions,omitempty" yaml:"attrib_extensions,omitempty"`
	Extensions       []string `json:"extensions" yaml:"extensions"`
}

func (f *Features) Encode(w *wire.Writer) {
	w.WriteBlock(func(b *wire.Writer) {
		b.WriteUint32(f.AttributeMask)
		b.WriteUint32(f.AttributeBits)
		b.WriteUint32(f.OpenFlags)
		b.WriteUint32(f.AccessMask)
		b.WriteUint32(f.MaxReadSize)
		if f.V2 {
			b.WriteUint16(f.OpenBlockVector)
			b.WriteUint16(f.BlockVector)
			b.WriteUint32(uint32(len(f.AttribExtensions)))
			for _, n := range f.AttribExtensions {
				b.WriteString(n)
			}
			b.WriteUint32(uint32(len(f.Extensions)))
		}
		for _, n := range f.Extensions {
			b.WriteString(n)
		}
	})
}

// Supports reports whether name is listed in Extensions.
func (f *Features) Supports(name string) bool {
	return slices.Contains(f.Extensions, name)
}

// default-fs-attribs flag bits.
const (
	FSCasePreserved uint32 = 1 << 0
	FSCaseSensitive uint32 = 1 << 1
)

// FSAttribs is the default-fs-attribs@vandyke.com payload.
type FSAttribs struct {
	Flags             uint32   `json:"flags" yaml:"flags"`
	IllegalCharacters string   `json:"illegal_characters" yaml:"illegal_characters"`
	ReservedNames     []string `json:"reserved_names" yaml:"reserved_names"`
}

// CasePreserved reports bit 0 of Flags.
func (a *FSAttribs) CasePreserved() bool { return a.Flags&FSCasePreserved != 0 }

// CaseSensitive reports bit 1 of Flags.
func (a *FSAttribs) CaseSensitive() bool { return a.Flags&FSCaseSensitive != 0 }

func (a *FSAttribs) Encode(w *wire.Writer) {
	w.WriteBlock(func(b *wire.Writer) {
		b.WriteUint32(a.Flags)
		b.WriteString(a.IllegalCharacters)
		b.WriteUint32(uint32(len(a.ReservedNames)))
		for _, n := range a.ReservedNames {
			b.WriteString(n)
		}
	})
}
