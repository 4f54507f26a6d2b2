package extension

import (
	"github.com/marmos91/sftpbridge/internal/sftp/wire"
)

type decodeFunc func(r *wire.Reader) Payload

// decoders maps names with a structured layout to their decoder. Known names
// missing from the table decode as Text, unknown names as Opaque.
var decoders = map[string]decodeFunc{
	VendorID:         readVendorInfo,
	NewlineVandyke:   readLineEnding,
	Supported:        func(r *wire.Reader) Payload { return readFeatures(r, false) },
	Supported2:       func(r *wire.Reader) Payload { return readFeatures(r, true) },
	DefaultFSAttribs: readFSAttribs,
}

// Read decodes the data field of the extension pair called name from r.
// The returned error is the cursor's error, unmodified.
func Read(name string, r *wire.Reader) (Payload, error) {
	var p Payload
	switch dec, ok := decoders[name]; {
	case ok:
		p = dec(r)
	case IsKnown(name):
		p = Text(r.ReadString())
	default:
		p = Opaque(r.ReadData())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode writes a full extension pair: name, then the payload's data field.
func Encode(w *wire.Writer, name string, p Payload) {
	w.WriteString(name)
	p.Encode(w)
}

func readVendorInfo(r *wire.Reader) Payload {
	b := r.ReadBlock()
	return &VendorInfo{
		VendorName:     b.ReadString(),
		ProductName:    b.ReadString(),
		ProductVersion: b.ReadString(),
		ProductBuild:   b.ReadUint64(),
	}
}

func readLineEnding(r *wire.Reader) Payload {
	b := r.ReadBlock()
	return LineEnding(b.ReadString())
}

// readFeatures decodes supported / supported2. The trailing extension-name
// list ends at the declared count (supported2 only) or when the block is
// exhausted, whichever comes first, since servers disagree on which of the
// two they rely on.
func readFeatures(r *wire.Reader, v2 bool) Payload {
	b := r.ReadBlock()
	f := &Features{
		V2:            v2,
		AttributeMask: b.ReadUint32(),
		AttributeBits: b.ReadUint32(),
		OpenFlags:     b.ReadUint32(),
		AccessMask:    b.ReadUint32(),
		MaxReadSize:   b.ReadUint32(),
	}

	limit := int64(-1)
	if v2 {
		f.OpenBlockVector = b.ReadUint16()
		f.BlockVector = b.ReadUint16()
		attribCount := b.ReadUint32()
		for i := uint32(0); i < attribCount && b.Err() == nil; i++ {
			f.AttribExtensions = append(f.AttribExtensions, b.ReadString())
		}
		limit = int64(b.ReadUint32())
	}

	for i := int64(0); (limit < 0 || i < limit) && b.Err() == nil && b.Remaining() > 0; i++ {
		f.Extensions = append(f.Extensions, b.ReadString())
	}
	return f
}

func readFSAttribs(r *wire.Reader) Payload {
	b := r.ReadBlock()
	a := &FSAttribs{
		Flags:             b.ReadUint32(),
		IllegalCharacters: b.ReadString(),
	}
	count := b.ReadUint32()
	for i := uint32(0); i < count && b.Err() == nil; i++ {
		a.ReservedNames = append(a.ReservedNames, b.ReadString())
	}
	return a
}
