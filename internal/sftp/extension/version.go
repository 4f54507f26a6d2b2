package extension

import (
	"strings"

	"github.com/marmos91/sftpbridge/internal/sftp/wire"
)

// Pair is one extension advertised in an SSH_FXP_VERSION packet.
type Pair struct {
	Name    string  `json:"name" yaml:"name"`
	Payload Payload `json:"payload" yaml:"payload"`
}

// Version is the body of an SSH_FXP_VERSION packet: the negotiated protocol
// version followed by the server's extension pairs.
type Version struct {
	Version    uint32 `json:"version" yaml:"version"`
	Extensions []Pair `json:"extensions" yaml:"extensions"`
}

// ReadVersion decodes a VERSION body. Extension pairs are read until the
// payload is exhausted and each data field goes through Read.
func ReadVersion(r *wire.Reader) (*Version, error) {
	v := &Version{Version: r.ReadUint32()}
	for r.Err() == nil && r.Remaining() > 0 {
		name := r.ReadString()
		p, err := Read(name, r)
		if err != nil {
			return nil, err
		}
		v.Extensions = append(v.Extensions, Pair{Name: name, Payload: p})
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// WriteVersion encodes v as a VERSION body.
func WriteVersion(w *wire.Writer, v *Version) {
	w.WriteUint32(v.Version)
	for _, p := range v.Extensions {
		Encode(w, p.Name, p.Payload)
	}
}

// Lookup returns the payload of the first pair called name.
func (v *Version) Lookup(name string) (Payload, bool) {
	for _, p := range v.Extensions {
		if p.Name == name {
			return p.Payload, true
		}
	}
	return nil, false
}

// Has reports whether the server advertised name.
func (v *Version) Has(name string) bool {
	_, ok := v.Lookup(name)
	return ok
}

// Versions splits the comma-joined "versions" extension, or returns nil when
// the server did not send it.
func (v *Version) Versions() []string {
	p, ok := v.Lookup(Versions)
	if !ok {
		return nil
	}
	t, ok := p.(Text)
	if !ok || t == "" {
		return nil
	}
	return strings.Split(string(t), ",")
}

// SupportsVersion reports whether the "versions" extension lists ver.
func (v *Version) SupportsVersion(ver string) bool {
	p, ok := v.Lookup(Versions)
	if !ok {
		return false
	}
	t, ok := p.(Text)
	return ok && Contains(string(t), ver)
}
