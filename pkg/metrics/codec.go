package metrics

import "time"

// Record kinds used as the "record" label.
const (
	RecordAttrs     = "attrs"
	RecordStatus    = "status"
	RecordStatVFS   = "statvfs"
	RecordVersion   = "version"
	RecordExtension = "extension"
)

// CodecMetrics observes record encoding and decoding. A nil CodecMetrics
// is valid wherever one is accepted and records nothing.
type CodecMetrics interface {
	// ObserveDecode records one decode of a record kind.
	ObserveDecode(record string, bytes int, d time.Duration, err error)

	// ObserveEncode records one encode of a record kind.
	ObserveEncode(record string, bytes int, d time.Duration)

	// RecordUnknownExtension counts an extension name with no decoder.
	RecordUnknownExtension(name string)

	// RecordDroppedExtension counts an ATTRS extended pair that was skipped.
	RecordDroppedExtension(name string)

	// RecordUnknownMetadataTags counts metadata entries with unknown tags.
	RecordUnknownMetadataTags(n int)
}

// NewCodecMetrics returns the registered CodecMetrics, or nil when metrics
// are disabled or no implementation is linked in.
func NewCodecMetrics() CodecMetrics {
	if !IsEnabled() || newCodecMetrics == nil {
		return nil
	}
	return newCodecMetrics()
}

var newCodecMetrics func() CodecMetrics

// RegisterCodecMetricsConstructor installs the CodecMetrics implementation.
func RegisterCodecMetricsConstructor(fn func() CodecMetrics) {
	newCodecMetrics = fn
}
