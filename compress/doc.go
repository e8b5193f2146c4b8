// Package compress provides the payload compression codecs used for Data
// object payloads (spec §4.4's insert_if_absent).
//
// A Data object's payload is compressed only when it is at least the
// configured compression threshold in size, compression is enabled for the
// file, and the compressed form is actually smaller than the raw payload —
// otherwise the payload is stored raw and the object's flag byte records
// CompressionNone. Compression is therefore always transparent to a
// reader: the flag byte says exactly which codec, if any, produced the
// stored bytes, so the hash index's bytewise payload comparison (spec
// §4.4) always decompresses before comparing.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported algorithms
//
// Four codecs are available. The three real compressors each map onto one
// of the header's incompatible feature flags
// (format.IncompatibleCompressedLZ4/Zstd/S2); None has no flag:
//
//   - None (format.CompressionNone): no compression, used below the
//     compression threshold or when compression is disabled.
//   - LZ4: fastest decompression; the journal package's default codec.
//   - Zstd: best ratio of the three.
//   - S2: a fast, Snappy-compatible middle ground.
//
// A journal file uses the one codec chosen with journal.WithCompression
// for every Data payload it compresses; the choice does not change when a
// file is sealed or archived.
//
// CreateCodec and GetCodec construct a Codec from a format.CompressionKind;
// journal callers never instantiate a concrete codec type directly.
package compress
