package format

// ObjectType identifies the kind of object stored at a given arena offset.
type ObjectType uint8

// Object type tags. Tag 0 is reserved so that a zeroed (never-written)
// region of the arena is unambiguously distinguishable from a real object.
const (
	ObjectUnused ObjectType = iota
	ObjectData
	ObjectField
	ObjectEntry
	ObjectDataHashTable
	ObjectFieldHashTable
	ObjectEntryArray
	ObjectTag
	objectTypeMax
)

// Valid reports whether t is one of the recognized object type tags.
func (t ObjectType) Valid() bool { return t < objectTypeMax }

// String implements fmt.Stringer for log output.
func (t ObjectType) String() string {
	switch t {
	case ObjectUnused:
		return "UNUSED"
	case ObjectData:
		return "DATA"
	case ObjectField:
		return "FIELD"
	case ObjectEntry:
		return "ENTRY"
	case ObjectDataHashTable:
		return "DATA_HASH_TABLE"
	case ObjectFieldHashTable:
		return "FIELD_HASH_TABLE"
	case ObjectEntryArray:
		return "ENTRY_ARRAY"
	case ObjectTag:
		return "TAG"
	default:
		return "INVALID"
	}
}

// State is the persisted Header.State field.
type State uint8

const (
	StateOffline State = iota
	StateOnline
	StateArchived
)

func (s State) String() string {
	switch s {
	case StateOffline:
		return "OFFLINE"
	case StateOnline:
		return "ONLINE"
	case StateArchived:
		return "ARCHIVED"
	default:
		return "UNKNOWN"
	}
}

// CompressionKind identifies the compression codec applied to a Data
// object's payload. It is stored as a small enum value (None=0, LZ4=1,
// Zstd=2, and 3 for the S2 extension this module adds, see SPEC_FULL.md
// DOMAIN STACK) in the low bits of the object flag byte (spec §6.1)
// covered by ObjectCompressionMask.
type CompressionKind uint8

const (
	CompressionNone CompressionKind = iota
	CompressionLZ4
	CompressionZstd
	CompressionS2
)

// ObjectCompressionMask is the low bits of the object flag byte that carry
// the per-object CompressionKind.
const ObjectCompressionMask = 0x07

// String implements fmt.Stringer for log output and error messages.
func (k CompressionKind) String() string {
	switch k {
	case CompressionNone:
		return "None"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	default:
		return "Unknown"
	}
}

// Header compatible feature flags (readers may ignore unknown bits).
const (
	CompatibleSealed uint32 = 1 << 0
)

// Header incompatible feature flags (readers must refuse unknown bits).
const (
	IncompatibleCompressedLZ4  uint32 = 1 << 0
	IncompatibleCompressedZstd uint32 = 1 << 1
	IncompatibleCompressedS2   uint32 = 1 << 2
)

// KnownIncompatibleFlags is the set of incompatible bits this engine
// understands; any other bit set in a file's header is refused at open.
const KnownIncompatibleFlags = IncompatibleCompressedLZ4 | IncompatibleCompressedZstd | IncompatibleCompressedS2

// KnownCompatibleFlags is the set of compatible bits this engine
// understands; unknown bits are tolerated (and preserved) but unused.
const KnownCompatibleFlags = CompatibleSealed

// IncompatibleFlagFor returns the incompatible header bit that must be set
// for a file to contain objects compressed with kind.
func IncompatibleFlagFor(kind CompressionKind) uint32 {
	switch kind {
	case CompressionLZ4:
		return IncompatibleCompressedLZ4
	case CompressionZstd:
		return IncompatibleCompressedZstd
	case CompressionS2:
		return IncompatibleCompressedS2
	default:
		return 0
	}
}

// Signature is the fixed magic byte sequence at the start of the file.
var Signature = [8]byte{'L', 'P', 'K', 'S', 'H', 'H', 'R', 'H'}

const (
	// Alignment all offsets and object sizes must satisfy.
	Alignment = 8

	// GrowthGranularity is the allocator's rounding unit when growing the
	// arena (spec §4.3).
	GrowthGranularity = 8 * 1024 * 1024

	// DefaultMaxFileSize is the default allocator quota ceiling.
	DefaultMaxFileSize = 8 * 1024 * 1024 * 1024 // 8 GiB

	// DefaultCompressionThreshold is the default minimum payload size
	// before compression is attempted (spec §9 open question, made a
	// tunable here).
	DefaultCompressionThreshold = 512

	// DefaultRotateFillThreshold is the default hash-table fill ratio
	// that triggers a rotate-suggested signal (spec §9 open question).
	DefaultRotateFillThreshold = 0.75
)

// Align8 rounds n up to the next multiple of Alignment.
func Align8(n uint64) uint64 {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// IsAligned8 reports whether offset is a valid 8-byte-aligned object
// offset (including the null sentinel, offset 0).
func IsAligned8(offset uint64) bool {
	return offset&(Alignment-1) == 0
}
