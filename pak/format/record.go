package format

// Kind identifies one of the supported index layouts.
type Kind int

const (
	KindExtB Kind = iota
	KindExt
	KindIdxV2
	KindOldL1
	KindOldDes
)

func (k Kind) String() string {
	switch k {
	case KindExtB:
		return "ExtB"
	case KindExt:
		return "Ext"
	case KindIdxV2:
		return "IdxV2"
	case KindOldL1:
		return "OldL1"
	case KindOldDes:
		return "OldDes"
	default:
		return "unknown"
	}
}

// Encryption labels reported by handlers.
const (
	LabelNone     = "none"
	LabelL1       = "l1"
	LabelBlowfish = "blowfish"
	LabelDES      = "des-index"
)

// FlagBrotli marks an Ext record whose stored bytes are Brotli compressed.
const FlagBrotli uint32 = 1

// Record is one index entry.
type Record struct {
	Name       string // decoded filename
	Offset     uint32 // position in the data file
	Size       uint32 // decoded payload size
	StoredSize uint32 // bytes occupied in the data file; 0 means Size
	Flags      uint32 // compression flags (Ext)
	Source     string // index path of the container the record came from
}

// Stored returns the number of bytes the record occupies in the data file.
func (r Record) Stored() uint32 {
	if r.StoredSize != 0 {
		return r.StoredSize
	}
	return r.Size
}
