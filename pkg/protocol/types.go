package protocol

// Wire shapes shared by the host and a Diplomat-style native library
// compiled to wasm32. Pointers and lengths are 32-bit offsets into the
// guest's linear memory.

// Runtime exports every Diplomat guest provides.
const (
	SymbolAlloc         = "diplomat_alloc"
	SymbolFree          = "diplomat_free"
	SymbolWriteCreate   = "diplomat_buffer_write_create"
	SymbolWriteGetBytes = "diplomat_buffer_write_get_bytes"
	SymbolWriteLen      = "diplomat_buffer_write_len"
	SymbolWriteDestroy  = "diplomat_buffer_write_destroy"
)

// RuntimeExports lists the Diplomat runtime symbols the host relies on.
var RuntimeExports = []string{
	SymbolAlloc,
	SymbolFree,
	SymbolWriteCreate,
	SymbolWriteGetBytes,
	SymbolWriteLen,
	SymbolWriteDestroy,
}

// Discriminant values of the trailing is_ok byte.
const (
	TagErr byte = 0
	TagOk  byte = 1
)

// Layout is the size and alignment of a value in guest memory.
type Layout struct {
	Size  uint32
	Align uint32
}

// Primitive layouts on wasm32.
var (
	LayoutUnit = Layout{Size: 0, Align: 1}
	LayoutBool = Layout{Size: 1, Align: 1}
	LayoutU8   = Layout{Size: 1, Align: 1}
	LayoutU16  = Layout{Size: 2, Align: 2}
	LayoutU32  = Layout{Size: 4, Align: 4}
	LayoutU64  = Layout{Size: 8, Align: 8}

	// Opaque pointers, enums and chars are all 32-bit.
	LayoutPtr  = LayoutU32
	LayoutEnum = LayoutU32
	LayoutChar = LayoutU32
)

// ResultLayout describes struct { union { T ok; E err; }; bool is_ok; }.
type ResultLayout struct {
	// Union is the payload area shared by both branches.
	Union Layout
	// TagOffset is where is_ok lives, right after the union.
	TagOffset uint32
	// Size is the full struct size, padded to Align.
	Size  uint32
	Align uint32
}

// NewResultLayout computes the receive buffer layout for Result<ok, err>.
// A zero-sized branch contributes nothing, so Result<(), ()> is a lone
// discriminant byte.
func NewResultLayout(ok, err Layout) ResultLayout {
	size := max(ok.Size, err.Size)
	align := max(ok.Align, err.Align, 1)
	union := Layout{Size: AlignTo(size, align), Align: align}
	return ResultLayout{
		Union:     union,
		TagOffset: union.Size,
		Size:      AlignTo(union.Size+1, align),
		Align:     align,
	}
}

// AlignTo rounds n up to a multiple of align.
func AlignTo(n, align uint32) uint32 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// Span is a (pointer, length) pair over guest memory, used for string and
// slice parameters.
type Span struct {
	Ptr uint32
	Len uint32
}

// Params flattens the span into two i32 call parameters.
func (s Span) Params() []uint64 {
	return []uint64{uint64(s.Ptr), uint64(s.Len)}
}

// End returns the first offset past the span.
func (s Span) End() uint32 {
	return s.Ptr + s.Len
}
