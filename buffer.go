package asciiart

import "fmt"

// Reference memory ceilings from the target hardware: 3MB when expanded
// memory is available, 200KB otherwise.
const (
	LargeBudget = 3_000_000
	SmallBudget = 200_000
)

// MemoryBudget is the byte ceiling the pipeline respects when allocating
// pixel buffers. Every PixelBuffer reserves its backing size on creation and
// returns it on Release, so Reserved reflects live pixel data at any point.
//
// A MemoryBudget is not safe for concurrent use; the pipeline is fully
// synchronous and holds at most one writable buffer per stage.
type MemoryBudget struct {
	limit    int
	reserved int
}

// NewMemoryBudget creates a budget with the given byte ceiling. Non-positive
// limits fall back to LargeBudget.
func NewMemoryBudget(limit int) *MemoryBudget {
	if limit <= 0 {
		limit = LargeBudget
	}
	return &MemoryBudget{limit: limit}
}

// Limit returns the byte ceiling.
func (b *MemoryBudget) Limit() int { return b.limit }

// Reserved returns the bytes currently held by live buffers.
func (b *MemoryBudget) Reserved() int { return b.reserved }

// Available returns the bytes remaining under the ceiling.
func (b *MemoryBudget) Available() int { return b.limit - b.reserved }

func (b *MemoryBudget) reserve(n int) bool {
	if n > b.Available() {
		return false
	}
	b.reserved += n
	return true
}

func (b *MemoryBudget) release(n int) {
	b.reserved -= n
	if b.reserved < 0 {
		b.reserved = 0
	}
}

// PixelBuffer is a rectangular grid of 8-bit RGB triples. Pix holds exactly
// W*H*3 bytes in row-major order. A buffer is owned by one pipeline stage at
// a time; the owner must call Release when done, including on error paths.
type PixelBuffer struct {
	Pix []uint8
	W   int
	H   int

	budget   *MemoryBudget
	released bool
}

// NewPixelBuffer allocates a w x h buffer, reserving w*h*3 bytes against the
// budget. It returns ErrAllocationFailure for invalid or overflowing
// dimensions and ErrOutOfMemory when the budget cannot cover the reservation.
// A nil budget means unbudgeted allocation (tests, placeholder previews).
func NewPixelBuffer(w, h int, budget *MemoryBudget) (*PixelBuffer, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrAllocationFailure, w, h)
	}
	const maxInt = int(^uint(0) >> 1)
	if w > maxInt/h || w*h > maxInt/3 {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrAllocationFailure, w, h)
	}
	size := w * h * 3
	if budget != nil && !budget.reserve(size) {
		return nil, fmt.Errorf("%w: need %d bytes, %d available",
			ErrOutOfMemory, size, budget.Available())
	}
	return &PixelBuffer{
		Pix:    make([]uint8, size),
		W:      w,
		H:      h,
		budget: budget,
	}, nil
}

// Size returns the backing storage size in bytes.
func (p *PixelBuffer) Size() int { return len(p.Pix) }

// At returns the RGB triple at (x, y). The caller must respect buffer bounds;
// out-of-range access panics, as does use after Release.
func (p *PixelBuffer) At(x, y int) (r, g, b uint8) {
	i := (y*p.W + x) * 3
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

// Set writes the RGB triple at (x, y).
func (p *PixelBuffer) Set(x, y int, r, g, b uint8) {
	i := (y*p.W + x) * 3
	p.Pix[i] = r
	p.Pix[i+1] = g
	p.Pix[i+2] = b
}

// Clone allocates a copy of the buffer from the same budget. The ditherer
// uses this for its error-accumulation working copy.
func (p *PixelBuffer) Clone() (*PixelBuffer, error) {
	dup, err := NewPixelBuffer(p.W, p.H, p.budget)
	if err != nil {
		return nil, err
	}
	copy(dup.Pix, p.Pix)
	return dup, nil
}

// Release returns the buffer's bytes to the budget and drops the backing
// storage so any later read fails loudly. Releasing twice is a no-op.
func (p *PixelBuffer) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	if p.budget != nil {
		p.budget.release(len(p.Pix))
	}
	p.Pix = nil
}
