package field

// RenderBuffer holds the displayed position of every particle for the current
// frame. Displace is its only writer; the draw call reads it once per frame
// and acknowledges with MarkUploaded.
type RenderBuffer struct {
	positions []float32
	version   uint64
	uploaded  uint64
}

// NewRenderBuffer allocates a buffer matching the field's cardinality,
// initialised to the rest positions.
func NewRenderBuffer(pf PointField) *RenderBuffer {
	b := &RenderBuffer{positions: make([]float32, len(pf.origins))}
	copy(b.positions, pf.origins)
	b.version = 1
	return b
}

func (b *RenderBuffer) ensure(n int) {
	if len(b.positions) != n {
		b.positions = make([]float32, n)
	}
}

func (b *RenderBuffer) markWritten() {
	b.version++
}

// Positions returns the flat xyz positions.
func (b *RenderBuffer) Positions() []float32 {
	return b.positions
}

// Len returns the particle count.
func (b *RenderBuffer) Len() int {
	return len(b.positions) / 3
}

// Version increases every time the buffer content changes.
func (b *RenderBuffer) Version() uint64 {
	return b.version
}

// Dirty reports whether the content changed since the last upload.
func (b *RenderBuffer) Dirty() bool {
	return b.version != b.uploaded
}

// MarkUploaded records that the consumer has the current version.
func (b *RenderBuffer) MarkUploaded() {
	b.uploaded = b.version
}
