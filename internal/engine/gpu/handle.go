package gpu

// noCopy makes `go vet` flag accidental copies of values embedding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle exclusively owns one native object id. The zero Handle owns nothing.
//
// Ownership moves with Take/Reset: the source is left empty, so releasing it
// afterwards is a no-op and no object is ever deleted twice.
type Handle struct {
	_  noCopy
	id uint32
}

// ID returns the owned id, or 0 if the handle is empty.
func (h *Handle) ID() uint32 {
	return h.id
}

// Valid reports whether the handle owns an object.
func (h *Handle) Valid() bool {
	return h.id != 0
}

// Take disarms the handle and returns the id it owned.
func (h *Handle) Take() uint32 {
	id := h.id
	h.id = 0
	return id
}

// Reset makes the handle own id. The previous id, if any, is forgotten,
// so callers must release it first.
func (h *Handle) Reset(id uint32) {
	h.id = id
}

// MustID returns the owned id and panics on an empty handle. Binding a
// moved-from or destroyed resource is a program error.
func (h *Handle) MustID(kind string) uint32 {
	if h.id == 0 {
		panic("gpu: use of empty " + kind + " handle")
	}
	return h.id
}
