package mem

import "github.com/pocketriscv/memsim/sim"

// Source identifies one of the request sources that compete for the memory
// controller.
type Source int

// The three request sources, in descending arbitration priority.
const (
	SourceLoader Source = iota
	SourceProcessor
	SourceScanout
	NumSources
)

func (s Source) String() string {
	switch s {
	case SourceLoader:
		return "Loader"
	case SourceProcessor:
		return "Processor"
	case SourceScanout:
		return "Scanout"
	}

	return "Unknown"
}

// AccessKind is the type of operation a request asks for.
type AccessKind int

// The supported access kinds.
const (
	AccessRead AccessKind = iota
	AccessWrite
	AccessBurstRead
)

func (k AccessKind) String() string {
	switch k {
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	case AccessBurstRead:
		return "BurstRead"
	}

	return "Unknown"
}

// A Request asks the memory controller to perform one access. Addresses are
// word addresses. Length is the word count, 1 for a scalar access.
type Request struct {
	ID      string
	Source  Source
	Kind    AccessKind
	Address uint64
	Data    []uint32
	Length  int
}

// IsRead returns true if the request does not modify the storage.
func (r *Request) IsRead() bool {
	return r.Kind == AccessRead || r.Kind == AccessBurstRead
}

// A Response reports the completion of one admitted request. Exactly one
// response is produced per admitted request.
type Response struct {
	RequestID string
	Source    Source
	Data      []uint32
	Completed bool
}

// RequestBuilder can build requests.
type RequestBuilder struct {
	source  Source
	kind    AccessKind
	address uint64
	data    []uint32
	length  int
}

// WithSource sets the source of the request to build.
func (b RequestBuilder) WithSource(source Source) RequestBuilder {
	b.source = source
	return b
}

// WithKind sets the access kind of the request to build.
func (b RequestBuilder) WithKind(kind AccessKind) RequestBuilder {
	b.kind = kind
	return b
}

// WithAddress sets the word address of the request to build.
func (b RequestBuilder) WithAddress(address uint64) RequestBuilder {
	b.address = address
	return b
}

// WithData sets the words to write.
func (b RequestBuilder) WithData(data []uint32) RequestBuilder {
	b.data = data
	return b
}

// WithLength sets the word count of the request to build.
func (b RequestBuilder) WithLength(length int) RequestBuilder {
	b.length = length
	return b
}

// Build creates a new Request.
func (b RequestBuilder) Build() *Request {
	r := &Request{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Source = b.source
	r.Kind = b.kind
	r.Address = b.address
	r.Data = b.data
	r.Length = b.length

	if r.Length == 0 {
		r.Length = 1
	}
	if r.Kind == AccessWrite && r.Length < len(r.Data) {
		r.Length = len(r.Data)
	}

	return r
}
