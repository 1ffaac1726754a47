package symbol

// An ID is the dense index of a name within a Table.
type ID uint64

// MaxID is the largest ID that fits in the payload of a tagged value.
const MaxID = 1<<56 - 1

// IDGen is a function that generates unique IDs.
type IDGen interface {
	// NewID returns a unique ID.  IDs are handed out in increasing order.
	NewID() ID
}

// NewIDGen returns a basic IDGen that produces 0, 1, 2, ... up to MaxID.
func NewIDGen() IDGen {
	return &gen{}
}

type gen struct {
	next ID
}

var _ IDGen = (*gen)(nil)

func (g *gen) NewID() ID {
	id := g.next
	if id > MaxID {
		panic("too many ids generated")
	}
	g.next++
	return id
}
