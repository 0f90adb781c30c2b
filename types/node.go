package types

// WorkFunc is the opaque unit of work a node performs.
// Returning a non-nil error marks the node Failed.
type WorkFunc func(ctx Context) (any, error)

type Node struct {
	ID string
	// Dependencies is treated as a set: order and duplicates are irrelevant.
	Dependencies []string
	Work         WorkFunc
	Metadata     Metadata
}

func NewNode(id string, work WorkFunc, dependencies ...string) *Node {
	return &Node{ID: id, Work: work, Dependencies: dependencies}
}

func (n *Node) WithMetadata(key string, value any) *Node {
	n.Metadata.Set(key, value)
	return n
}
