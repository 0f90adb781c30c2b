package runtime

import (
	"context"

	"github.com/warriorguo/waveflow/types"
	"github.com/warriorguo/waveflow/utils"
)

var (
	_ types.Context = &nodeContext{}
)

type nodeContext struct {
	context.Context

	executionID string
	node        *types.Node
	// metadata is a copy, nodes may be shared by concurrent executions
	metadata types.Metadata
}

func newNodeContext(ctx context.Context, executionID string, node *types.Node) *nodeContext {
	return &nodeContext{
		Context:     ctx,
		executionID: executionID,
		node:        node,
		metadata:    utils.CloneMap(node.Metadata),
	}
}

func (c *nodeContext) GetExecutionID() string {
	return c.executionID
}

func (c *nodeContext) GetNodeID() string {
	return c.node.ID
}

func (c *nodeContext) GetMetadata() types.Metadata {
	return c.metadata
}
