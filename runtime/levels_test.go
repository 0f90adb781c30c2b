package runtime

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warriorguo/waveflow/types"
)

func diamond() []*types.Node {
	return []*types.Node{
		valueNode("A", 1),
		valueNode("B", 1),
		valueNode("C", 1, "A", "B"),
		valueNode("D", 1, "A"),
		valueNode("E", 1, "C", "D"),
	}
}

func TestComputeLevels(t *testing.T) {
	idx, err := newNodeIndex(diamond())
	require.Nil(t, err)

	levels, err := computeLevels(idx)
	require.Nil(t, err)
	assert.Equal(t, map[string]int{"A": 0, "B": 0, "C": 1, "D": 1, "E": 2}, levels)
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}, {"E"}}, groupByLevel(levels))
}

func TestLevelIsLongestPath(t *testing.T) {
	idx, err := newNodeIndex([]*types.Node{
		valueNode("tail", 1, "head", "mid2"),
		valueNode("mid2", 1, "mid1"),
		valueNode("mid1", 1, "head"),
		valueNode("head", 1),
	})
	require.Nil(t, err)

	levels, err := computeLevels(idx)
	require.Nil(t, err)
	assert.Equal(t, 3, levels["tail"])
	assert.Equal(t, 0, levels["head"])
}

func TestVisualize(t *testing.T) {
	e := newTestEngine()

	out, err := e.Visualize(diamond())
	require.Nil(t, err)
	assert.Equal(t, "Level 0: A, B\nLevel 1: C, D\nLevel 2: E\n", out)

	out, err = e.Visualize(nil)
	require.Nil(t, err)
	assert.Equal(t, "", out)
}

func TestVisualizeWithoutWork(t *testing.T) {
	out, err := newTestEngine().Visualize([]*types.Node{
		types.NewNode("plan", nil),
		types.NewNode("apply", nil, "plan"),
	})
	require.Nil(t, err)
	assert.Equal(t, "Level 0: plan\nLevel 1: apply\n", out)
}

func TestVisualizeMissingDependency(t *testing.T) {
	out, err := newTestEngine().Visualize([]*types.Node{
		valueNode("A", 1),
		valueNode("Z", 1, "A", "ghost"),
	})
	require.Nil(t, err)
	assert.Equal(t, "Level 0: A\nLevel 1: Z [missing: ghost]\n", out)
}

func TestVisualizeCycle(t *testing.T) {
	_, err := newTestEngine().Visualize([]*types.Node{
		valueNode("X", 1, "Y"),
		valueNode("Y", 1, "X"),
	})
	assert.True(t, errors.Is(err, errors.NotValid))
	assert.Contains(t, err.Error(), "not acyclic")

	_, err = newTestEngine().Visualize([]*types.Node{valueNode("self", 1, "self")})
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestVisualizeRejectsDuplicates(t *testing.T) {
	_, err := newTestEngine().Visualize([]*types.Node{valueNode("A", 1), valueNode("A", 2)})
	assert.True(t, errors.Is(err, errors.AlreadyExists))
}
