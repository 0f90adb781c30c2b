package runtime

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warriorguo/waveflow/types"
)

func TestRenderDOTWithoutReport(t *testing.T) {
	out, err := newTestEngine(types.SetName("docs")).RenderDOT(diamond(), nil)
	require.Nil(t, err)

	assert.True(t, strings.HasPrefix(out, "digraph D {\nrankdir=LR\n"))
	assert.True(t, strings.HasSuffix(out, "label=\"docs\"\n}\n"))
	assert.Contains(t, out, "A [label=\"A\" shape=\"record\"]\n")
	assert.Contains(t, out, "A -> C\n")
	assert.Contains(t, out, "B -> C\n")
	assert.Contains(t, out, "D -> E\n")
	assert.NotContains(t, out, "color=")
}

func TestRenderDOTWithReport(t *testing.T) {
	e := newTestEngine()
	nodes := []*types.Node{
		valueNode("fetch", 1),
		failNode("parse", "fetch"),
		valueNode("index", 1, "parse"),
		valueNode("report", 1, "ghost"),
	}
	report, err := e.Execute(context.Background(), nodes)
	require.Nil(t, err)

	out, err := e.RenderDOT(nodes, report)
	require.Nil(t, err)
	assert.Contains(t, out, "fetch [label=\"fetch\" shape=\"record\" style=\"filled\" color=\"green\"")
	assert.Contains(t, out, "parse [label=\"parse\" shape=\"record\" style=\"filled\" color=\"red\"")
	assert.Contains(t, out, "index [label=\"index\" shape=\"record\" style=\"filled\" color=\"grey\"")
	assert.Contains(t, out, "ghost [label=\"ghost (missing)\" shape=\"record\" style=\"dashed\"]")
	assert.Contains(t, out, "ghost -> report\n")
	assert.Contains(t, out, "label=\""+report.ExecutionID+"\"")
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "yellow", statusColor(types.Running))
	assert.Equal(t, "green", statusColor(types.Success))
	assert.Equal(t, "red", statusColor(types.Failed))
	assert.Equal(t, "grey", statusColor(types.Skipped))
	assert.Equal(t, "white", statusColor(types.Pending))
}

func TestRendererEscaping(t *testing.T) {
	assert.Equal(t, "a_b_c_", idString("a-b.c]"))
	assert.Equal(t, "\"say \\\"hi\\\"\"", quoteString("say \"hi\""))
	assert.Equal(t, "it\\'s\\ ok", addSlashes("it's ok"))
	assert.Equal(t, "a\\nb", formatNL("a\nb"))
}
