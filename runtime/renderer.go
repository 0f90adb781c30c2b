package runtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/warriorguo/waveflow/types"
	"github.com/warriorguo/waveflow/utils"
)

// visualize lists the nodes level by level, "Level 0: A, B".
func visualize(idx *nodeIndex) (string, error) {
	levels, err := computeLevels(idx)
	if err != nil {
		return "", errors.Trace(err)
	}

	sb := &strings.Builder{}
	for level, ids := range groupByLevel(levels) {
		labels := make([]string, 0, len(ids))
		for _, id := range ids {
			if missing := idx.missingDependencies(id); len(missing) > 0 {
				labels = append(labels, fmt.Sprintf("%s [missing: %s]", id, strings.Join(missing, ", ")))
				continue
			}
			labels = append(labels, id)
		}
		fmt.Fprintf(sb, "Level %d: %s\n", level, strings.Join(labels, ", "))
	}
	return sb.String(), nil
}

/**
 * dotVertex is what the DOT renderer needs to know about a node, it is
 * built either from live nodes plus a report or from stored records.
 */
type dotVertex struct {
	id     string
	deps   []string
	record *types.NodeTraceRecord
}

func vertexesFromReport(idx *nodeIndex, report *types.ExecutionReport) []*dotVertex {
	vs := make([]*dotVertex, 0, len(idx.nodes))
	for _, n := range idx.nodes {
		v := &dotVertex{id: n.ID, deps: idx.deps[n.ID]}
		if report != nil {
			if r, exists := report.NodeResults[n.ID]; exists {
				v.record = newNodeTraceRecord(idx.deps[n.ID], r)
			}
		}
		vs = append(vs, v)
	}
	return vs
}

func vertexesFromRecords(records map[string]*types.NodeTraceRecord) []*dotVertex {
	vs := make([]*dotVertex, 0, len(records))
	for _, id := range utils.SortedKeys(records) {
		r := records[id]
		vs = append(vs, &dotVertex{id: id, deps: r.Dependencies, record: r})
	}
	return vs
}

func newDAGRenderer() *dagRenderer {
	return &dagRenderer{&strings.Builder{}}
}

type dagRenderer struct {
	sb *strings.Builder
}

func (d *dagRenderer) generateDOT(name string, vertexes []*dotVertex) string {
	known := make(map[string]bool, len(vertexes))
	for _, v := range vertexes {
		known[v.id] = true
	}

	d.write("digraph D {")
	d.write("rankdir=LR")
	for _, v := range vertexes {
		d.drawNode(v)
	}
	for _, v := range vertexes {
		for _, dep := range v.deps {
			if !known[dep] {
				d.write("%s [label=%s shape=\"record\" style=\"dashed\"]", idString(dep), quoteString(dep+" (missing)"))
				known[dep] = true
			}
			d.write("%s -> %s", idString(dep), idString(v.id))
		}
	}
	d.write("label=%s", quoteString(name))
	d.write("}")
	return d.sb.String()
}

func statusColor(status types.StatusType) string {
	switch status {
	case types.Running:
		return "yellow"
	case types.Success:
		return "green"
	case types.Failed:
		return "red"
	case types.Skipped:
		return "grey"
	default:
		return "white"
	}
}

func packToComment(r *types.NodeTraceRecord) string {
	s, _ := json.Marshal(r)
	return formatNL(addSlashes(string(s)))
}

func (d *dagRenderer) drawNode(v *dotVertex) {
	attr := ""
	if v.record != nil {
		attr = fmt.Sprintf(" style=\"filled\" color=\"%s\" comment=\"%s\"", statusColor(v.record.Status), packToComment(v.record))
	}
	d.write("%s [label=%s shape=\"record\"%s]", idString(v.id), quoteString(v.id), attr)
}

func (d *dagRenderer) write(format string, s ...any) {
	fmt.Fprintf(d.sb, format+"\n", s...)
}

var (
	slashesToken = []string{"\\", "\"", "'", " "}
)

func addSlashes(s string) string {
	for _, token := range slashesToken {
		s = strings.ReplaceAll(s, token, "\\"+token)
	}
	return s
}

func formatNL(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}

func quoteString(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

var idleChars = []string{" ", "'", "\"", "(", ")", "*", "&", "^", "%", "$", "#", "@", "!", "?", "<", ">", "[", "]", "{", "}", ".", "-", "/", ":"}

func idString(s string) string {
	for _, ch := range idleChars {
		s = strings.ReplaceAll(s, ch, "_")
	}
	return s
}
