// Package inspect captures read-only snapshots of a runtime's instance tree
// and renders them as a terminal tree or a YAML document.
package inspect

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/xnew/pkg/xnew"
)

// NodeInfo is the snapshot of one node and its subtree.
type NodeInfo struct {
	ID    string   `yaml:"id"`
	Phase string   `yaml:"phase"`
	Tags  []string `yaml:"tags,omitempty"`
	// Element is the node's own or inherited host element.
	Element string `yaml:"element,omitempty"`
	// Listeners holds one "type=count" entry per event type, sorted.
	Listeners []string   `yaml:"listeners,omitempty"`
	Members   []string   `yaml:"members,omitempty"`
	Timers    int        `yaml:"timers,omitempty"`
	Children  []NodeInfo `yaml:"children,omitempty"`
}

// Report is a snapshot of a whole runtime.
type Report struct {
	Scene  string         `yaml:"scene,omitempty"`
	Frames uint64         `yaml:"frames"`
	Now    string         `yaml:"now"`
	Nodes  int            `yaml:"nodes"`
	Phases map[string]int `yaml:"phases"`
	Roots  []NodeInfo     `yaml:"roots"`
}

// NewReport snapshots rt. frames and now describe the host clock.
func NewReport(scene string, rt *xnew.Runtime, frames uint64, now time.Duration) Report {
	roots := Snapshot(rt)
	return Report{
		Scene:  scene,
		Frames: frames,
		Now:    now.String(),
		Nodes:  rt.Len(),
		Phases: Phases(roots),
		Roots:  roots,
	}
}

// Describe snapshots n and its live descendants.
func Describe(n *xnew.Node) NodeInfo {
	info := NodeInfo{
		ID:      n.ID().String(),
		Phase:   n.Phase().String(),
		Tags:    n.Tags(),
		Members: n.Members(),
		Timers:  n.Timers(),
	}
	if len(info.Tags) == 0 {
		info.Tags = nil
	}
	if len(info.Members) == 0 {
		info.Members = nil
	}
	if el := n.Element(); el != nil {
		info.Element = fmt.Sprint(el)
	}
	for _, typ := range n.Types() {
		info.Listeners = append(info.Listeners, fmt.Sprintf("%s=%d", typ, n.Listeners(typ)))
	}
	for _, c := range n.Children() {
		info.Children = append(info.Children, Describe(c))
	}
	return info
}

// Snapshot describes every root of rt in creation order.
func Snapshot(rt *xnew.Runtime) []NodeInfo {
	roots := rt.Roots()
	out := make([]NodeInfo, 0, len(roots))
	for _, r := range roots {
		out = append(out, Describe(r))
	}
	return out
}

// Phases counts the nodes of roots per phase.
func Phases(roots []NodeInfo) map[string]int {
	counts := make(map[string]int)
	var walk func(n NodeInfo)
	walk = func(n NodeInfo) {
		counts[n.Phase]++
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return counts
}

// YAML encodes v with two-space indentation.
func YAML(v any) ([]byte, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return []byte(sb.String()), nil
}

var (
	idStyle     = lipgloss.NewStyle().Bold(true)
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginRight(1)
	headerStyle = lipgloss.NewStyle().Bold(true)
	phaseStyles = map[string]lipgloss.Style{
		xnew.PhaseStarted.String():    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		xnew.PhaseStopped.String():    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		xnew.PhaseFinalizing.String(): lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		xnew.PhaseFinalized.String():  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// shortID keeps the random tail of a UUIDv7; the head is a timestamp shared
// by nodes created in the same millisecond.
func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func label(n NodeInfo) string {
	parts := []string{idStyle.Render(shortID(n.ID))}

	phase := n.Phase
	if st, ok := phaseStyles[phase]; ok {
		phase = st.Render(phase)
	}
	parts = append(parts, phase)

	if len(n.Tags) > 0 {
		parts = append(parts, tagStyle.Render("["+strings.Join(n.Tags, " ")+"]"))
	}
	if n.Element != "" {
		parts = append(parts, mutedStyle.Render(n.Element))
	}
	if len(n.Listeners) > 0 {
		parts = append(parts, "on "+strings.Join(n.Listeners, ","))
	}
	if n.Timers > 0 {
		parts = append(parts, fmt.Sprintf("timers=%d", n.Timers))
	}
	return strings.Join(parts, " ")
}

func build(n NodeInfo) *tree.Tree {
	t := tree.Root(label(n)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)
	for _, c := range n.Children {
		if len(c.Children) == 0 {
			t.Child(label(c))
			continue
		}
		t.Child(build(c))
	}
	return t
}

// Render draws r as a tree per root, followed by a per-phase summary.
func Render(r Report) string {
	var sb strings.Builder
	title := fmt.Sprintf("%d nodes after %d frames (%s)", r.Nodes, r.Frames, r.Now)
	if r.Scene != "" {
		title = r.Scene + ": " + title
	}
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")

	for _, root := range r.Roots {
		sb.WriteString(build(root).String())
		sb.WriteString("\n")
	}

	phases := make([]string, 0, len(r.Phases))
	for p := range r.Phases {
		phases = append(phases, p)
	}
	sort.Strings(phases)
	summary := make([]string, 0, len(phases))
	for _, p := range phases {
		summary = append(summary, fmt.Sprintf("%s=%d", p, r.Phases[p]))
	}
	sb.WriteString(mutedStyle.Render(strings.Join(summary, " ")))
	sb.WriteString("\n")
	return sb.String()
}
