// Package graph holds the in-memory relationship graph of the encyclopedia
// and the neighborhood engine that powers focus mode in the viewer.
package graph

import "sort"

// NodeKind classifies a node record.
type NodeKind string

const (
	NodeKindPerson      NodeKind = "person"
	NodeKindWork        NodeKind = "work"
	NodeKindInstitution NodeKind = "institution"
)

// NodeKinds lists every valid node kind.
var NodeKinds = []NodeKind{NodeKindPerson, NodeKindWork, NodeKindInstitution}

// EdgeKind classifies the strength of a relationship.
type EdgeKind string

const (
	// EdgeKindInfluence marks a strong relationship such as mentorship or creation.
	EdgeKindInfluence EdgeKind = "influence"
	// EdgeKindAffiliation marks a weak relationship such as employment or membership.
	EdgeKindAffiliation EdgeKind = "affiliation"
)

// Node is one person, work, or institution record. Nodes are immutable once
// assembled; the engine only reads them.
type Node struct {
	ID      string   `json:"id"`
	Kind    NodeKind `json:"kind"`
	Name    string   `json:"name"`
	Years   string   `json:"years,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Edge is one directed relationship between two node ids. Source and target
// should name existing nodes, but the engine tolerates dangling ids.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	Label  string   `json:"label,omitempty"`
	Year   int      `json:"year,omitempty"`
}

// IDSet is a set of node ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from the provided ids.
func NewIDSet(identifiers ...string) IDSet {
	set := make(IDSet, len(identifiers))
	for _, identifier := range identifiers {
		set[identifier] = struct{}{}
	}
	return set
}

// Add inserts an id into the set.
func (set IDSet) Add(identifier string) {
	set[identifier] = struct{}{}
}

// Contains reports whether the id is a member of the set.
func (set IDSet) Contains(identifier string) bool {
	_, member := set[identifier]
	return member
}

// Sorted returns the members in lexicographic order.
func (set IDSet) Sorted() []string {
	members := make([]string, 0, len(set))
	for identifier := range set {
		members = append(members, identifier)
	}
	sort.Strings(members)
	return members
}

// Dataset is the assembled graph: a deduplicated node array plus a flat edge
// array. It is the payload the viewer fetches and the input every engine
// caller pre-filters.
type Dataset struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByID returns the node carrying the id, if any.
func (dataset Dataset) NodeByID(identifier string) (Node, bool) {
	for _, node := range dataset.Nodes {
		if node.ID == identifier {
			return node, true
		}
	}
	return Node{}, false
}

// EdgesOfKind returns the edges matching any of the provided kinds. Callers
// filtering to influence-only pass the result to the traversal operations;
// the engine itself never inspects edge kinds.
func (dataset Dataset) EdgesOfKind(kinds ...EdgeKind) []Edge {
	if len(kinds) == 0 {
		return dataset.Edges
	}
	var filtered []Edge
	for _, edge := range dataset.Edges {
		for _, kind := range kinds {
			if edge.Kind == kind {
				filtered = append(filtered, edge)
				break
			}
		}
	}
	return filtered
}

// ConnectedIDs returns every id appearing as an endpoint of any edge.
func (dataset Dataset) ConnectedIDs() IDSet {
	connected := make(IDSet, len(dataset.Nodes))
	for _, edge := range dataset.Edges {
		connected.Add(edge.Source)
		connected.Add(edge.Target)
	}
	return connected
}

// Induced returns the subgraph spanned by the id set: the nodes whose ids
// are members, in the dataset's node order, plus the edges whose endpoints
// are both members. Ids without a node record are dropped here, which is how
// dangling neighborhood members are reconciled before rendering.
func (dataset Dataset) Induced(identifiers IDSet) Dataset {
	induced := Dataset{}
	for _, node := range dataset.Nodes {
		if identifiers.Contains(node.ID) {
			induced.Nodes = append(induced.Nodes, node)
		}
	}
	for _, edge := range dataset.Edges {
		if identifiers.Contains(edge.Source) && identifiers.Contains(edge.Target) {
			induced.Edges = append(induced.Edges, edge)
		}
	}
	return induced
}
