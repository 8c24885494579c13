package graph

// Neighborhood returns the set of node ids within maxHops undirected hops of
// startID, startID included. Every edge is traversable in both directions
// regardless of its source/target orientation; edge kind, label, and year are
// ignored. A maxHops of zero or less, an empty edge list, or a startID absent
// from every edge all yield the singleton set {startID}. The visited set makes
// the walk cycle and self-loop safe, and dangling endpoint ids become members
// like any other id.
func Neighborhood(startID string, maxHops int, edges []Edge) IDSet {
	visited := IDSet{startID: {}}
	if maxHops <= 0 || len(edges) == 0 {
		return visited
	}
	adjacency := buildAdjacency(edges)
	frontier := []string{startID}
	for depth := 0; depth < maxHops; depth++ {
		var next []string
		for _, nodeID := range frontier {
			for neighborID := range adjacency[nodeID] {
				if visited.Contains(neighborID) {
					continue
				}
				visited.Add(neighborID)
				next = append(next, neighborID)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return visited
}

// DirectNeighbors returns the ids sharing an edge with nodeID, nodeID
// included. The result equals Neighborhood(nodeID, 1, edges) by definition;
// this form exists as a single-pass shortcut for the common 1-hop case.
func DirectNeighbors(nodeID string, edges []Edge) IDSet {
	neighbors := IDSet{nodeID: {}}
	for _, edge := range edges {
		if edge.Source == nodeID {
			neighbors.Add(edge.Target)
		}
		if edge.Target == nodeID {
			neighbors.Add(edge.Source)
		}
	}
	return neighbors
}

func buildAdjacency(edges []Edge) map[string]map[string]struct{} {
	adjacency := make(map[string]map[string]struct{}, 2*len(edges))
	for _, edge := range edges {
		addAdjacent(adjacency, edge.Source, edge.Target)
		addAdjacent(adjacency, edge.Target, edge.Source)
	}
	return adjacency
}

func addAdjacent(adjacency map[string]map[string]struct{}, fromID string, toID string) {
	neighbors, known := adjacency[fromID]
	if !known {
		neighbors = make(map[string]struct{})
		adjacency[fromID] = neighbors
	}
	neighbors[toID] = struct{}{}
}
