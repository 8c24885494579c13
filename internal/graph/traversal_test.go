package graph_test

import (
	"reflect"
	"testing"

	"github.com/pioneerwiki/lineage/internal/graph"
)

// chainHeadID starts the sample influence chain.
const chainHeadID = "a"

// chainSecondID is the second link of the sample chain.
const chainSecondID = "b"

// chainThirdID is the third link of the sample chain.
const chainThirdID = "c"

// chainTailID ends the sample chain.
const chainTailID = "d"

// branchID hangs off the chain head through an affiliation edge.
const branchID = "e"

// isolatedID appears in no edge.
const isolatedID = "z"

// sampleEdges returns a chain a->b->c->d of influence edges plus an
// affiliation branch a->e.
func sampleEdges() []graph.Edge {
	return []graph.Edge{
		{Source: chainHeadID, Target: chainSecondID, Kind: graph.EdgeKindInfluence, Label: "mentored"},
		{Source: chainSecondID, Target: chainThirdID, Kind: graph.EdgeKindInfluence, Label: "influenced"},
		{Source: chainThirdID, Target: chainTailID, Kind: graph.EdgeKindInfluence, Label: "inspired"},
		{Source: chainHeadID, Target: branchID, Kind: graph.EdgeKindAffiliation, Label: "worked at"},
	}
}

// TestNeighborhoodHopBounds verifies the hop-bounded reach from several
// starting points of the sample graph.
func TestNeighborhoodHopBounds(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		startID  string
		maxHops  int
		expected []string
	}{
		{
			testName: "zero hops is the start alone",
			startID:  chainHeadID,
			maxHops:  0,
			expected: []string{chainHeadID},
		},
		{
			testName: "one hop from the head",
			startID:  chainHeadID,
			maxHops:  1,
			expected: []string{chainHeadID, chainSecondID, branchID},
		},
		{
			testName: "two hops from the head",
			startID:  chainHeadID,
			maxHops:  2,
			expected: []string{chainHeadID, chainSecondID, chainThirdID, branchID},
		},
		{
			testName: "three hops from the head",
			startID:  chainHeadID,
			maxHops:  3,
			expected: []string{chainHeadID, chainSecondID, chainThirdID, chainTailID, branchID},
		},
		{
			testName: "hops beyond the diameter change nothing",
			startID:  chainHeadID,
			maxHops:  10,
			expected: []string{chainHeadID, chainSecondID, chainThirdID, chainTailID, branchID},
		},
		{
			testName: "negative hops clamp to the start alone",
			startID:  chainHeadID,
			maxHops:  -1,
			expected: []string{chainHeadID},
		},
		{
			testName: "isolated start stays alone",
			startID:  isolatedID,
			maxHops:  4,
			expected: []string{isolatedID},
		},
	}
	for index, testCase := range testCases {
		actual := graph.Neighborhood(testCase.startID, testCase.maxHops, sampleEdges()).Sorted()
		expected := graph.NewIDSet(testCase.expected...).Sorted()
		if !reflect.DeepEqual(actual, expected) {
			testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, expected, actual)
		}
	}
}

// TestNeighborhoodEmptyEdgeList verifies that traversal over no edges returns
// the start alone for any hop count.
func TestNeighborhoodEmptyEdgeList(testingInstance *testing.T) {
	for _, maxHops := range []int{0, 1, 3, 100} {
		actual := graph.Neighborhood(chainHeadID, maxHops, nil)
		if len(actual) != 1 || !actual.Contains(chainHeadID) {
			testingInstance.Errorf("maxHops %d: expected singleton {%s}, got %v", maxHops, chainHeadID, actual.Sorted())
		}
	}
}

// TestNeighborhoodMonotonicity verifies that raising the hop bound never
// shrinks the result.
func TestNeighborhoodMonotonicity(testingInstance *testing.T) {
	for _, startID := range []string{chainHeadID, chainThirdID, branchID, isolatedID} {
		previous := graph.Neighborhood(startID, 0, sampleEdges())
		for maxHops := 1; maxHops <= 6; maxHops++ {
			current := graph.Neighborhood(startID, maxHops, sampleEdges())
			for member := range previous {
				if !current.Contains(member) {
					testingInstance.Errorf("start %s: member %s present at %d hops but missing at %d", startID, member, maxHops-1, maxHops)
				}
			}
			previous = current
		}
	}
}

// TestNeighborhoodCycleTermination verifies that a cyclic edge list
// terminates and collects each member once.
func TestNeighborhoodCycleTermination(testingInstance *testing.T) {
	cycleEdges := []graph.Edge{
		{Source: chainHeadID, Target: chainSecondID, Kind: graph.EdgeKindInfluence},
		{Source: chainSecondID, Target: chainThirdID, Kind: graph.EdgeKindInfluence},
		{Source: chainThirdID, Target: chainHeadID, Kind: graph.EdgeKindInfluence},
	}
	actual := graph.Neighborhood(chainHeadID, 5, cycleEdges).Sorted()
	expected := []string{chainHeadID, chainSecondID, chainThirdID}
	if !reflect.DeepEqual(actual, expected) {
		testingInstance.Errorf("expected %v, got %v", expected, actual)
	}
}

// TestNeighborhoodSelfLoop verifies that a self-loop neither recurs nor
// inflates the result.
func TestNeighborhoodSelfLoop(testingInstance *testing.T) {
	loopEdges := []graph.Edge{
		{Source: chainHeadID, Target: chainHeadID, Kind: graph.EdgeKindInfluence},
		{Source: chainHeadID, Target: chainSecondID, Kind: graph.EdgeKindInfluence},
	}
	actual := graph.Neighborhood(chainHeadID, 3, loopEdges).Sorted()
	expected := []string{chainHeadID, chainSecondID}
	if !reflect.DeepEqual(actual, expected) {
		testingInstance.Errorf("expected %v, got %v", expected, actual)
	}
}

// TestNeighborhoodTraversesBothDirections verifies that a directed edge is
// walkable from either endpoint, so a mid-chain start reaches predecessors
// and successors alike.
func TestNeighborhoodTraversesBothDirections(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		maxHops  int
		expected []string
	}{
		{
			testName: "one hop reaches both sides",
			maxHops:  1,
			expected: []string{chainSecondID, chainThirdID, chainTailID},
		},
		{
			testName: "two hops reach the head",
			maxHops:  2,
			expected: []string{chainHeadID, chainSecondID, chainThirdID, chainTailID},
		},
		{
			testName: "three hops reach the branch",
			maxHops:  3,
			expected: []string{chainHeadID, chainSecondID, chainThirdID, chainTailID, branchID},
		},
	}
	for index, testCase := range testCases {
		actual := graph.Neighborhood(chainThirdID, testCase.maxHops, sampleEdges()).Sorted()
		expected := graph.NewIDSet(testCase.expected...).Sorted()
		if !reflect.DeepEqual(actual, expected) {
			testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, expected, actual)
		}
	}
}

// TestNeighborhoodParallelAndDanglingEdges verifies that duplicate edges are
// harmless and dangling endpoint ids join the result without error.
func TestNeighborhoodParallelAndDanglingEdges(testingInstance *testing.T) {
	edges := []graph.Edge{
		{Source: chainHeadID, Target: chainSecondID, Kind: graph.EdgeKindInfluence},
		{Source: chainSecondID, Target: chainHeadID, Kind: graph.EdgeKindAffiliation},
		{Source: chainSecondID, Target: "ghost", Kind: graph.EdgeKindInfluence},
	}
	actual := graph.Neighborhood(chainHeadID, 2, edges).Sorted()
	expected := []string{chainHeadID, chainSecondID, "ghost"}
	if !reflect.DeepEqual(actual, graph.NewIDSet(expected...).Sorted()) {
		testingInstance.Errorf("expected %v, got %v", expected, actual)
	}
}

// TestDirectNeighborsMatchesSingleHop verifies the convenience form against
// the general traversal at one hop for every id the fixtures mention.
func TestDirectNeighborsMatchesSingleHop(testingInstance *testing.T) {
	identifiers := []string{chainHeadID, chainSecondID, chainThirdID, chainTailID, branchID, isolatedID, "ghost"}
	for _, identifier := range identifiers {
		direct := graph.DirectNeighbors(identifier, sampleEdges()).Sorted()
		traversed := graph.Neighborhood(identifier, 1, sampleEdges()).Sorted()
		if !reflect.DeepEqual(direct, traversed) {
			testingInstance.Errorf("id %s: direct neighbors %v differ from one-hop traversal %v", identifier, direct, traversed)
		}
	}
}
