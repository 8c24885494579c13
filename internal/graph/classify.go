package graph

import "strings"

// Classification is the result of mapping a relationship label onto an edge
// kind. Recognized is false when the label is outside the authoring
// vocabulary and the kind is the conservative default; whether and how to
// surface that as a warning is the caller's decision.
type Classification struct {
	Kind       EdgeKind
	Recognized bool
}

// labelKinds is the authoring vocabulary for relationship labels. Influence
// covers intellectual lineage and creation; affiliation covers institutional
// and social ties.
var labelKinds = map[string]EdgeKind{
	"influenced":   EdgeKindInfluence,
	"inspired":     EdgeKindInfluence,
	"mentored":     EdgeKindInfluence,
	"advised":      EdgeKindInfluence,
	"taught":       EdgeKindInfluence,
	"created":      EdgeKindInfluence,
	"invented":     EdgeKindInfluence,
	"designed":     EdgeKindInfluence,
	"authored":     EdgeKindInfluence,
	"developed":    EdgeKindInfluence,
	"built":        EdgeKindInfluence,
	"proved":       EdgeKindInfluence,
	"founded":      EdgeKindAffiliation,
	"worked at":    EdgeKindAffiliation,
	"studied at":   EdgeKindAffiliation,
	"member of":    EdgeKindAffiliation,
	"employed by":  EdgeKindAffiliation,
	"colleague of": EdgeKindAffiliation,
	"collaborated": EdgeKindAffiliation,
	"funded":       EdgeKindAffiliation,
	"hosted":       EdgeKindAffiliation,
}

// ClassifyLabel maps a free-text relationship label onto an edge kind.
// Matching is case-insensitive and ignores surrounding whitespace.
// Unrecognized labels classify as influence with Recognized false.
func ClassifyLabel(label string) Classification {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if kind, known := labelKinds[normalized]; known {
		return Classification{Kind: kind, Recognized: true}
	}
	return Classification{Kind: EdgeKindInfluence}
}

// RecognizedLabels returns the authoring vocabulary in lexicographic order.
func RecognizedLabels() []string {
	labels := NewIDSet()
	for label := range labelKinds {
		labels.Add(label)
	}
	return labels.Sorted()
}
