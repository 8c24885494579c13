package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/graph"
)

// entrySlugRuleName is the struct-tag name of the id format rule.
const entrySlugRuleName = "entryslug"

// Validator runs every corpus check. Construction registers the custom id
// format rule with the struct validator.
type Validator struct {
	structValidator *validator.Validate
}

// New builds a Validator.
func New() (*Validator, error) {
	structValidator := validator.New()
	registerError := structValidator.RegisterValidation(entrySlugRuleName, func(fieldLevel validator.FieldLevel) bool {
		return content.IsValidSlug(fieldLevel.Field().String())
	})
	if registerError != nil {
		return nil, fmt.Errorf("registering %s rule: %w", entrySlugRuleName, registerError)
	}
	return &Validator{structValidator: structValidator}, nil
}

// Check runs all rules over the corpus and returns the collected report.
// Parse failures surface first, then per-entry schema and relationship
// checks in corpus order, then orphan detection over the assembled graph.
func (corpusValidator *Validator) Check(corpus *content.Corpus) *Report {
	report := &Report{EntryCount: len(corpus.Entries)}
	for _, failure := range corpus.Failures {
		report.addError(RuleParse, failure.Path, "", failure.Cause.Error())
	}

	knownIDs := make(map[string]string, len(corpus.Entries))
	packIDs := make(map[string]struct{})
	for _, entry := range corpus.Entries {
		identifier := entry.Frontmatter.ID
		if firstPath, seen := knownIDs[identifier]; seen {
			report.addError(RuleDuplicateID, entry.Path, identifier, fmt.Sprintf("id %s already used by %s", identifier, firstPath))
			continue
		}
		knownIDs[identifier] = entry.Path
		if entry.IsPack() {
			packIDs[identifier] = struct{}{}
			report.PackCount++
		}
	}

	for _, entry := range corpus.Entries {
		corpusValidator.checkSchema(report, entry)
		corpusValidator.checkRelations(report, entry, knownIDs)
		corpusValidator.checkMembers(report, entry, knownIDs, packIDs)
	}

	dataset, _ := content.Assemble(corpus)
	report.EdgeCount = len(dataset.Edges)
	connected := dataset.ConnectedIDs()
	for _, entry := range corpus.Entries {
		if entry.IsPack() {
			continue
		}
		if !connected.Contains(entry.Frontmatter.ID) {
			report.addWarning(RuleOrphan, entry.Path, entry.Frontmatter.ID, "entry participates in no relationship")
		}
	}
	return report
}

func (corpusValidator *Validator) checkSchema(report *Report, entry content.Entry) {
	identifier := entry.Frontmatter.ID
	structError := corpusValidator.structValidator.Struct(entry.Frontmatter)
	if structError != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(structError, &fieldErrors) {
			for _, fieldError := range fieldErrors {
				report.addError(RuleSchema, entry.Path, identifier, describeFieldError(fieldError))
			}
		} else {
			report.addError(RuleSchema, entry.Path, identifier, structError.Error())
		}
	}
	front := entry.Frontmatter
	if entry.IsPack() {
		if front.Kind != "" {
			report.addWarning(RuleKindMismatch, entry.Path, identifier, "packs carry no kind")
		}
		if len(front.Members) == 0 {
			report.addWarning(RulePackMember, entry.Path, identifier, "pack lists no members")
		}
	} else if front.Kind != expectedKind(entry.Collection) {
		report.addWarning(RuleKindMismatch, entry.Path, identifier, fmt.Sprintf("kind %s does not match the %s collection", front.Kind, entry.Collection))
	}
	if front.Born != 0 && front.Died != 0 && front.Died < front.Born {
		report.addError(RuleYearOrder, entry.Path, identifier, fmt.Sprintf("died %d precedes born %d", front.Died, front.Born))
	}
}

func (corpusValidator *Validator) checkRelations(report *Report, entry content.Entry, knownIDs map[string]string) {
	identifier := entry.Frontmatter.ID
	for _, relation := range entry.Frontmatter.Relations {
		if _, exists := knownIDs[relation.To]; !exists {
			report.addError(RuleMissingTarget, entry.Path, identifier, fmt.Sprintf("relation target %s does not match any entry", relation.To))
		}
		if relation.To == identifier {
			report.addWarning(RuleSelfRelation, entry.Path, identifier, "relation points back at its own entry")
		}
		if relation.Kind != "" {
			continue
		}
		if relation.Label == "" {
			report.addWarning(RuleUnknownLabel, entry.Path, identifier, fmt.Sprintf("relation to %s has neither label nor kind; defaulting to %s", relation.To, graph.EdgeKindInfluence))
			continue
		}
		if classification := graph.ClassifyLabel(relation.Label); !classification.Recognized {
			report.addWarning(RuleUnknownLabel, entry.Path, identifier, fmt.Sprintf("label %q is outside the relationship vocabulary; defaulting to %s", relation.Label, classification.Kind))
		}
	}
}

func (corpusValidator *Validator) checkMembers(report *Report, entry content.Entry, knownIDs map[string]string, packIDs map[string]struct{}) {
	if !entry.IsPack() {
		return
	}
	identifier := entry.Frontmatter.ID
	for _, member := range entry.Frontmatter.Members {
		if _, exists := knownIDs[member]; !exists {
			report.addError(RulePackMember, entry.Path, identifier, fmt.Sprintf("pack member %s does not match any entry", member))
			continue
		}
		if _, isPack := packIDs[member]; isPack {
			report.addWarning(RulePackMember, entry.Path, identifier, fmt.Sprintf("pack member %s is itself a pack", member))
		}
	}
}

// describeFieldError renders one struct validation failure with the field
// path relative to the frontmatter.
func describeFieldError(fieldError validator.FieldError) string {
	fieldPath := strings.TrimPrefix(fieldError.Namespace(), "Frontmatter.")
	description := fmt.Sprintf("%s fails rule %s", fieldPath, fieldError.Tag())
	if parameter := fieldError.Param(); parameter != "" {
		description += "=" + parameter
	}
	return description
}

func expectedKind(collection string) string {
	switch collection {
	case content.CollectionPeople:
		return string(graph.NodeKindPerson)
	case content.CollectionWorks:
		return string(graph.NodeKindWork)
	case content.CollectionInstitutions:
		return string(graph.NodeKindInstitution)
	}
	return ""
}
