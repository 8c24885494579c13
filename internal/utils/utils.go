// Package utils contains general helper functions used across the lineage tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Slugify converts an arbitrary display name into a lower-case identifier made
// of alphanumeric runs separated by single hyphens. Characters outside the
// ASCII letter and digit ranges become separators, consecutive separators
// collapse, and leading or trailing separators are trimmed.
func Slugify(value string) string {
	var builder strings.Builder
	previousWasSeparator := true
	for _, character := range strings.ToLower(value) {
		isAlphanumeric := (character >= 'a' && character <= 'z') || (character >= '0' && character <= '9')
		if isAlphanumeric {
			builder.WriteRune(character)
			previousWasSeparator = false
			continue
		}
		if !previousWasSeparator {
			builder.WriteByte('-')
			previousWasSeparator = true
		}
	}
	return strings.TrimSuffix(builder.String(), "-")
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// DeduplicateStrings removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept.
func DeduplicateStrings(values []string) []string {
	encounteredValues := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := encounteredValues[value]; !exists {
			encounteredValues[value] = struct{}{}
			result = append(result, value)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}
