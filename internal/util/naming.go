// Package util holds small helpers shared across packages.
package util

import (
	"fmt"
	"regexp"
	"strings"
)

var collectionNameRegexp = regexp.MustCompile("[^a-z0-9_-]+")

const maxCollectionNameLength = 255

// CollectionName derives the vector collection of a retrieval scope
// ("owner/repo"). The embedder model is part of the name so that vectors of
// different dimensions never share a collection.
func CollectionName(scope, embedderModel string) string {
	safeScope := strings.ToLower(strings.ReplaceAll(scope, "/", "-"))
	safeScope = collectionNameRegexp.ReplaceAllString(safeScope, "")

	// "nomic-embed-text:latest" and "nomic-embed-text" are the same model
	safeModel := strings.ToLower(strings.Split(embedderModel, ":")[0])
	safeModel = collectionNameRegexp.ReplaceAllString(safeModel, "")

	name := "repo-" + safeScope
	if safeModel != "" {
		name = fmt.Sprintf("%s-%s", name, safeModel)
	}
	if len(name) > maxCollectionNameLength {
		name = name[:maxCollectionNameLength]
	}
	return name
}
