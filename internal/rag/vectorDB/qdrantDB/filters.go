package qdrantDB

import (
	"github.com/qdrant/go-client/qdrant"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
)

// buildFilter maps the caller's metadata predicate onto qdrant conditions:
// exact match on the stored filename, set-membership on the tag list.
func buildFilter(filter *docModel.SearchFilter) *qdrant.Filter {
	if filter.IsZero() {
		return nil
	}

	var must []*qdrant.Condition
	if filter.PDFName != "" {
		must = append(must, qdrant.NewMatch("pdf_name", filter.PDFName))
	}
	if len(filter.Tags) > 0 {
		must = append(must, qdrant.NewMatchKeywords("tag_list", filter.Tags...))
	}
	return &qdrant.Filter{Must: must}
}
