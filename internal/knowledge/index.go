// Package knowledge provides a Bleve index over local guidance notes used
// to attach regulation citations to consultation replies.
package knowledge

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// guidanceDoc is the indexed shape of one guidance note.
type guidanceDoc struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Index wraps a Bleve index of guidance notes.
type Index struct {
	index bleve.Index
}

// NewIndex creates or opens a Bleve index at path. An existing index is
// reused; remove the directory to force a rebuild after mapping changes.
func NewIndex(path string) (*Index, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so exact
	// regulation terms like "Zs" and "RCD" match as typed.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	im.AddDocumentMapping("guidance", docMapping)
	im.DefaultType = "guidance"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open guidance index: %w", openErr)
		}
		return &Index{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create guidance index: %w", err)
	}
	return &Index{index: index}, nil
}

// NewMemIndex creates an in-memory index, used by tests and when no index
// path is configured.
func NewMemIndex() (*Index, error) {
	im := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory guidance index: %w", err)
	}
	return &Index{index: index}, nil
}

// IndexGuidance walks dir and indexes every markdown and text file found.
// The file path relative to dir becomes the document ID and title.
func (x *Index) IndexGuidance(ctx context.Context, dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read guidance file %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		if err := x.Add(rel, rel, string(content)); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// Add indexes one guidance note.
func (x *Index) Add(id, title, content string) error {
	return x.index.Index(id, &guidanceDoc{Title: title, Content: content})
}

// SearchResult is one guidance hit with a snippet for citation use.
type SearchResult struct {
	Source  string
	Snippet string
	Score   float64
}

const snippetLen = 240

// Search runs a match query and returns up to limit hits with content
// snippets.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"title", "content"}
	results, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("guidance search failed: %w", err)
	}
	out := make([]SearchResult, 0, len(results.Hits))
	for _, hit := range results.Hits {
		r := SearchResult{Source: hit.ID, Score: hit.Score}
		if content, ok := hit.Fields["content"].(string); ok {
			r.Snippet = snippet(content)
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount returns the number of indexed guidance notes.
func (x *Index) DocCount() (uint64, error) {
	return x.index.DocCount()
}

// Close closes the underlying index.
func (x *Index) Close() error {
	return x.index.Close()
}

func snippet(content string) string {
	s := strings.Join(strings.Fields(content), " ")
	if len(s) <= snippetLen {
		return s
	}
	return s[:snippetLen] + "..."
}
