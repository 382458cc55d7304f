package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const defaultLimit = 20

// Params configures a search.
type Params struct {
	Query string
	// Tags restricts hits to videos carrying every listed canonical name.
	Tags  []string
	Limit int
}

// Hit is one matching video.
type Hit struct {
	VideoID    string   `json:"video_id"`
	Score      float64  `json:"score"`
	Title      string   `json:"title"`
	UploadDate string   `json:"upload_date,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Highlight  string   `json:"highlight,omitempty"`
}

// Result is a page of hits.
type Result struct {
	Query string `json:"query"`
	Total uint64 `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Search runs params against the index, best match first.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	req := bleve.NewSearchRequestOptions(buildQuery(params), limit, 0, false)
	req.Fields = []string{"title", "upload_date", "tags"}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("title")
	req.SortBy([]string{"-_score", "_id"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{Query: params.Query, Total: res.Total, Hits: make([]Hit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		hit := Hit{VideoID: h.ID, Score: h.Score}
		if t, ok := h.Fields["title"].(string); ok {
			hit.Title = t
		}
		if d, ok := h.Fields["upload_date"].(string); ok {
			hit.UploadDate = d
		}
		hit.Tags = storedStrings(h.Fields["tags"])
		if fragments := h.Fragments["title"]; len(fragments) > 0 {
			hit.Highlight = fragments[0]
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

func buildQuery(params Params) query.Query {
	var queries []query.Query

	if text := strings.TrimSpace(params.Query); text != "" {
		titleMatch := bleve.NewMatchQuery(text)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		tagMatch := bleve.NewMatchQuery(text)
		tagMatch.SetField("tag_text")
		tagMatch.SetBoost(2.0)

		descMatch := bleve.NewMatchQuery(text)
		descMatch.SetField("description")

		textQueries := []query.Query{titleMatch, tagMatch, descMatch}
		// Typo tolerance for single words only.
		if !strings.ContainsAny(text, " \t") {
			fuzzy := bleve.NewFuzzyQuery(strings.ToLower(text))
			fuzzy.SetField("title")
			fuzzy.SetFuzziness(1)
			fuzzy.SetBoost(0.5)
			textQueries = append(textQueries, fuzzy)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	for _, tag := range params.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tq := bleve.NewTermQuery(tag)
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

// storedStrings normalises a stored field, which bleve returns as a string
// for one value and a slice for several.
func storedStrings(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
