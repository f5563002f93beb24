package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// BlogIndex keeps published blog posts searchable in Elasticsearch.
type BlogIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewBlogIndex(es *elasticsearch.Client, index string) *BlogIndex {
	return &BlogIndex{ES: es, Index: index}
}

type blogDoc struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	Content    string `json:"content"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Sync indexes b when it is published and removes it from the index otherwise.
func (x *BlogIndex) Sync(ctx context.Context, b *entity.Blog) error {
	if !b.IsPublished {
		return x.Remove(ctx, b.ID)
	}
	doc := blogDoc{
		ID:         b.ID,
		Title:      b.Title,
		Content:    b.Content,
		AuthorName: b.AuthorName,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:  b.UpdatedAt.Format(time.RFC3339Nano),
	}
	if b.Subtitle != nil {
		doc.Subtitle = *b.Subtitle
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(b.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index blog %d: %s", b.ID, res.Status())
	}
	return nil
}

// Remove deletes the document for id; a missing document is not an error.
func (x *BlogIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete blog %d from index: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over title, subtitle, content and author and returns
// matching blog ids by relevance.
func (x *BlogIndex) Search(ctx context.Context, q string, size int) ([]int64, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "subtitle^2", "content", "author_name"},
			},
		},
		"_source": []string{"id"},
		"size":    size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		if res.StatusCode == 404 {
			return []int64{}, nil
		}
		return nil, fmt.Errorf("search blogs: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source blogDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.ID)
	}
	return out, nil
}
