package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("es client: %v", err)
	}
	return es, &calls
}

func TestSyncIndexesPublishedAndRemovesDrafts(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	idx := NewBlogIndex(es, "blogs")
	ctx := context.Background()
	now := time.Now()

	published := &entity.Blog{ID: 7, Title: "Hello", Content: "World", AuthorName: "Ann", IsPublished: true, CreatedAt: now, UpdatedAt: now}
	if err := idx.Sync(ctx, published); err != nil {
		t.Fatalf("sync published: %v", err)
	}
	draft := &entity.Blog{ID: 8, Title: "Draft"}
	if err := idx.Sync(ctx, draft); err != nil {
		t.Fatalf("sync draft (missing doc) should not fail: %v", err)
	}

	if len(*calls) != 2 {
		t.Fatalf("calls = %+v", *calls)
	}
	first := (*calls)[0]
	if first.Method != http.MethodPut || first.Path != "/blogs/_doc/7" {
		t.Fatalf("index call = %+v", first)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(first.Body), &doc); err != nil || doc["title"] != "Hello" {
		t.Fatalf("indexed doc = %s (%v)", first.Body, err)
	}
	second := (*calls)[1]
	if second.Method != http.MethodDelete || second.Path != "/blogs/_doc/8" {
		t.Fatalf("delete call = %+v", second)
	}
}

func TestSearchReturnsIDs(t *testing.T) {
	es, calls := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":3}},{"_source":{"id":1}}]}}`))
	})
	ids, err := NewBlogIndex(es, "blogs").Search(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Fatalf("ids = %v", ids)
	}
	call := (*calls)[0]
	if call.Path != "/blogs/_search" || !strings.Contains(call.Body, `"golang"`) {
		t.Fatalf("search call = %+v", call)
	}
}

func TestSearchMissingIndexIsEmpty(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
	})
	ids, err := NewBlogIndex(es, "blogs").Search(context.Background(), "x", 5)
	if err != nil || len(ids) != 0 {
		t.Fatalf("ids=%v err=%v", ids, err)
	}
}
