// Package testutil provides testing utilities for the query gateway.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
)

// MockIndex is a fake document search index speaking enough of the
// Elasticsearch wire protocol for the gateway: document get, search with
// match_all / nested filters / multi_match, sorting and pagination.
type MockIndex struct {
	server *httptest.Server
	mu     sync.RWMutex

	// docs maps index name -> ordered documents (insertion order).
	docs map[string][]mockDoc

	// Tracking
	RequestCount int
	SearchCount  int
	GetCount     int

	// FailAll makes every request answer 500, for outage tests.
	FailAll bool
}

type mockDoc struct {
	id     string
	raw    json.RawMessage
	fields map[string]any
}

// NewMockIndex creates and starts a fake index server.
func NewMockIndex() *MockIndex {
	m := &MockIndex{
		docs: make(map[string][]mockDoc),
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.route))
	return m
}

// URL returns the mock server URL.
func (m *MockIndex) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockIndex) Close() {
	m.server.Close()
}

// AddDoc stores a document under index/id. doc must marshal to a JSON
// object.
func (m *MockIndex) AddDoc(index, id string, doc any) {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("mock index: marshal doc: %v", err))
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		panic(fmt.Sprintf("mock index: doc is not an object: %v", err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[index] = append(m.docs[index], mockDoc{id: id, raw: raw, fields: fields})
}

// Reset clears tracking counters.
func (m *MockIndex) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.SearchCount = 0
	m.GetCount = 0
}

// Requests returns the total number of requests served.
func (m *MockIndex) Requests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// Searches returns the number of search requests served.
func (m *MockIndex) Searches() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.SearchCount
}

func (m *MockIndex) route(w http.ResponseWriter, r *http.Request) {
	// The official client refuses to talk to anything that does not
	// identify as Elasticsearch.
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	m.mu.Lock()
	m.RequestCount++
	fail := m.FailAll
	m.mu.Unlock()

	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"mock outage"}`)
		return
	}

	if r.Method == http.MethodHead || r.URL.Path == "/" {
		w.WriteHeader(http.StatusOK)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 3 && parts[1] == "_doc":
		m.handleGet(w, parts[0], parts[2])
	case len(parts) == 2 && parts[1] == "_search":
		m.handleSearch(w, r, parts[0])
	default:
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"error":"unsupported path %s"}`, r.URL.Path)
	}
}

func (m *MockIndex) handleGet(w http.ResponseWriter, index, id string) {
	m.mu.Lock()
	m.GetCount++
	docs := m.docs[index]
	m.mu.Unlock()

	for _, d := range docs {
		if d.id == id {
			fmt.Fprintf(w, `{"_index":%q,"_id":%q,"found":true,"_source":%s}`, index, id, d.raw)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, `{"_index":%q,"_id":%q,"found":false}`, index, id)
}

type searchBody struct {
	Size  int              `json:"size"`
	From  int              `json:"from"`
	Sort  []map[string]any `json:"sort"`
	Query map[string]any   `json:"query"`
}

func (m *MockIndex) handleSearch(w http.ResponseWriter, r *http.Request, index string) {
	m.mu.Lock()
	m.SearchCount++
	docs := append([]mockDoc(nil), m.docs[index]...)
	m.mu.Unlock()

	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"error":"bad body: %v"}`, err)
		return
	}

	matched := make([]mockDoc, 0, len(docs))
	for _, d := range docs {
		if matchesQuery(d.fields, body.Query) {
			matched = append(matched, d)
		}
	}

	applyMockSort(matched, body.Sort)

	// Pagination window.
	if body.From > len(matched) {
		matched = nil
	} else {
		matched = matched[body.From:]
	}
	if body.Size > 0 && body.Size < len(matched) {
		matched = matched[:body.Size]
	}

	hits := make([]string, 0, len(matched))
	for _, d := range matched {
		hits = append(hits, fmt.Sprintf(`{"_index":%q,"_id":%q,"_source":%s}`, index, d.id, d.raw))
	}
	fmt.Fprintf(w, `{"hits":{"total":{"value":%d},"hits":[%s]}}`, len(hits), strings.Join(hits, ","))
}

// matchesQuery evaluates the small query subset the gateway composes.
func matchesQuery(fields map[string]any, query map[string]any) bool {
	if query == nil {
		return true
	}
	if _, ok := query["match_all"]; ok {
		return true
	}
	if mm, ok := query["multi_match"].(map[string]any); ok {
		return matchesMultiMatch(fields, mm)
	}
	if b, ok := query["bool"].(map[string]any); ok {
		if filters, ok := b["filter"].([]any); ok {
			for _, f := range filters {
				if !matchesClause(fields, f) {
					return false
				}
			}
			return true
		}
		if should, ok := b["should"].([]any); ok {
			for _, s := range should {
				if matchesClause(fields, s) {
					return true
				}
			}
			return false
		}
	}
	return false
}

func matchesClause(fields map[string]any, clause any) bool {
	c, ok := clause.(map[string]any)
	if !ok {
		return false
	}
	if nested, ok := c["nested"].(map[string]any); ok {
		return matchesNested(fields, nested)
	}
	if term, ok := c["term"].(map[string]any); ok {
		return matchesTerm(fields, term)
	}
	return false
}

// matchesNested checks a nested term query against the array of objects
// stored under the nested path.
func matchesNested(fields map[string]any, nested map[string]any) bool {
	path, _ := nested["path"].(string)
	query, _ := nested["query"].(map[string]any)

	term := findTerm(query)
	if term == nil {
		return false
	}

	items, _ := fields[path].([]any)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for field, want := range term {
			// field is "path.inner", e.g. "genre.id"
			inner := strings.TrimPrefix(field, path+".")
			if obj[inner] == want {
				return true
			}
		}
	}
	return false
}

// findTerm digs a term clause out of a (possibly bool/filter-wrapped)
// nested query.
func findTerm(query map[string]any) map[string]any {
	if query == nil {
		return nil
	}
	if term, ok := query["term"].(map[string]any); ok {
		return term
	}
	if b, ok := query["bool"].(map[string]any); ok {
		if filters, ok := b["filter"].([]any); ok {
			for _, f := range filters {
				if c, ok := f.(map[string]any); ok {
					if term, ok := c["term"].(map[string]any); ok {
						return term
					}
				}
			}
		}
	}
	return nil
}

func matchesTerm(fields map[string]any, term map[string]any) bool {
	for field, want := range term {
		if fields[field] != want {
			return false
		}
	}
	return true
}

// matchesMultiMatch does a case-insensitive AND-of-terms containment
// check over the requested fields, boost suffixes stripped. Close enough
// to a fuzzy multi_match for routing tests.
func matchesMultiMatch(fields map[string]any, mm map[string]any) bool {
	text, _ := mm["query"].(string)
	rawFields, _ := mm["fields"].([]any)

	var haystack strings.Builder
	for _, rf := range rawFields {
		name, _ := rf.(string)
		name, _, _ = strings.Cut(name, "^")
		if v, ok := fields[name].(string); ok {
			haystack.WriteString(strings.ToLower(v))
			haystack.WriteString(" ")
		}
	}

	hs := haystack.String()
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if !strings.Contains(hs, word) {
			return false
		}
	}
	return true
}

func applyMockSort(docs []mockDoc, sortSpec []map[string]any) {
	if len(sortSpec) == 0 {
		return
	}
	var field string
	desc := false
	for f, spec := range sortSpec[0] {
		field = f
		if opts, ok := spec.(map[string]any); ok {
			desc = opts["order"] == "desc"
		}
	}
	if field == "" {
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		less := lessValues(docs[i].fields[field], docs[j].fields[field])
		if desc {
			return !less && !equalValues(docs[i].fields[field], docs[j].fields[field])
		}
		return less
	})
}

func lessValues(a, b any) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return as < bs
}

func equalValues(a, b any) bool {
	return a == b
}
