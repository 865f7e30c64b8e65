package cache

import (
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "id lookup",
			key: Key{
				Entity:    "Film",
				Operation: "get_by_id",
				Params: []Param{
					{Name: "entity_id", Value: "f47ac10b"},
				},
			},
			want: "Film:get_by_id:entity_id=f47ac10b",
		},
		{
			name: "list with full parameter set",
			key: Key{
				Entity:    "Film",
				Operation: "get_list",
				Params: []Param{
					{Name: "sort", Value: "-imdb_rating"},
					{Name: "page_size", Value: "50"},
					{Name: "page_number", Value: "1"},
					{Name: "genre_id", Value: "g1"},
				},
			},
			want: "Film:get_list:sort=-imdb_rating:page_size=50:page_number=1:genre_id=g1",
		},
		{
			name: "absent optional filter is omitted",
			key: Key{
				Entity:    "Film",
				Operation: "get_list",
				Params: []Param{
					{Name: "sort", Value: "-imdb_rating"},
					{Name: "page_size", Value: "50"},
					{Name: "page_number", Value: "1"},
					{Name: "genre_id", Value: ""},
				},
			},
			want: "Film:get_list:sort=-imdb_rating:page_size=50:page_number=1",
		},
		{
			name: "search embeds the query text",
			key: Key{
				Entity:    "Person",
				Operation: "get_search_result",
				Params: []Param{
					{Name: "query", Value: "george lucas"},
					{Name: "page_size", Value: "50"},
					{Name: "page_number", Value: "2"},
				},
			},
			want: "Person:get_search_result:query=george lucas:page_size=50:page_number=2",
		},
		{
			name: "no params",
			key: Key{
				Entity:    "Genre",
				Operation: "get_list",
			},
			want: "Genre:get_list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("Key.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKey_Determinism ensures same input always produces same key.
func TestKey_Determinism(t *testing.T) {
	key := Key{
		Entity:    "Film",
		Operation: "get_list",
		Params: []Param{
			{Name: "sort", Value: "-imdb_rating"},
			{Name: "page_size", Value: "50"},
			{Name: "page_number", Value: "1"},
			{Name: "genre_id", Value: "g1"},
		},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Fatalf("iteration %d: Key.String() = %v, want %v (not deterministic)", i, got, first)
		}
	}
}

// TestKey_Distinctness ensures parameter sets differing in any non-empty
// field derive distinct keys.
func TestKey_Distinctness(t *testing.T) {
	base := func() Key {
		return Key{
			Entity:    "Film",
			Operation: "get_list",
			Params: []Param{
				{Name: "sort", Value: "-imdb_rating"},
				{Name: "page_size", Value: "50"},
				{Name: "page_number", Value: "1"},
				{Name: "genre_id", Value: ""},
			},
		}
	}

	variants := map[string]func(k *Key){
		"different entity":    func(k *Key) { k.Entity = "Genre" },
		"different operation": func(k *Key) { k.Operation = "get_search_result" },
		"different sort":      func(k *Key) { k.Params[0].Value = "imdb_rating" },
		"different page size": func(k *Key) { k.Params[1].Value = "10" },
		"different page":      func(k *Key) { k.Params[2].Value = "2" },
		"genre filter set":    func(k *Key) { k.Params[3].Value = "g1" },
	}

	baseKey := base().String()
	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			k := base()
			mutate(&k)
			if got := k.String(); got == baseKey {
				t.Errorf("mutated key %q collides with base key", got)
			}
		})
	}
}
