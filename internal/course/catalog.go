package course

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Catalog is catalog.json: course key ("CSCI-2300") → catalog entry. Keys keep
// the order in which they appear in the file.
type Catalog struct {
	keys    []string
	entries map[string]CatalogEntry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]CatalogEntry)}
}

// Add stores entry under key. Re-adding a key replaces its entry but keeps its
// original position.
func (c *Catalog) Add(key string, entry CatalogEntry) {
	if c.entries == nil {
		c.entries = make(map[string]CatalogEntry)
	}
	if _, ok := c.entries[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = entry
}

// Get returns the entry for key.
func (c *Catalog) Get(key string) (CatalogEntry, bool) {
	if c == nil {
		return CatalogEntry{}, false
	}
	e, ok := c.entries[key]
	return e, ok
}

// Keys returns the course keys in file order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return c.keys
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// UnmarshalJSON decodes a JSON object token by token so key order survives.
// null decodes to an empty catalog.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	*c = Catalog{entries: make(map[string]CatalogEntry)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog must be a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading catalog key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected catalog key %v", tok)
		}

		var entry CatalogEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("decoding catalog entry %q: %w", key, err)
		}
		c.Add(key, entry)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}
	return nil
}
