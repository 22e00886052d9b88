package namestore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// index maps names to digests. It is the in-memory Name Index; the
// persisted form is a flat JSON object.
type index struct {
	entries sync.Map // string -> Digest
	count   atomic.Int64
	dirty   atomic.Bool
}

func (i *index) Set(name string, digest Digest) {
	if _, loaded := i.entries.Swap(name, digest); !loaded {
		i.count.Add(1)
	}
	i.dirty.Store(true)
}

func (i *index) Get(name string) (Digest, bool) {
	v, ok := i.entries.Load(name)
	if !ok {
		return "", false
	}
	return v.(Digest), true
}

func (i *index) Len() int { return int(i.count.Load()) }

// Names returns every name, sorted.
func (i *index) Names() []string {
	var names []string
	i.entries.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Hash digests the whole mapping independent of insertion order.
// It is empty for an empty index.
func (i *index) Hash() Digest {
	var items []string
	i.entries.Range(func(k, v any) bool {
		items = append(items, k.(string)+"\x00"+string(v.(Digest)))
		return true
	})
	if len(items) == 0 {
		return ""
	}
	sort.Strings(items)
	h := sha256.Sum256([]byte(strings.Join(items, "\n")))
	return Digest(hex.EncodeToString(h[:]))
}

func (i *index) serialize() ([]byte, error) {
	m := make(map[string]string)
	i.entries.Range(func(k, v any) bool {
		m[k.(string)] = string(v.(Digest))
		return true
	})
	return json.Marshal(m)
}

// load parses a persisted index. Nothing is applied unless the whole
// document is a string-to-string object. It returns the names whose value
// is not a digest; those are skipped.
func (i *index) load(data []byte) (skipped []string, err error) {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		d := Digest(v)
		if !d.Valid() {
			skipped = append(skipped, k)
			continue
		}
		i.Set(k, d)
	}
	i.dirty.Store(false)
	sort.Strings(skipped)
	return skipped, nil
}
