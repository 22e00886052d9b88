package namestore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// StoreBatch stores every name→content pair in entries. Blobs are written
// in parallel; once all of them are on disk the index is updated and
// persisted a single time. If any blob write fails the index is left as it
// was.
func (s *Store) StoreBatch(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		if err := checkName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		mu      sync.Mutex
		digests = make(map[string]Digest, len(entries))
	)

	p := pool.New().WithMaxGoroutines(s.concurrency).WithContext(ctx).WithCancelOnError()
	for _, name := range names {
		name := name
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hash, created, err := s.blobs.Put(ctx, []byte(entries[name]))
			if err != nil {
				return fmt.Errorf("store %q: %w", name, err)
			}
			s.log.Debug("blob", "digest", Digest(hash).Short(), "created", created, "name", name)

			mu.Lock()
			digests[name] = Digest(hash)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		s.idx.Set(name, digests[name])
	}
	return s.persist()
}
