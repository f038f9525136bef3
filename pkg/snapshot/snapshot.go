// Package snapshot renders a tree into a fresh document and stores the
// serialized HTML.
//
// Snapshots are keyed as <prefix><name>.html. Two stores are provided:
// MemoryStore for tests and local runs, and S3Store for durable storage.
//
//	store := snapshot.NewS3Store(client, "my-bucket", "snapshots/")
//	key, err := snapshot.Take(ctx, store, "home", tree)
package snapshot

import (
	"context"
	"strings"
	"sync"

	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/host/htmldoc"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

// Store persists rendered HTML.
type Store interface {
	// Put stores html under name and returns the full key.
	Put(ctx context.Context, name string, html []byte) (string, error)

	// Get returns the HTML stored under name.
	Get(ctx context.Context, name string) ([]byte, error)
}

// Key returns the object key for a snapshot name.
func Key(prefix, name string) string {
	return prefix + name + ".html"
}

// ValidateName rejects names that would escape the prefix.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("E201").WithDetail("Snapshot name is empty.")
	case strings.HasPrefix(name, "/"), strings.Contains(name, ".."), strings.ContainsAny(name, "\\\x00"):
		return errors.New("E201").WithDetail("Snapshot name " + name + " is not a plain relative name.")
	}
	return nil
}

// Render mounts tree into a fresh document and returns the full document
// HTML.
func Render(tree *vdom.VNode, opts ...vdom.Option) ([]byte, error) {
	doc := htmldoc.New()
	r := vdom.NewRenderer(doc, opts...)
	if err := r.Render(tree, doc.Body()); err != nil {
		return nil, err
	}
	out, err := doc.HTML()
	if uerr := r.Unmount(doc.Body()); err == nil && uerr != nil {
		err = uerr
	}
	if err != nil {
		return nil, errors.New("E201").Wrap(err)
	}
	return []byte(out), nil
}

// Take renders tree and stores it under name.
func Take(ctx context.Context, store Store, name string, tree *vdom.VNode, opts ...vdom.Option) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	html, err := Render(tree, opts...)
	if err != nil {
		return "", err
	}
	return store.Put(ctx, name, html)
}

// MemoryStore keeps snapshots in memory.
type MemoryStore struct {
	prefix string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{
		prefix:  prefix,
		objects: make(map[string][]byte),
	}
}

// Put implements Store.
func (m *MemoryStore) Put(ctx context.Context, name string, html []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", errors.New("E201").Wrap(err)
	}
	key := Key(m.prefix, name)
	m.mu.Lock()
	m.objects[key] = append([]byte(nil), html...)
	m.mu.Unlock()
	return key, nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[Key(m.prefix, name)]
	if !ok {
		return nil, errors.New("E201").WithDetail("No snapshot named " + name + ".")
	}
	return append([]byte(nil), data...), nil
}

// Len returns the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
