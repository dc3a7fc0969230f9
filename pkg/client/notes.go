package client

import (
	"context"
	"sort"
	"sync"
	"time"
)

const defaultPageSize = 10

type noteList struct {
	items      []Note
	page       int
	totalPages int
}

func (l *noteList) reset(p Page[Note]) {
	l.items = append([]Note(nil), p.Data...)
	l.page = p.Page
	l.totalPages = p.TotalPages
}

func (l *noteList) appendPage(p Page[Note]) {
	l.items = append(l.items, p.Data...)
	l.page = p.Page
	l.totalPages = p.TotalPages
}

func (l *noteList) hasMore() bool { return l.page < l.totalPages }

// Notes caches the caller's active and archived notes. Every mutation goes
// through the API and then reloads the first page of both lists.
// Operations are serialized; readers get copies.
type Notes struct {
	c        *Client
	pageSize int

	mu       sync.Mutex
	active   noteList
	archived noteList
	err      error
}

func NewNotes(c *Client, pageSize int) *Notes {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Notes{c: c, pageSize: pageSize}
}

func (n *Notes) Refetch(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.refetchLocked(ctx)
}

func (n *Notes) refetchLocked(ctx context.Context) error {
	act, err := n.c.ActiveNotes(ctx, 1, n.pageSize)
	if err != nil {
		n.err = err
		return err
	}
	arc, err := n.c.ArchivedNotes(ctx, 1, n.pageSize)
	if err != nil {
		n.err = err
		return err
	}
	n.active.reset(act)
	n.archived.reset(arc)
	n.err = nil
	return nil
}

func (n *Notes) LoadMoreActive(ctx context.Context) error {
	return n.loadMore(ctx, &n.active, n.c.ActiveNotes)
}

func (n *Notes) LoadMoreArchived(ctx context.Context) error {
	return n.loadMore(ctx, &n.archived, n.c.ArchivedNotes)
}

func (n *Notes) loadMore(ctx context.Context, l *noteList, fetch func(context.Context, int, int) (Page[Note], error)) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !l.hasMore() {
		return nil
	}
	p, err := fetch(ctx, l.page+1, n.pageSize)
	if err != nil {
		n.err = err
		return err
	}
	l.appendPage(p)
	n.err = nil
	return nil
}

func (n *Notes) HasMoreActive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active.hasMore()
}

func (n *Notes) HasMoreArchived() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.archived.hasMore()
}

func (n *Notes) Duplicate(ctx context.Context, id string) error {
	return n.mutate(ctx, func() error {
		_, err := n.c.DuplicateNote(ctx, id)
		return err
	})
}

func (n *Notes) Archive(ctx context.Context, id string) error {
	return n.mutate(ctx, func() error {
		_, err := n.c.ArchiveNote(ctx, id)
		return err
	})
}

func (n *Notes) Unarchive(ctx context.Context, id string) error {
	return n.mutate(ctx, func() error {
		_, err := n.c.UnarchiveNote(ctx, id)
		return err
	})
}

func (n *Notes) Delete(ctx context.Context, id string) error {
	return n.mutate(ctx, func() error {
		return n.c.DeleteNote(ctx, id)
	})
}

func (n *Notes) mutate(ctx context.Context, call func() error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := call(); err != nil {
		n.err = err
		return err
	}
	return n.refetchLocked(ctx)
}

// Active returns the cached active notes, most recently touched first.
func (n *Notes) Active() []Note {
	n.mu.Lock()
	defer n.mu.Unlock()
	return sortedCopy(n.active.items)
}

func (n *Notes) Archived() []Note {
	n.mu.Lock()
	defer n.mu.Unlock()
	return sortedCopy(n.archived.items)
}

// Err is the error from the last operation, nil after a success.
func (n *Notes) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}

func sortedCopy(in []Note) []Note {
	out := append([]Note(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return touched(out[i]).After(touched(out[j]))
	})
	return out
}

func touched(n Note) time.Time {
	if !n.UpdatedAt.IsZero() {
		return n.UpdatedAt
	}
	return n.CreatedAt
}
