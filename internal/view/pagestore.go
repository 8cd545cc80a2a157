package view

import (
	"context"
	"errors"
	"sync"

	"github.com/okellodaniel/customerbase/internal/models"
)

// PageSize is the fixed number of records per page in the browser
const PageSize = 10

// ErrStaleResult marks a load whose result was superseded by a newer one
// before it could be applied. It is bookkeeping, not a failure the user
// sees; callers drop it silently.
var ErrStaleResult = errors.New("stale load result discarded")

// ErrDeletionPending is reported when a second delete confirmation is
// requested while one is already outstanding
var ErrDeletionPending = errors.New("a deletion is already awaiting confirmation")

// PageData is one fetched page: the records plus the collection total at
// the time of the fetch
type PageData struct {
	Records []models.Customer
	Total   int64
}

// Fetcher is the remote collaborator pages are loaded from
type Fetcher interface {
	FetchPage(ctx context.Context, offset, limit int) (PageData, error)
}

// PendingDeletion is the record currently awaiting delete confirmation
type PendingDeletion struct {
	ID   int64
	Name string
}

// Snapshot is a consistent copy of the store's state for rendering
type Snapshot struct {
	Records    []models.Customer
	Total      int64
	Page       int
	TotalPages int
	Loading    bool
	Err        string
	// Loaded is false until the first successful load completes; while
	// false, errors render full-screen instead of as a banner over a
	// previous page.
	Loaded  bool
	Pending *PendingDeletion
}

// PageStore owns the current page of a server-side paginated customer
// collection and keeps it consistent across loads and mutations. Loads
// may overlap (a second page click before the first one lands); only the
// most recently initiated load's result is ever applied.
type PageStore struct {
	source   Fetcher
	coord    *LoadCoordinator
	pageSize int

	mu      sync.Mutex
	records []models.Customer
	total   int64
	page    int
	loaded  bool
	err     string
	reqSeq  uint64
	pending *PendingDeletion
}

// NewPageStore creates a store reading from source through coord
func NewPageStore(source Fetcher, coord *LoadCoordinator) *PageStore {
	return &PageStore{
		source:   source,
		coord:    coord,
		pageSize: PageSize,
		page:     1,
	}
}

// Coordinator exposes the store's load coordinator so the UI can watch
// the loading flag
func (s *PageStore) Coordinator() *LoadCoordinator {
	return s.coord
}

// Snapshot returns a copy of the current state
func (s *PageStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]models.Customer, len(s.records))
	copy(records, s.records)

	var pending *PendingDeletion
	if s.pending != nil {
		p := *s.pending
		pending = &p
	}

	return Snapshot{
		Records:    records,
		Total:      s.total,
		Page:       s.page,
		TotalPages: models.LastPage(s.total, s.pageSize),
		Loading:    s.coord.Loading(),
		Err:        s.err,
		Loaded:     s.loaded,
		Pending:    pending,
	}
}

// LoadPage fetches page (1-based) and replaces the visible state with the
// server's response. A page beyond the collection's end is clamped to the
// true last page and re-fetched rather than shown empty. Returns
// ErrStaleResult when a newer load superseded this one.
func (s *PageStore) LoadPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	s.reqSeq++
	req := s.reqSeq
	s.mu.Unlock()

	err := s.coord.Run(ctx, func(ctx context.Context) error {
		data, err := s.source.FetchPage(ctx, models.PageOffset(page, s.pageSize), s.pageSize)
		if err != nil {
			return err
		}

		// The requested page may no longer exist (records deleted
		// elsewhere since the total was last seen). Clamp to the real
		// last page and fetch again instead of showing an empty page.
		if len(data.Records) == 0 && data.Total > 0 && page > 1 {
			if last := models.LastPage(data.Total, s.pageSize); last < page {
				page = last
				data, err = s.source.FetchPage(ctx, models.PageOffset(page, s.pageSize), s.pageSize)
				if err != nil {
					return err
				}
			}
		}

		return s.commit(req, page, data)
	})

	if err != nil && !errors.Is(err, ErrStaleResult) {
		s.recordFailure(req, err)
	}
	return err
}

// commit replaces the visible page unless a newer load has started since
func (s *PageStore) commit(req uint64, page int, data PageData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req != s.reqSeq {
		return ErrStaleResult
	}

	s.records = data.Records
	s.total = data.Total
	s.page = page
	s.loaded = true
	s.err = ""

	return nil
}

// recordFailure stores the error for display, keeping the previous page
// visible. Before any load has succeeded there is no previous page, so
// the total is reset too.
func (s *PageStore) recordFailure(req uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req != s.reqSeq {
		return
	}

	s.err = err.Error()
	if !s.loaded {
		s.total = 0
	}
}

// ClearError dismisses a recorded load error
func (s *PageStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Reload re-fetches the current page
func (s *PageStore) Reload(ctx context.Context) error {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	return s.LoadPage(ctx, page)
}

// RecordCreated brings a just-created record into view. The new record is
// always the newest, so it lives on the last page of the grown collection;
// the store jumps there regardless of the page the user was on.
func (s *PageStore) RecordCreated(ctx context.Context) error {
	s.mu.Lock()
	target := models.LastPage(s.total+1, s.pageSize)
	s.mu.Unlock()

	return s.LoadPage(ctx, target)
}

// RecordUpdated replaces the matching record on the current page with the
// server's returned copy. Updates never change page membership, so no
// re-fetch happens and total and page number stay as they are.
func (s *PageStore) RecordUpdated(updated models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == updated.ID {
			s.records[i] = updated
			return
		}
	}
}

// RecordDeleted refreshes the view after a server-confirmed delete. When
// the deleted record was the only one on a page past the first, the user
// would otherwise be stranded on an empty page, so the previous page is
// loaded instead.
func (s *PageStore) RecordDeleted(ctx context.Context) error {
	s.mu.Lock()
	target := s.page
	if len(s.records) == 1 && s.page > 1 {
		target = s.page - 1
	}
	s.mu.Unlock()

	return s.LoadPage(ctx, target)
}

// RequestDeletion stages a record for delete confirmation. Only one
// record can be staged at a time.
func (s *PageStore) RequestDeletion(id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return ErrDeletionPending
	}

	s.pending = &PendingDeletion{ID: id, Name: name}
	return nil
}

// ConfirmDeletion resolves the staged deletion, returning its target.
// The caller performs the actual delete and then calls RecordDeleted.
func (s *PageStore) ConfirmDeletion() (PendingDeletion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return PendingDeletion{}, false
	}

	target := *s.pending
	s.pending = nil
	return target, true
}

// CancelDeletion discards the staged deletion
func (s *PageStore) CancelDeletion() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}
