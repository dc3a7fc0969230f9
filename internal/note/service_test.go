package note

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notely/internal/apperr"
	"notely/internal/category"
)

// memRepo mimics the owner-scoped behaviour of Store.
type memRepo struct {
	notes map[uuid.UUID]Note
	cats  map[uuid.UUID]category.Category
	clock time.Time

	listCalls int
}

func newMemRepo() *memRepo {
	return &memRepo{
		notes: map[uuid.UUID]Note{},
		cats:  map[uuid.UUID]category.Category{},
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memRepo) addCategory(owner uuid.UUID, name string) category.Category {
	c := category.Category{ID: uuid.New(), Name: name, UserID: owner}
	r.cats[c.ID] = c
	return c
}

func (r *memRepo) owned(owner uuid.UUID, ids []uuid.UUID) ([]category.Category, error) {
	out := []category.Category{}
	for _, id := range ids {
		c, ok := r.cats[id]
		if !ok || c.UserID != owner {
			return nil, apperr.ErrNotFound
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, n *Note, ids []uuid.UUID) error {
	cats, err := r.owned(n.UserID, ids)
	if err != nil {
		return err
	}
	n.ID = uuid.New()
	n.Categories = cats
	n.CreatedAt = r.tick()
	n.UpdatedAt = n.CreatedAt
	r.notes[n.ID] = *n
	return nil
}

func (r *memRepo) get(id, owner uuid.UUID) (Note, error) {
	n, ok := r.notes[id]
	if !ok || n.UserID != owner {
		return Note{}, apperr.ErrNotFound
	}
	return n, nil
}

func (r *memRepo) Duplicate(_ context.Context, id, owner uuid.UUID) (Note, error) {
	src, err := r.get(id, owner)
	if err != nil {
		return Note{}, err
	}
	dup := Note{
		ID: uuid.New(), Title: CopyTitle(src.Title), Content: src.Content,
		IsActive: src.IsActive, UserID: owner, Categories: src.Categories,
		CreatedAt: r.tick(),
	}
	dup.UpdatedAt = dup.CreatedAt
	r.notes[dup.ID] = dup
	return dup, nil
}

func (r *memRepo) List(_ context.Context, owner uuid.UUID, active bool, offset, limit int) ([]Note, int64, error) {
	r.listCalls++
	var all []Note
	for _, n := range r.notes {
		if n.UserID == owner && n.IsActive == active {
			all = append(all, n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []Note{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r *memRepo) Update(_ context.Context, id, owner uuid.UUID, p Patch) (Note, error) {
	n, err := r.get(id, owner)
	if err != nil {
		return Note{}, err
	}
	if p.CategoryIDs != nil {
		cats, err := r.owned(owner, *p.CategoryIDs)
		if err != nil {
			return Note{}, err
		}
		n.Categories = cats
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	n.UpdatedAt = r.tick()
	r.notes[id] = n
	return n, nil
}

func (r *memRepo) SetActive(_ context.Context, id, owner uuid.UUID, active bool) (Note, error) {
	n, err := r.get(id, owner)
	if err != nil {
		return Note{}, err
	}
	n.IsActive = active
	n.UpdatedAt = r.tick()
	r.notes[id] = n
	return n, nil
}

func (r *memRepo) Remove(_ context.Context, id, owner uuid.UUID) error {
	if _, err := r.get(id, owner); err != nil {
		return err
	}
	delete(r.notes, id)
	return nil
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, zerolog.Nop()), repo
}

func ptr[T any](v T) *T { return &v }

func TestService_Create_WithCategories(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	owner := uuid.New()
	work := repo.addCategory(owner, "Work")

	n, err := svc.Create(context.Background(), owner, CreateInput{
		Title:       " T ",
		Content:     "body",
		CategoryIDs: []uuid.UUID{work.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "T", n.Title)
	assert.True(t, n.IsActive)
	assert.Equal(t, owner, n.UserID)
	require.Len(t, n.Categories, 1)
	assert.Equal(t, "Work", n.Categories[0].Name)
}

func TestService_Create_ForeignCategoryRejected(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	owner, other := uuid.New(), uuid.New()
	foreign := repo.addCategory(other, "Secret")

	_, err := svc.Create(context.Background(), owner, CreateInput{
		Title:       "T",
		CategoryIDs: []uuid.UUID{foreign.ID},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, repo.notes)
}

func TestService_Create_TitleRules(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, CreateInput{Title: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(context.Background(), owner, CreateInput{Title: strings.Repeat("a", MaxTitleLen+1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(context.Background(), owner, CreateInput{Title: strings.Repeat("é", MaxTitleLen)})
	assert.NoError(t, err)
}

func TestService_Duplicate(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	owner := uuid.New()
	work := repo.addCategory(owner, "Work")
	ctx := context.Background()

	src, err := svc.Create(ctx, owner, CreateInput{Title: "Plan", Content: "c", CategoryIDs: []uuid.UUID{work.ID}})
	require.NoError(t, err)
	_, err = svc.Archive(ctx, src.ID, owner)
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, src.ID, owner)
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "Copy of Plan", dup.Title)
	assert.Equal(t, "c", dup.Content)
	assert.False(t, dup.IsActive)
	assert.Equal(t, src.Categories, dup.Categories)

	_, err = svc.Duplicate(ctx, src.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_ListActive_Pagination(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, owner, CreateInput{Title: "n"})
		require.NoError(t, err)
	}

	page, err := svc.ListActive(ctx, owner, PageRequest{Page: 2, Limit: 9})
	require.NoError(t, err)

	assert.Len(t, page.Data, 1)
	assert.EqualValues(t, 10, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 9, page.Limit)
	assert.Equal(t, 2, page.TotalPages)
}

func TestService_List_PageBounds(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, owner, CreateInput{Title: "n"})
		require.NoError(t, err)
	}

	past, err := svc.ListActive(ctx, owner, PageRequest{Page: 3, Limit: 9})
	require.NoError(t, err)
	assert.Empty(t, past.Data)
	assert.Equal(t, 3, past.Page)
	assert.Equal(t, 2, past.TotalPages)

	calls := repo.listCalls
	_, err = svc.ListActive(ctx, owner, PageRequest{Page: 1_000_000_000_000_000_000, Limit: 10})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, calls, repo.listCalls)

	_, err = svc.ListActive(ctx, owner, PageRequest{Page: MaxPage, Limit: MaxLimit})
	assert.NoError(t, err)
}

func TestService_List_Defaults(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	page, err := svc.ListArchived(context.Background(), uuid.New(), PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page.Page)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Data)

	_, err = svc.ListActive(context.Background(), uuid.New(), PageRequest{Page: -1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_ArchiveMovesBetweenListings(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	n, err := svc.Create(ctx, owner, CreateInput{Title: "T"})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, n.ID, owner)
	require.NoError(t, err)
	assert.False(t, archived.IsActive)

	active, _ := svc.ListActive(ctx, owner, PageRequest{})
	arch, _ := svc.ListArchived(ctx, owner, PageRequest{})
	assert.Empty(t, active.Data)
	require.Len(t, arch.Data, 1)

	restored, err := svc.Unarchive(ctx, n.ID, owner)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
	assert.Equal(t, n.Title, restored.Title)
	assert.Equal(t, n.Content, restored.Content)
	assert.Equal(t, n.Categories, restored.Categories)
	assert.True(t, restored.UpdatedAt.After(n.UpdatedAt))
}

func TestService_Update_PartialAndCategoryReplace(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	owner := uuid.New()
	work := repo.addCategory(owner, "Work")
	personal := repo.addCategory(owner, "Personal")
	ctx := context.Background()

	n, err := svc.Create(ctx, owner, CreateInput{Title: "T", Content: "old", CategoryIDs: []uuid.UUID{work.ID}})
	require.NoError(t, err)

	got, err := svc.Update(ctx, n.ID, owner, Patch{Content: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "new", got.Content)
	assert.Len(t, got.Categories, 1)

	got, err = svc.Update(ctx, n.ID, owner, Patch{CategoryIDs: &[]uuid.UUID{personal.ID}})
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Personal", got.Categories[0].Name)

	got, err = svc.Update(ctx, n.ID, owner, Patch{CategoryIDs: &[]uuid.UUID{}})
	require.NoError(t, err)
	assert.Empty(t, got.Categories)

	_, err = svc.Update(ctx, n.ID, owner, Patch{Title: ptr("")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_OtherOwnerSeesNotFound(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	owner, intruder := uuid.New(), uuid.New()
	ctx := context.Background()

	n, err := svc.Create(ctx, owner, CreateInput{Title: "T"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, n.ID, intruder, Patch{Title: ptr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Archive(ctx, n.ID, intruder)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	err = svc.Remove(ctx, n.ID, intruder)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Contains(t, repo.notes, n.ID)
}

func TestCopyTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Copy of Plan", CopyTitle("Plan"))
	long := CopyTitle(strings.Repeat("x", MaxTitleLen))
	assert.Len(t, []rune(long), MaxTitleLen)
	assert.True(t, strings.HasPrefix(long, "Copy of "))
}

func TestTotalPages(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, TotalPages(10, 9))
	assert.Equal(t, 1, TotalPages(9, 9))
	assert.Equal(t, 0, TotalPages(0, 9))
	assert.Equal(t, 4, TotalPages(31, 10))
}
