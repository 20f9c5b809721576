package tag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/memory"
)

// countingTags cuenta llamadas al almacén de etiquetas y permite inyectar fallos.
type countingTags struct {
	repository.TagRepository
	finds, creates int
	createErr      error
}

func (c *countingTags) FindByNames(ctx context.Context, names []string) ([]*entity.Tag, error) {
	c.finds++
	return c.TagRepository.FindByNames(ctx, names)
}

func (c *countingTags) CreateMany(ctx context.Context, tags []*entity.Tag) ([]*entity.Tag, error) {
	c.creates++
	if c.createErr != nil {
		return nil, c.createErr
	}
	return c.TagRepository.CreateMany(ctx, tags)
}

type countingLinks struct {
	repository.CustomerTagRepository
	calls int
}

func (c *countingLinks) CreateMany(ctx context.Context, links []*entity.CustomerTag) error {
	c.calls++
	return c.CustomerTagRepository.CreateMany(ctx, links)
}

func newResolver() (*tag.Resolver, *memory.Store, *countingTags, *countingLinks) {
	store := memory.NewStore("")
	tags := &countingTags{TagRepository: store.Tags()}
	links := &countingLinks{CustomerTagRepository: store.CustomerTags()}
	return tag.NewResolver(tags, links), store, tags, links
}

// ─── NormalizeNames ────────────────────────────────────────────────────────────

func TestNormalizeNames(t *testing.T) {
	long := strings.Repeat("あ", 51)
	limit := strings.Repeat("あ", 50)
	got := tag.NormalizeNames([]string{" VIP ", "", "  ", "vip", "VIP", long, limit, "New"})
	assert.Equal(t, []string{"VIP", "vip", limit, "New"}, got)
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"VIP", "New"}, tag.SplitNames("VIP, New,,  "))
	assert.Empty(t, tag.SplitNames(""))
}

// ─── ResolveOrCreate ───────────────────────────────────────────────────────────

func TestResolveOrCreate_DuplicateInputCreatesOneTag(t *testing.T) {
	r, store, tags, _ := newResolver()

	ids, err := r.ResolveOrCreate(context.Background(), []string{"VIP", "VIP"})
	require.NoError(t, err)

	require.Len(t, ids, 1)
	assert.Equal(t, 1, store.Tags().Count())
	assert.Equal(t, 1, tags.finds)
	assert.Equal(t, 1, tags.creates)
}

func TestResolveOrCreate_Idempotent(t *testing.T) {
	r, store, tags, _ := newResolver()
	ctx := context.Background()

	first, err := r.ResolveOrCreate(ctx, []string{"VIP", "New"})
	require.NoError(t, err)
	second, err := r.ResolveOrCreate(ctx, []string{"New", "VIP"})
	require.NoError(t, err)

	assert.Equal(t, []string{first[1], first[0]}, second, "ids en el orden de la entrada normalizada")
	assert.Equal(t, 2, store.Tags().Count())
	assert.Equal(t, 1, tags.creates, "la segunda llamada no inserta")
}

func TestResolveOrCreate_CasePreserved(t *testing.T) {
	r, store, _, _ := newResolver()

	ids, err := r.ResolveOrCreate(context.Background(), []string{"VIP", "vip"})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	assert.Equal(t, 2, store.Tags().Count())
}

func TestResolveOrCreate_EmptyInputSkipsStore(t *testing.T) {
	r, _, tags, _ := newResolver()

	ids, err := r.ResolveOrCreate(context.Background(), []string{" ", strings.Repeat("x", 51)})
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Zero(t, tags.finds)
	assert.Zero(t, tags.creates)
}

func TestResolveOrCreate_StoreFailure(t *testing.T) {
	r, _, tags, _ := newResolver()
	tags.createErr = errors.New("insert falló")

	_, err := r.ResolveOrCreate(context.Background(), []string{"VIP"})
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, tag.CodeTagResolution, de.Code)
}

// ─── Associate ─────────────────────────────────────────────────────────────────

func TestAssociate_NoDedup(t *testing.T) {
	r, store, _, links := newResolver()
	ctx := context.Background()

	ids, err := r.ResolveOrCreate(ctx, []string{"VIP"})
	require.NoError(t, err)
	require.NoError(t, r.Associate(ctx, "c1", []string{ids[0], ids[0]}))

	got, err := store.CustomerTags().ListTagsByCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 2, "los ids repetidos producen vínculos repetidos")
	assert.Equal(t, 1, links.calls)
}

func TestAssociate_EmptySkipsStore(t *testing.T) {
	r, _, _, links := newResolver()
	require.NoError(t, r.Associate(context.Background(), "c1", nil))
	assert.Zero(t, links.calls)
}

// ─── UseCase ───────────────────────────────────────────────────────────────────

func TestUseCase_CreateIsIdempotent(t *testing.T) {
	r, store, _, _ := newResolver()
	uc := tag.NewUseCase(store.Tags(), r)
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateTagRequest{Name: " VIP "})
	require.NoError(t, err)
	b, err := uc.Create(ctx, dto.CreateTagRequest{Name: "VIP"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "VIP", a.Name)

	_, err = uc.Create(ctx, dto.CreateTagRequest{Name: "   "})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
