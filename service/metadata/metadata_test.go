package metadata

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnserr"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/metadatarepo"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := metadatarepo.NewFileRepo(filepath.Join(t.TempDir(), "metadata.json"))
	return New(servicectx.New(nil, nil, repo, nil))
}

func testKey() dnsmodel.DomainMetadataKey {
	return dnsmodel.DomainMetadataKey{AccountID: "a1", DomainID: "d1"}
}

func TestGetMetadataReturnsDefaultWhenAbsent(t *testing.T) {
	svc := newTestService(t)
	m, err := svc.GetMetadata(testKey())
	require.NoError(t, err)
	assert.False(t, m.IsFavorite)
	assert.Equal(t, dnsmodel.ColorNone, m.Color)
}

func TestSaveMetadataRejectsBadColor(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SaveMetadata(testKey(), dnsmodel.DomainMetadata{Color: "mauve"})
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, dnserr.KindInvalidParameter, derr.Kind())
	assert.Equal(t, "color", derr.Param())
}

func TestSaveMetadataRejectsOverlongNote(t *testing.T) {
	svc := newTestService(t)
	note := make([]byte, 501)
	for i := range note {
		note[i] = 'x'
	}
	_, err := svc.SaveMetadata(testKey(), dnsmodel.DomainMetadata{Color: dnsmodel.ColorNone, Note: string(note)})
	require.Error(t, err)
}

func TestSaveEmptyMetadataLeavesNoStoredEntry(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SaveMetadata(testKey(), dnsmodel.DomainMetadata{Color: dnsmodel.ColorRed, IsFavorite: true})
	require.NoError(t, err)

	_, err = svc.SaveMetadata(testKey(), dnsmodel.NewDefaultMetadata())
	require.NoError(t, err)

	found, ok, err := svc.ctx.Metadata.Find(testKey())
	require.NoError(t, err)
	assert.False(t, ok)
	_ = found
}

func TestToggleFavoriteSetsFavoritedAtOnce(t *testing.T) {
	svc := newTestService(t)
	key := testKey()

	on, err := svc.ToggleFavorite(key)
	require.NoError(t, err)
	assert.True(t, on)

	m, err := svc.GetMetadata(key)
	require.NoError(t, err)
	require.NotNil(t, m.FavoritedAt)
	firstFavoritedAt := *m.FavoritedAt

	off, err := svc.ToggleFavorite(key)
	require.NoError(t, err)
	assert.False(t, off)

	m2, err := svc.GetMetadata(key)
	require.NoError(t, err)
	require.NotNil(t, m2.FavoritedAt)
	assert.Equal(t, firstFavoritedAt, *m2.FavoritedAt)
}

func TestAddTagTrimsAndRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	key := testKey()

	tags, err := svc.AddTag(key, "  prod  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod"}, tags)

	tags, err = svc.AddTag(key, "prod")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod"}, tags)
}

func TestAddTagRejectsOverLimit(t *testing.T) {
	svc := newTestService(t)
	key := testKey()
	for i := 0; i < 10; i++ {
		_, err := svc.AddTag(key, string(rune('a'+i)))
		require.NoError(t, err)
	}
	_, err := svc.AddTag(key, "overflow")
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, "tags", derr.Param())
}

func TestRemoveTagIsNoOpWhenAbsent(t *testing.T) {
	svc := newTestService(t)
	key := testKey()
	_, err := svc.AddTag(key, "prod")
	require.NoError(t, err)

	tags, err := svc.RemoveTag(key, "staging")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod"}, tags)
}

func TestSetTagsNormalizesAndSorts(t *testing.T) {
	svc := newTestService(t)
	tags, err := svc.SetTags(testKey(), []string{"zebra", " alpha ", "zebra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zebra"}, tags)
}

func TestSetTagsRejectsOverLimitInsteadOfTruncating(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SetTags(testKey(), []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"})
	require.Error(t, err)
	derr, ok := err.(*dnserr.Error)
	require.True(t, ok)
	assert.Equal(t, "tags", derr.Param())

	m, err := svc.GetMetadata(testKey())
	require.NoError(t, err)
	assert.Empty(t, m.Tags, "a rejected SetTags call must not persist anything")
}

func TestSetTagsRejectsEmptyTag(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SetTags(testKey(), []string{"prod", "   "})
	require.Error(t, err)
}

func TestSetTagsRejectsOverlongTag(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SetTags(testKey(), []string{strings.Repeat("x", 51)})
	require.Error(t, err)
}

func TestBatchAddTagsFailsWhenOverLimit(t *testing.T) {
	svc := newTestService(t)
	key := testKey()
	_, err := svc.SetTags(key, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"})
	require.NoError(t, err)

	result, err := svc.BatchAddTags([]BatchTagItem{{Key: key, Tags: []string{"11"}}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
}

func TestFindByTagListFavoritesListAllTags(t *testing.T) {
	svc := newTestService(t)
	key := testKey()
	_, err := svc.AddTag(key, "prod")
	require.NoError(t, err)
	_, err = svc.ToggleFavorite(key)
	require.NoError(t, err)

	byTag, err := svc.FindByTag("a1", "prod")
	require.NoError(t, err)
	assert.Len(t, byTag, 1)

	favs, err := svc.ListFavorites("a1")
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	allTags, err := svc.ListAllTags("a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod"}, allTags)
}
