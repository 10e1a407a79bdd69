package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityfix/cityfix-go/internal/errors"
)

func TestFindByQueryNumberTrimsAndIgnoresCase(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	store.generate = func() string { return "CFC-100000-AB12" }

	r, err := store.Create(validDraft())
	require.NoError(t, err)

	for _, code := range []string{
		"CFC-100000-AB12",
		" cfc-100000-ab12 ",
		"Cfc-100000-Ab12",
	} {
		found, err := store.FindByQueryNumber(code)
		require.NoError(t, err, "code %q", code)
		assert.Equal(t, r.ID, found.ID)
	}
}

func TestFindByQueryNumberNotFound(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	_, err := store.FindByQueryNumber("CFC-999999-ZZZZ")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFindByQueryNumberEmpty(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	_, err := store.FindByQueryNumber("   ")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestResolvedReports(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	a, err := store.Create(validDraft())
	require.NoError(t, err)
	_, err = store.Create(validDraft())
	require.NoError(t, err)
	c, err := store.Create(validDraft())
	require.NoError(t, err)

	_, err = store.UpdateStatus(a.ID, StatusResolved, "", "")
	require.NoError(t, err)
	_, err = store.UpdateStatus(c.ID, StatusResolved, "", "")
	require.NoError(t, err)

	resolved := store.ResolvedReports()
	require.Len(t, resolved, 2)
	// Store order: c was created after a, so it comes first.
	assert.Equal(t, c.ID, resolved[0].ID)
	assert.Equal(t, a.ID, resolved[1].ID)
}

func TestStatisticsEmpty(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	stats := store.GetStatistics()
	assert.Equal(t, Statistics{}, stats)
}

func TestStatisticsCountsAndPercentage(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	var ids []string
	for i := 0; i < 4; i++ {
		r, err := store.Create(validDraft())
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	for _, id := range ids[:2] {
		_, err := store.UpdateStatus(id, StatusResolved, "", "")
		require.NoError(t, err)
	}

	stats := store.GetStatistics()
	assert.Equal(t, Statistics{
		Total:              4,
		Pending:            2,
		Resolved:           2,
		ResolvedPercentage: 50,
	}, stats)
}

func TestStatisticsRoundsHalfUp(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	// 1 resolved of 8 total = 12.5%, rounds to 13.
	var ids []string
	for i := 0; i < 8; i++ {
		r, err := store.Create(validDraft())
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	_, err := store.UpdateStatus(ids[0], StatusResolved, "", "")
	require.NoError(t, err)

	stats := store.GetStatistics()
	assert.Equal(t, 13, stats.ResolvedPercentage)
}

func TestStatisticsCountsInProgress(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	r, err := store.Create(validDraft())
	require.NoError(t, err)
	_, err = store.UpdateStatus(r.ID, StatusInProgress, "", "")
	require.NoError(t, err)

	stats := store.GetStatistics()
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.ResolvedPercentage)
}
