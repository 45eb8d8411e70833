package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comichub/internal/catalog"
)

func TestSearchRelevanceOrdering(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// seeded out of order on purpose
	substring, err := repo.CreateSeries(ctx, catalog.SeriesInput{Title: "The Solo Hero"})
	require.NoError(t, err)
	descOnly, err := repo.CreateSeries(ctx, catalog.SeriesInput{
		Title:       "Regressor Chronicle",
		Description: "He goes solo against the dungeon.",
	})
	require.NoError(t, err)
	exact, err := repo.CreateSeries(ctx, catalog.SeriesInput{Title: "Solo"})
	require.NoError(t, err)
	prefix, err := repo.CreateSeries(ctx, catalog.SeriesInput{Title: "Solo Max"})
	require.NoError(t, err)

	results, err := repo.SearchSeries(ctx, catalog.SearchQuery{Query: "Solo", Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, exact.ID, results[0].ID)
	assert.Equal(t, prefix.ID, results[1].ID)
	assert.Equal(t, substring.ID, results[2].ID)
	assert.Equal(t, descOnly.ID, results[3].ID)

	assert.InDelta(t, 1.0, results[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.9, results[1].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.7, results[2].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.3, results[3].RelevanceScore, 1e-9)
}

func TestSearchMatchesAlternativeTitles(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	s, err := repo.CreateSeries(ctx, catalog.SeriesInput{
		Title:             "Na Honjaman Lebel-eob",
		AlternativeTitles: []string{"Solo Leveling"},
	})
	require.NoError(t, err)

	results, err := repo.SearchSeries(ctx, catalog.SearchQuery{Query: "Leveling", Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, s.ID, results[0].ID)
	assert.InDelta(t, 0.3, results[0].RelevanceScore, 1e-9)
}

func TestSearchCaseInsensitiveExactMatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	s, err := repo.CreateSeries(ctx, catalog.SeriesInput{Title: "Solo Leveling"})
	require.NoError(t, err)

	results, err := repo.SearchSeries(ctx, catalog.SearchQuery{Query: "solo leveling", Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, s.ID, results[0].ID)
	assert.InDelta(t, 1.0, results[0].RelevanceScore, 1e-9)
}

func TestSearchGenreFilterRequiresAllGenres(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	action, err := repo.CreateGenre(ctx, "Action", "action")
	require.NoError(t, err)
	drama, err := repo.CreateGenre(ctx, "Drama", "drama")
	require.NoError(t, err)
	comedy, err := repo.CreateGenre(ctx, "Comedy", "comedy")
	require.NoError(t, err)

	tagged, err := repo.CreateSeries(ctx, catalog.SeriesInput{Title: "Sword Saga"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceSeriesGenres(ctx, tagged.ID, []string{action.ID, drama.ID}))

	// {Action, Drama} matches a filter for both of its genres
	results, err := repo.SearchSeries(ctx, catalog.SearchQuery{
		Query: "Sword", Genres: []string{action.ID, drama.ID}, Limit: 20,
	})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// but is excluded when any requested genre is missing
	results, err = repo.SearchSeries(ctx, catalog.SearchQuery{
		Query: "Sword", Genres: []string{action.ID, comedy.ID}, Limit: 20,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchStatusAndTypeFilters(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	ongoing, err := repo.CreateSeries(ctx, catalog.SeriesInput{Title: "Dungeon A", Status: "ongoing", Type: "manhwa"})
	require.NoError(t, err)
	_, err = repo.CreateSeries(ctx, catalog.SeriesInput{Title: "Dungeon B", Status: "completed", Type: "manga"})
	require.NoError(t, err)

	results, err := repo.SearchSeries(ctx, catalog.SearchQuery{Query: "Dungeon", Status: "ongoing", Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ongoing.ID, results[0].ID)

	results, err = repo.SearchSeries(ctx, catalog.SearchQuery{Status: "completed", Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dungeon B", results[0].Title)
}

func TestSearchWithoutAnyFilters(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	seedSeries(t, repo, "Invisible")

	results, err := repo.SearchSeries(ctx, catalog.SearchQuery{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, results)
}
