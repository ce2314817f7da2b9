package sample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spillzone/spillzone-api/internal/models"
)

func TestFeedIsAnchoredToReferenceTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	items := Feed(now)
	require.Len(t, items, 4)

	for _, item := range items {
		require.True(t, item.CreatedAt.Before(now), "sample post %d should predate now", item.ID)
		require.Equal(t, item.CreatedAt.Add(models.ContentTTL), item.ExpiresAt)
		require.True(t, now.Before(item.ExpiresAt), "sample post %d should still be live", item.ID)
		require.NotEmpty(t, item.Content)
		require.NotEmpty(t, item.Roast)
		require.NotEmpty(t, item.Tag)
	}
}

func TestFeedCountersMatchBundledDataset(t *testing.T) {
	items := Feed(time.Now())

	first := items[0]
	require.EqualValues(t, 342, first.Reactions[models.ReactionLaugh])
	require.EqualValues(t, 972, first.Poll[models.PollThem])
}
