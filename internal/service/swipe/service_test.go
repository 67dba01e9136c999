package swipe_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/cache"
	"github.com/oggyb/swipe-api/internal/db"
	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/service/swipe"
	"github.com/oggyb/swipe-api/internal/testutil"
)

//
// Test helpers
//

// setupService wires a swipe Service over an isolated DB seeded with users a, b and c.
func setupService(t *testing.T) (*swipe.Service, *app.AppContext, *miniredis.Miniredis) {
	t.Helper()
	appCtx, mr := testutil.NewAppContext(t)
	for _, id := range []string{"a", "b", "c"} {
		testutil.CreateUser(t, appCtx.DB, id)
	}
	return swipe.NewService(appCtx), appCtx, mr
}

func countSwipes(t *testing.T, gdb *gorm.DB, swiper, swiped string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&db.Swipe{}).Where("swiper_id = ? AND swiped_id = ?", swiper, swiped).Count(&n).Error)
	return n
}

func matchesFor(t *testing.T, gdb *gorm.DB) []db.Match {
	t.Helper()
	var ms []db.Match
	require.NoError(t, gdb.Find(&ms).Error)
	return ms
}

func assertStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()
	require.Error(t, err)
	var se *svcErr.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, status, se.Status)
	if msg != "" {
		assert.Equal(t, msg, se.Message)
	}
}

//
// Tests
//

func TestRecordSwipe_LeftNeverMatches(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	_, err := svc.RecordSwipe(ctx, "b", "a", db.DirectionRight)
	require.NoError(t, err)

	res, err := svc.RecordSwipe(ctx, "a", "b", db.DirectionLeft)
	require.NoError(t, err)
	assert.Equal(t, &swipe.Result{Success: true}, res)
	assert.Empty(t, matchesFor(t, appCtx.DB))
}

// TestRecordSwipe_MutualMatch checks both call orders produce one canonical match.
func TestRecordSwipe_MutualMatch(t *testing.T) {
	for _, order := range [][2]string{{"a", "b"}, {"b", "a"}} {
		t.Run(order[0]+"_first", func(t *testing.T) {
			ctx := context.Background()
			svc, appCtx, _ := setupService(t)

			first, err := svc.RecordSwipe(ctx, order[0], order[1], db.DirectionRight)
			require.NoError(t, err)
			assert.False(t, first.Match)

			second, err := svc.RecordSwipe(ctx, order[1], order[0], db.DirectionRight)
			require.NoError(t, err)
			assert.True(t, second.Match)
			require.NotEmpty(t, second.MatchID)

			ms := matchesFor(t, appCtx.DB)
			require.Len(t, ms, 1)
			assert.Equal(t, "a", ms[0].User1ID)
			assert.Equal(t, "b", ms[0].User2ID)
			assert.Equal(t, second.MatchID, ms[0].ID)
			assert.False(t, ms[0].User1Viewed)
			assert.False(t, ms[0].User2Viewed)
		})
	}
}

// TestRecordSwipe_RecoversFromMatchRace simulates a concurrent request that
// created the match between our mutual check and our insert.
func TestRecordSwipe_RecoversFromMatchRace(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	_, err := svc.RecordSwipe(ctx, "a", "b", db.DirectionRight)
	require.NoError(t, err)

	existing := db.Match{User1ID: "a", User2ID: "b"}
	require.NoError(t, appCtx.DB.Create(&existing).Error)

	res, err := svc.RecordSwipe(ctx, "b", "a", db.DirectionRight)
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, existing.ID, res.MatchID)
	assert.Len(t, matchesFor(t, appCtx.DB), 1)
}

func TestRecordSwipe_ConcurrentOppositeSwipes(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := testutil.NewAppContext(t)
	sqlDB, err := appCtx.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // serialize statements, interleave requests

	svc := swipe.NewService(appCtx)
	const pairs = 10
	for i := 0; i < pairs; i++ {
		testutil.CreateUser(t, appCtx.DB, fmt.Sprintf("x%02d", i))
		testutil.CreateUser(t, appCtx.DB, fmt.Sprintf("y%02d", i))
	}

	type outcome struct {
		res *swipe.Result
		err error
	}
	results := make([][2]outcome, pairs)

	var wg sync.WaitGroup
	for i := 0; i < pairs; i++ {
		i := i
		x, y := fmt.Sprintf("x%02d", i), fmt.Sprintf("y%02d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			r, err := svc.RecordSwipe(ctx, x, y, db.DirectionRight)
			results[i][0] = outcome{r, err}
		}()
		go func() {
			defer wg.Done()
			r, err := svc.RecordSwipe(ctx, y, x, db.DirectionRight)
			results[i][1] = outcome{r, err}
		}()
	}
	wg.Wait()

	ms := matchesFor(t, appCtx.DB)
	require.Len(t, ms, pairs)
	byPair := map[string]string{}
	for _, m := range ms {
		assert.Less(t, m.User1ID, m.User2ID)
		byPair[m.User1ID] = m.ID
	}

	for i, pair := range results {
		matched := 0
		for _, o := range pair {
			require.NoError(t, o.err)
			if o.res.Match {
				matched++
				assert.Equal(t, byPair[fmt.Sprintf("x%02d", i)], o.res.MatchID)
			}
		}
		assert.GreaterOrEqual(t, matched, 1, "pair %d", i)
	}
}

func TestRecordSwipe_DuplicateRejected(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	_, err := svc.RecordSwipe(ctx, "a", "b", db.DirectionLeft)
	require.NoError(t, err)

	for _, dir := range []string{db.DirectionLeft, db.DirectionRight} {
		_, err = svc.RecordSwipe(ctx, "a", "b", dir)
		assertStatus(t, err, http.StatusBadRequest, "Already swiped on this user")
	}
	assert.Equal(t, int64(1), countSwipes(t, appCtx.DB, "a", "b"))
}

func TestRecordSwipe_Validation(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	tests := []struct {
		name      string
		swiper    string
		target    string
		direction string
		status    int
		msg       string
	}{
		{"no caller", "", "b", "right", http.StatusUnauthorized, "Unauthorized"},
		{"no target", "a", "", "right", http.StatusBadRequest, "Missing swipedUserId or direction"},
		{"no direction", "a", "b", "", http.StatusBadRequest, "Missing swipedUserId or direction"},
		{"bad direction", "a", "b", "up", http.StatusBadRequest, `Direction must be "left" or "right"`},
		{"case matters", "a", "b", "Right", http.StatusBadRequest, `Direction must be "left" or "right"`},
		{"self", "a", "a", "right", http.StatusBadRequest, "Cannot swipe on yourself"},
		{"unknown target", "a", "ghost", "right", http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordSwipe(ctx, tt.swiper, tt.target, tt.direction)
			assertStatus(t, err, tt.status, tt.msg)
		})
	}

	var n int64
	require.NoError(t, appCtx.DB.Model(&db.Swipe{}).Count(&n).Error)
	assert.Zero(t, n, "rejected swipes must not write")
}

func TestRecordSwipe_InvalidatesBadges(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, mr := setupService(t)

	require.NoError(t, appCtx.RedisCache.SetUnviewedCount(ctx, "a", 0))
	require.NoError(t, appCtx.RedisCache.SetUnviewedCount(ctx, "b", 0))

	_, err := svc.RecordSwipe(ctx, "a", "b", db.DirectionRight)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.KeyForUnviewedCount("a")), "no match yet, cache untouched")

	_, err = svc.RecordSwipe(ctx, "b", "a", db.DirectionRight)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.KeyForUnviewedCount("a")))
	assert.False(t, mr.Exists(cache.KeyForUnviewedCount("b")))
}
