package stats

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/exhibition/config"
	"github.com/cppla/exhibition/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: "file:" + name + "?mode=memory&cache=shared",
		LogLevel:    "silent",
	}, models.All()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			panic(err)
		}
		return t
	}
}

func dailyRow(t *testing.T, db *gorm.DB, day string) models.DailyStat {
	t.Helper()
	var row models.DailyStat
	require.NoError(t, db.Where("date = ?", day).First(&row).Error)
	return row
}

func TestLocalDate(t *testing.T) {
	cases := map[string]string{
		"2026-02-12T16:30:00Z":      "2026-02-13",
		"2026-02-12T14:59:59Z":      "2026-02-12",
		"2026-02-12T15:00:00Z":      "2026-02-13",
		"2026-02-13T08:00:00+09:00": "2026-02-13",
		"2026-02-12T20:00:00-05:00": "2026-02-13",
	}
	for in, want := range cases {
		ts, err := time.Parse(time.RFC3339, in)
		require.NoError(t, err)
		require.Equal(t, want, LocalDate(ts), in)
	}
}

func TestRecordVisitCreatesThenIncrements(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := NewCounter(db).WithClock(fixedClock("2026-02-12T16:30:00Z"))

	require.NoError(t, c.RecordVisit(ctx))
	require.NoError(t, c.RecordVisit(ctx))

	row := dailyRow(t, db, "2026-02-13")
	require.Equal(t, int64(2), row.VisitorCount)
	require.Equal(t, int64(0), row.TotalViewCount)

	next := NewCounter(db).WithClock(fixedClock("2026-02-13T15:00:00Z"))
	require.NoError(t, next.RecordVisit(ctx))

	var count int64
	require.NoError(t, db.Model(&models.DailyStat{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
	require.Equal(t, int64(1), dailyRow(t, db, "2026-02-14").VisitorCount)
}

func TestRecordVisitConcurrentFirstOfDay(t *testing.T) {
	db := setupTestDB(t)
	c := NewCounter(db).WithClock(fixedClock("2026-03-01T01:00:00Z"))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.RecordVisit(context.Background())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var rows []models.DailyStat
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, int64(10), rows[0].VisitorCount)
}

func TestRecordView(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := NewCounter(db).WithClock(fixedClock("2026-02-12T03:00:00Z"))

	first := models.Artwork{Title: "Blue Bird", Artist: "이용준", ImageFile: "a.jpg", Room: 5}
	second := models.Artwork{Title: "Red Field", Artist: "전지현", ImageFile: "b.jpg", Room: 2}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, c.RecordView(ctx, first.ID))
	require.NoError(t, c.RecordView(ctx, first.ID))
	require.NoError(t, c.RecordView(ctx, second.ID))

	var got models.Artwork
	require.NoError(t, db.First(&got, first.ID).Error)
	require.Equal(t, int64(2), got.Views)
	require.Equal(t, int64(3), dailyRow(t, db, "2026-02-12").TotalViewCount)
}

func TestRecordViewMissingArtwork(t *testing.T) {
	db := setupTestDB(t)
	c := NewCounter(db).WithClock(fixedClock("2026-02-12T03:00:00Z"))

	err := c.RecordView(context.Background(), 404)
	require.ErrorIs(t, err, ErrArtworkNotFound)

	var count int64
	require.NoError(t, db.Model(&models.DailyStat{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestResetViewsKeepsDailyTotals(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := NewCounter(db).WithClock(fixedClock("2026-02-12T03:00:00Z"))

	art := models.Artwork{Title: "Blue Bird", Artist: "이용준", ImageFile: "a.jpg", Room: 5}
	idle := models.Artwork{Title: "Quiet", Artist: "임승규", ImageFile: "q.jpg", Room: 5}
	require.NoError(t, db.Create(&art).Error)
	require.NoError(t, db.Create(&idle).Error)
	require.NoError(t, c.RecordView(ctx, art.ID))
	require.NoError(t, c.RecordView(ctx, art.ID))

	n, err := c.ResetViews(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	var got models.Artwork
	require.NoError(t, db.First(&got, art.ID).Error)
	require.Zero(t, got.Views)
	require.Equal(t, int64(2), dailyRow(t, db, "2026-02-12").TotalViewCount)
}
