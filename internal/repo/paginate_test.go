package repo

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/pagination"
)

type listRow struct {
	ID          int `gorm:"primaryKey"`
	Name        string
	WarehouseID string
	ArchivedAt  *time.Time
	CreatedAt   time.Time
}

func seedRows(t *testing.T, n int, warehouse string) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&listRow{}))
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&listRow{
			ID:          i,
			Name:        fmt.Sprintf("Harina PAN %02d", i),
			WarehouseID: warehouse,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}
	return db
}

type queryCounter struct {
	n int
}

func countQueries(t *testing.T, db *gorm.DB) *queryCounter {
	t.Helper()
	counter := &queryCounter{}
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		counter.n++
	}))
	return counter
}

func TestPaginateEnvelopeInvariant(t *testing.T) {
	db := seedRows(t, 23, "w1")
	ctx := context.Background()

	for _, size := range []int{1, 4, 10, 23, 50} {
		totalPages := int(math.Ceil(23 / float64(size)))
		for page := 1; page <= totalPages+1; page++ {
			got, err := Paginate[listRow](ctx, db, pagination.Params{Page: page, PageSize: size}, ListQuery{Order: "id ASC"})
			require.NoError(t, err)
			assert.Equal(t, int64(23), got.TotalCount)
			assert.Equal(t, totalPages, got.TotalPages)
			assert.LessOrEqual(t, len(got.Data), size)
		}
	}
}

func TestPaginateBeyondLastPageIsEmpty(t *testing.T) {
	db := seedRows(t, 25, "w1")
	counter := countQueries(t, db)

	page, err := Paginate[listRow](context.Background(), db, pagination.Params{Page: 4, PageSize: 10}, ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(25), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 4, page.Page)
	assert.Equal(t, 1, counter.n, "range query should be skipped")
}

func TestPaginateZeroTotalSkipsRangeQuery(t *testing.T) {
	db := seedRows(t, 5, "w1")
	counter := countQueries(t, db)
	warehouse := "w2"

	page, err := Paginate[listRow](context.Background(), db, pagination.Params{Page: 1, PageSize: 10}, ListQuery{
		Scopes: []Scope{Eq("warehouse_id", &warehouse)},
	})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(0), page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, counter.n)
}

func TestPaginateAppliesScopesToCountAndRange(t *testing.T) {
	db := seedRows(t, 12, "w1")
	require.NoError(t, db.Create(&listRow{ID: 100, Name: "Queso llanero", WarehouseID: "w2"}).Error)
	require.NoError(t, db.Create(&listRow{ID: 101, Name: "QUESO de mano", WarehouseID: "w1"}).Error)
	warehouse := "w1"

	page, err := Paginate[listRow](context.Background(), db, pagination.Params{Page: 1, PageSize: 10}, ListQuery{
		Order:  "id ASC",
		Scopes: []Scope{Search("queso", "name"), Eq("warehouse_id", &warehouse)},
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, 101, page.Data[0].ID)
}

func TestPaginateAfterDeleteDropsRow(t *testing.T) {
	db := seedRows(t, 15, "w1")
	ctx := context.Background()
	params := pagination.Params{Page: 1, PageSize: 10}

	before, err := Paginate[listRow](ctx, db, params, ListQuery{Order: "id ASC"})
	require.NoError(t, err)
	victim := before.Data[3].ID

	require.NoError(t, db.Delete(&listRow{}, victim).Error)

	after, err := Paginate[listRow](ctx, db, params, ListQuery{Order: "id ASC"})
	require.NoError(t, err)
	assert.Equal(t, before.TotalCount-1, after.TotalCount)
	for _, row := range after.Data {
		assert.NotEqual(t, victim, row.ID)
	}
}

func TestScopeHelpers(t *testing.T) {
	db := seedRows(t, 6, "w1")
	ctx := context.Background()
	archived := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&listRow{}).Where("id IN ?", []int{1, 2}).Update("archived_at", archived).Error)

	from := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC)
	page, err := Paginate[listRow](ctx, db, pagination.Params{}, ListQuery{
		Order:  "id ASC",
		Scopes: []Scope{Between("created_at", &from, &to)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)

	wantNull := true
	page, err = Paginate[listRow](ctx, db, pagination.Params{}, ListQuery{Scopes: []Scope{IsNull("archived_at", &wantNull)}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalCount)

	page, err = Paginate[listRow](ctx, db, pagination.Params{}, ListQuery{Scopes: []Scope{In[int]("id", nil)}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)

	assert.Nil(t, Search("   ", "name"))
	assert.Nil(t, Eq[string]("name", nil))
	assert.Nil(t, Between("created_at", nil, nil))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := seedRows(t, 0, "w1")
	for i, name := range []string{"Descuento 50% hoy", "Descuento 500 gramos", "combo_familiar", "comboXfamiliar"} {
		require.NoError(t, db.Create(&listRow{ID: 200 + i, Name: name, WarehouseID: "w1"}).Error)
	}

	search := func(term string) []int {
		page, err := Paginate[listRow](context.Background(), db, pagination.Params{Page: 1, PageSize: 10}, ListQuery{
			Order:  "id ASC",
			Scopes: []Scope{Search(term, "name")},
		})
		require.NoError(t, err)
		ids := make([]int, 0, len(page.Data))
		for _, row := range page.Data {
			ids = append(ids, row.ID)
		}
		return ids
	}

	assert.Equal(t, []int{200}, search("50%"))
	assert.Equal(t, []int{202}, search("COMBO_"))
	assert.Equal(t, []int{200, 201}, search("descuento 50"))
}
