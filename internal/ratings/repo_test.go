package ratings

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ratewise/store-ratings-backend/pkg/db/models"
)

func setupRatingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS ratings (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, store_id)
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func TestRepositoryUpsert_insertThenReplace(t *testing.T) {
	conn := setupRatingsTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	storeID := uuid.New()

	first, err := repo.Upsert(context.Background(), userID, storeID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Rating)

	second, err := repo.Upsert(context.Background(), userID, storeID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Rating)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, conn.Model(&models.Rating{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryUpsert_distinctStoresKeepSeparateRows(t *testing.T) {
	conn := setupRatingsTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	_, err := repo.Upsert(context.Background(), userID, uuid.New(), 2)
	require.NoError(t, err)
	_, err = repo.Upsert(context.Background(), userID, uuid.New(), 4)
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.Rating{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryFindByUserAndStore(t *testing.T) {
	conn := setupRatingsTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	storeID := uuid.New()
	_, err := repo.Upsert(context.Background(), userID, storeID, 4)
	require.NoError(t, err)

	found, err := repo.FindByUserAndStore(context.Background(), userID, storeID)
	require.NoError(t, err)
	assert.Equal(t, 4, found.Rating)

	_, err = repo.FindByUserAndStore(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCount(t *testing.T) {
	conn := setupRatingsTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.Upsert(context.Background(), uuid.New(), uuid.New(), 1)
	require.NoError(t, err)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
