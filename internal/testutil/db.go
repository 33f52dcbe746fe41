// Package testutil 测试用的内存数据库与数据构造
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-music-api/internal/core/database"
	"go-music-api/internal/repo"
)

var seq atomic.Int64

// NewDB 每个测试独立的内存 sqlite，已完成迁移
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	// 命名内存库 + 单连接，保证同一测试内所有语句看到同一份数据
	dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared", seq.Add(1))
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func NewStore(t testing.TB) *repo.Store {
	t.Helper()
	return repo.NewStore(NewDB(t))
}
