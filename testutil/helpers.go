// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供通用的测试上下文、内存数据库与审计存储构造
//
// 使用方法:
//
//	ctx := testutil.TestContext(t)
//	store := testutil.NewTestStore(t)
// =============================================================================
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BaSui01/taskflow/memory"
)

// TestContext 返回带超时的测试上下文
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewTestDB 打开一个进程内 SQLite 数据库
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	return db
}

// NewTestStore 基于内存数据库创建审计存储
func NewTestStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.New(NewTestDB(t), nil, nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	return store
}
