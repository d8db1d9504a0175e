package memory

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store, err := New(db, nil, nil)
	require.NoError(t, err)
	return store, db
}

func TestStore_OpenSession(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	sessionID, err := store.OpenSession(ctx, "initial goal")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	history := store.SessionHistory(sessionID)
	require.Len(t, history, 1)
	assert.Equal(t, StepSessionStart, history[0].StepID)
	assert.Equal(t, ActionInput, history[0].Action)
	assert.Equal(t, StatusStarted, history[0].Status)
	assert.Equal(t, "initial goal", history[0].Result)

	// The index and the durable log agree.
	var count int64
	require.NoError(t, db.Model(&auditLog{}).Where("session_id = ?", sessionID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStore_RecordStepIsDurable(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	sessionID, err := store.OpenSession(ctx, nil)
	require.NoError(t, err)

	record, err := store.RecordStep(ctx, sessionID, "fetch", "fetch_data", StatusCompleted,
		map[string]any{"rows": 3}, "", map[string]any{"attempt": 1})
	require.NoError(t, err)
	assert.Equal(t, "fetch", record.StepID)
	assert.False(t, record.Timestamp.IsZero())

	var row auditLog
	require.NoError(t, db.Where("session_id = ? AND step_id = ?", sessionID, "fetch").First(&row).Error)
	assert.Equal(t, "completed", row.Status)
	assert.JSONEq(t, `{"rows":3}`, row.Result)
	assert.JSONEq(t, `{"attempt":1}`, row.Metadata)

	// Timestamp persists in ISO-8601.
	_, err = time.Parse(time.RFC3339Nano, row.Timestamp)
	assert.NoError(t, err)
}

func TestStore_ContextFor(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	sessionID, err := store.OpenSession(ctx, nil)
	require.NoError(t, err)

	_, err = store.RecordStep(ctx, sessionID, "a", "tool", StatusCompleted, "a-out", "", nil)
	require.NoError(t, err)
	_, err = store.RecordStep(ctx, sessionID, "b", "tool", StatusFailed, nil, "boom", nil)
	require.NoError(t, err)

	derived := store.ContextFor(sessionID)
	assert.Equal(t, map[string]any{"a": "a-out"}, derived, "nil results are excluded")
}

func TestStore_ContextFor_LastWriteWins(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	sessionID, err := store.OpenSession(ctx, nil)
	require.NoError(t, err)

	_, err = store.RecordStep(ctx, sessionID, "step", "tool", StatusStarted, "first", "", nil)
	require.NoError(t, err)
	_, err = store.RecordStep(ctx, sessionID, "step", "tool", StatusCompleted, "second", "", nil)
	require.NoError(t, err)

	assert.Equal(t, "second", store.ContextFor(sessionID)["step"])

	// Both records remain in the durable log.
	var count int64
	require.NoError(t, db.Model(&auditLog{}).Where("step_id = ?", "step").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestStore_ContextFor_IsolatesSessions(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	first, err := store.OpenSession(ctx, nil)
	require.NoError(t, err)
	second, err := store.OpenSession(ctx, nil)
	require.NoError(t, err)

	_, err = store.RecordStep(ctx, first, "a", "tool", StatusCompleted, "mine", "", nil)
	require.NoError(t, err)

	assert.Empty(t, store.ContextFor(second))
}

func TestStore_CloseSession(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	sessionID, err := store.OpenSession(ctx, "goal")
	require.NoError(t, err)
	require.False(t, store.Closed(sessionID))

	require.NoError(t, store.CloseSession(ctx, sessionID, "final report"))
	assert.True(t, store.Closed(sessionID))

	history := store.SessionHistory(sessionID)
	require.Len(t, history, 2)
	last := history[len(history)-1]
	assert.Equal(t, StepSessionEnd, last.StepID)
	assert.Equal(t, ActionOutput, last.Action)
	assert.Equal(t, "final report", last.Result)
}

func TestStore_Summary(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	sessionID, err := store.OpenSession(ctx, nil)
	require.NoError(t, err)
	_, err = store.RecordStep(ctx, sessionID, "a", "tool", StatusCompleted, 1, "", nil)
	require.NoError(t, err)
	_, err = store.RecordStep(ctx, sessionID, "b", "tool", StatusCompleted, 2, "", nil)
	require.NoError(t, err)
	_, err = store.RecordStep(ctx, sessionID, "c", "tool", StatusFailed, nil, "boom", nil)
	require.NoError(t, err)

	sum := store.Summary(sessionID)
	// session_start counts as a record but is neither completed nor failed.
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 2, sum.Completed)
	assert.Equal(t, 1, sum.Failed)
	assert.InDelta(t, 50.0, sum.SuccessRate, 0.001)
}

func TestStore_Summary_EmptyIsZero(t *testing.T) {
	store, _ := openTestStore(t)

	sum := store.Summary("")
	assert.Zero(t, sum.Total)
	assert.Zero(t, sum.SuccessRate)
}
