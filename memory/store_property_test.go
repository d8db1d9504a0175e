package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestProperty_ContextForMatchesRecordedSteps 检查上下文推导的完整性：
// 记录 N 个带非空结果的步骤后，ContextFor 恰好包含这 N 个 step id。
func TestProperty_ContextForMatchesRecordedSteps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store, _ := openTestStore(t)
		ctx := context.Background()

		sessionID, err := store.OpenSession(ctx, nil)
		require.NoError(rt, err)

		numSteps := rapid.IntRange(0, 20).Draw(rt, "numSteps")
		numNilSteps := rapid.IntRange(0, 5).Draw(rt, "numNilSteps")

		for i := 0; i < numSteps; i++ {
			_, err := store.RecordStep(ctx, sessionID, fmt.Sprintf("step_%d", i), "tool",
				StatusCompleted, fmt.Sprintf("out_%d", i), "", nil)
			require.NoError(rt, err)
		}
		// 空结果的步骤必须被排除在上下文之外
		for i := 0; i < numNilSteps; i++ {
			_, err := store.RecordStep(ctx, sessionID, fmt.Sprintf("nil_%d", i), "tool",
				StatusFailed, nil, "boom", nil)
			require.NoError(rt, err)
		}

		derived := store.ContextFor(sessionID)
		require.Len(rt, derived, numSteps)
		for i := 0; i < numSteps; i++ {
			require.Equal(rt, fmt.Sprintf("out_%d", i), derived[fmt.Sprintf("step_%d", i)])
		}
	})
}

// TestProperty_SummaryCountsAddUp 检查统计汇总与记录状态一致，且永不除零。
func TestProperty_SummaryCountsAddUp(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store, _ := openTestStore(t)
		ctx := context.Background()

		sessionID, err := store.OpenSession(ctx, nil)
		require.NoError(rt, err)

		completed := rapid.IntRange(0, 15).Draw(rt, "completed")
		failed := rapid.IntRange(0, 15).Draw(rt, "failed")

		for i := 0; i < completed; i++ {
			_, err := store.RecordStep(ctx, sessionID, fmt.Sprintf("ok_%d", i), "tool",
				StatusCompleted, i, "", nil)
			require.NoError(rt, err)
		}
		for i := 0; i < failed; i++ {
			_, err := store.RecordStep(ctx, sessionID, fmt.Sprintf("bad_%d", i), "tool",
				StatusFailed, nil, "err", nil)
			require.NoError(rt, err)
		}

		sum := store.Summary(sessionID)
		// +1 是 session_start 标记
		require.Equal(rt, completed+failed+1, sum.Total)
		require.Equal(rt, completed, sum.Completed)
		require.Equal(rt, failed, sum.Failed)
		require.GreaterOrEqual(rt, sum.SuccessRate, 0.0)
		require.LessOrEqual(rt, sum.SuccessRate, 100.0)
	})
}
