package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *SummaryCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return mr, NewSummaryCache(client, time.Minute)
}

func testSummary() report.AttendanceSummary {
	return report.AttendanceSummary{
		DateFrom:    "2024-03-01",
		DateTo:      "2024-03-31",
		GeneratedAt: "2024-04-01T08:00:00Z",
		Overall:     report.OverallStats{Total: 5, Present: 2, Late: 1, Absent: 1, OnLeave: 1, Attending: 3},
		Departments: []report.DepartmentSummary{
			{DepartmentStat: report.DepartmentStat{Department: "Engineering", Attending: 2, Total: 3, Percentage: 66.7}, Tier: "low"},
			{DepartmentStat: report.DepartmentStat{Department: "Sales", Attending: 1, Total: 2, Percentage: 50}, Tier: "critical"},
		},
	}
}

func TestSummaryCache_SetGet(t *testing.T) {
	_, c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "attendance-summary:c1", testSummary()))

	got, ok, err := c.Get(ctx, "attendance-summary:c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testSummary(), *got)
}

func TestSummaryCache_Miss(t *testing.T) {
	_, c := setupTestCache(t)

	got, ok, err := c.Get(context.Background(), "attendance-summary:missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSummaryCache_Expires(t *testing.T) {
	mr, c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "attendance-summary:c1", testSummary()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "attendance-summary:c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSummaryCache_CorruptValue(t *testing.T) {
	mr, c := setupTestCache(t)
	require.NoError(t, mr.Set("attendance-summary:bad", "{not json"))

	_, ok, err := c.Get(context.Background(), "attendance-summary:bad")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
