package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key := "attendance/company-1/abc/Attendance_Report.xlsx"
	stored, err := s.Upload(ctx, strings.NewReader("report-bytes"), key, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, key, stored)

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "report-bytes", string(data))
}

func TestLocalStorage_Missing(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "attendance/none.xlsx")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Download(ctx, "attendance/none.xlsx")
	assert.Error(t, err)
}

func TestLocalStorage_TraversalStaysInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	_, err = s.Upload(ctx, strings.NewReader("x"), "../../escape.xlsx", "application/octet-stream")
	require.NoError(t, err)

	// the key is rooted at base, so the file lands inside it
	exists, err := s.Exists(ctx, "escape.xlsx")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.Upload(ctx, strings.NewReader("x"), "", "application/octet-stream")
	assert.Error(t, err)
}
