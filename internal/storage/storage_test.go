package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textmetrics/internal/analyze"
)

func TestStoredName(t *testing.T) {
	ts := time.UnixMilli(1700000000123)

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "plain filename",
			filename: "report.txt",
			want:     "report_1700000000123.txt",
		},
		{
			name:     "no extension",
			filename: "README",
			want:     "README_1700000000123",
		},
		{
			name:     "double extension keeps last",
			filename: "archive.tar.gz",
			want:     "archive.tar_1700000000123.gz",
		},
		{
			name:     "unix path traversal stripped",
			filename: "../../etc/passwd",
			want:     "passwd_1700000000123",
		},
		{
			name:     "absolute path stripped",
			filename: "/var/log/syslog.txt",
			want:     "syslog_1700000000123.txt",
		},
		{
			name:     "windows path stripped",
			filename: `C:\temp\evil.txt`,
			want:     "evil_1700000000123.txt",
		},
		{
			name:     "empty filename falls back",
			filename: "",
			want:     "upload_1700000000123",
		},
		{
			name:     "bare traversal falls back",
			filename: "..",
			want:     "upload_1700000000123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StoredName(tt.filename, ts))
		})
	}
}

func TestUploadStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewUploadStore(dir)

	content := []byte("Hello world\n")
	saved, err := store.Save("data.txt", content)
	require.NoError(t, err)

	assert.Regexp(t, `^data_\d+\.txt$`, filepath.Base(saved))
	assert.Equal(t, dir, filepath.Dir(saved))

	got, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestUploadStoreDistinctNames(t *testing.T) {
	store := NewUploadStore(t.TempDir())

	base := time.UnixMilli(1700000000000)
	times := []time.Time{base, base.Add(time.Millisecond)}
	store.now = func() time.Time {
		ts := times[0]
		times = times[1:]
		return ts
	}

	first, err := store.Save("same.txt", []byte("a"))
	require.NoError(t, err)
	second, err := store.Save("same.txt", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestUploadStoreSaveFailure(t *testing.T) {
	// A regular file where the upload directory should be makes MkdirAll
	// fail, which must surface as a StorageError.
	dir := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(dir, []byte("not a dir"), 0644))

	store := NewUploadStore(dir)
	_, err := store.Save("data.txt", []byte("x"))
	require.Error(t, err)

	var se *StorageError
	assert.True(t, errors.As(err, &se))
}

func TestResultSinkAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis_result.txt")

	sink, err := OpenResultSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Append("first: lines=1, words=1, characters=1"))
	require.NoError(t, sink.Append("second: lines=2, words=2, characters=2"))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"first: lines=1, words=1, characters=1\nsecond: lines=2, words=2, characters=2\n",
		string(data))
}

func TestResultSinkAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis_result.txt")
	require.NoError(t, os.WriteFile(path, []byte("old line\n"), 0644))

	sink, err := OpenResultSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Append("new line"))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old line\nnew line\n", string(data))
}

func TestResultSinkConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis_result.txt")

	sink, err := OpenResultSink(path)
	require.NoError(t, err)

	const n = 50
	want := make([]string, n)
	for i := 0; i < n; i++ {
		want[i] = ResultLine(fmt.Sprintf("file%02d_1700000000000.txt", i),
			analyze.Result{Lines: i, Words: i * 2, Chars: i * 3})
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(line string) {
			defer wg.Done()
			assert.NoError(t, sink.Append(line))
		}(want[i])
	}
	wg.Wait()
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	got := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, got, n)

	// Order between connections is not guaranteed, but every line must
	// come through whole.
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestResultLine(t *testing.T) {
	got := ResultLine("report_1700000000123.txt", analyze.Result{Lines: 2, Words: 7, Chars: 33})
	assert.Equal(t, "report_1700000000123.txt: lines=2, words=7, characters=33", got)
}
