package gen

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/nabu-3/sdkgen/compiler/render"
)

// Writer emits generated files below a target directory.
type Writer struct {
	Target string
	// SkipUnchanged leaves a file untouched when its content hash matches
	// the new content. The generation stamp of the banner is not hashed.
	SkipUnchanged bool

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks emitted files.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
}

// NewWriter creates a writer rooted at target.
func NewWriter(target string) *Writer {
	return &Writer{Target: target}
}

// Metrics returns a snapshot of the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Path returns the file of class in namespace ns, one directory per
// namespace level.
func (w *Writer) Path(ns, class, ext string) string {
	parts := []string{w.Target}
	for _, p := range strings.Split(strings.Trim(ns, `\`), `\`) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return filepath.Join(append(parts, class+ext)...)
}

// Write stores data at path, creating missing directories. It reports
// whether the file changed.
func (w *Writer) Write(path string, data []byte) (bool, error) {
	if w.SkipUnchanged && w.same(path, data) {
		w.mu.Lock()
		w.metrics.FilesUnchanged++
		w.mu.Unlock()
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, NewIOError("mkdir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, NewIOError("write", path, err)
	}
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(data))
	w.mu.Unlock()
	return true, nil
}

// same reports whether path already holds data, ignoring the generation
// stamp.
func (w *Writer) same(path string, data []byte) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	current, err := digest(f)
	if err != nil {
		return false
	}
	want, _ := digest(bytes.NewReader(data))
	return current == want
}

// digest hashes r line by line, leaving out generation stamp lines.
func digest(r io.Reader) (uint64, error) {
	h := xxh3.New()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 && !render.IsStamp(line) {
			_, _ = h.Write(line)
		}
		if errors.Is(err, io.EOF) {
			return h.Sum64(), nil
		}
		if err != nil {
			return 0, err
		}
	}
}
