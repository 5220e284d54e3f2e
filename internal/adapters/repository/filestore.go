package repository

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/okian/c4hscore/internal/domain/model"
	"github.com/okian/c4hscore/pkg/metrics"
	"go.yaml.in/yaml/v3"
)

const (
	eventMarker   = "C4HScore"
	headerPrefix  = "--- #"
	defaultIndent = 2
	defaultPerm   = 0o644
)

// FileStore keeps each event in its own YAML file.
//
// Layout:
//
//	--- # <event name> C4HScore
//	<YAML document of the event>
type FileStore struct {
	indent int
	perm   os.FileMode
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{indent: defaultIndent, perm: defaultPerm}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, ev *model.Event) error {
	if ev.Filename == "" {
		return ErrNoFilename
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()

	// Stamp first so the written file carries this save; undone if nothing was written.
	lastSave := ev.LastSave
	ev.MarkSaved()

	data, err := s.encode(fmt.Sprintf("%s %s %s", headerPrefix, headerText(ev.Name), eventMarker), ev)
	if err != nil {
		ev.LastSave = lastSave
		return fmt.Errorf("encode event %q: %w", ev.Name, err)
	}
	if err := writeFileAtomic(ev.Filename, data, s.perm); err != nil {
		ev.LastSave = lastSave
		return fmt.Errorf("write %s: %w", ev.Filename, err)
	}

	metrics.RecordEventSave(float64(time.Since(started).Microseconds())/1000, len(data))
	return nil
}

// SaveAs implements Store.
func (s *FileStore) SaveAs(ctx context.Context, ev *model.Event, path string) error {
	if path == "" {
		return ErrNoFilename
	}
	previous := ev.Filename
	ev.Filename = path
	if err := s.Save(ctx, ev); err != nil {
		ev.Filename = previous
		return err
	}
	return nil
}

// Open implements Store. Contents are trusted; no validation is re-applied.
func (s *FileStore) Open(ctx context.Context, path string) (*model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var ev model.Event
	if err := yaml.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	ev.Filename = path

	metrics.RecordEventLoad()
	return &ev, nil
}

// headerText flattens line breaks so the header stays a single comment line.
// The YAML body keeps the real value.
func headerText(s string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}

func (s *FileStore) encode(header string, v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteByte('\n')

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(s.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checkHeader(data []byte) error {
	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if !strings.HasPrefix(string(line), headerPrefix) {
		return ErrBadHeader
	}
	return nil
}

// Header returns the first line of a file written by this package.
func Header(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, _, err := bufio.NewReader(f).ReadLine()
	if err != nil {
		return "", err
	}
	return string(line), nil
}
