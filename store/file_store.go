package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/josephgoksu/taskapi/models"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"

	lockSuffix     = ".lock"
	lockRetryDelay = 50 * time.Millisecond
)

// FileOptions configures a FileTaskStore.
type FileOptions struct {
	// Format is one of json, yaml or toml. Empty infers it from the file
	// extension and falls back to json.
	Format string
	// Lock enables an advisory lock on <file>.lock. It requires the OS
	// filesystem.
	Lock bool
}

// FileTaskStore implements TaskStore on a single document file.
// It supports JSON, YAML, and TOML formats.
type FileTaskStore struct {
	fs       afero.Fs
	filePath string
	format   string
	flk      *flock.Flock
}

// NewFileTaskStore creates a store for filePath on fs. The file itself is
// not touched; its parent directory is created if missing.
func NewFileTaskStore(fs afero.Fs, filePath string, opts FileOptions) (*FileTaskStore, error) {
	if filePath == "" {
		return nil, errors.New("task file path is empty")
	}

	format, err := resolveFormat(filePath, opts.Format)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(filePath)
	if dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s := &FileTaskStore{
		fs:       fs,
		filePath: filePath,
		format:   format,
	}

	if opts.Lock {
		if _, ok := fs.(*afero.OsFs); !ok {
			return nil, fmt.Errorf("file locking requires the OS filesystem, got %s", fs.Name())
		}
		s.flk = flock.New(filePath + lockSuffix)
	}

	return s, nil
}

func resolveFormat(filePath, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case FormatJSON, FormatYAML, FormatTOML:
		return format, nil
	case "":
	default:
		return "", fmt.Errorf("unsupported data format: %s. Supported formats are json, yaml, toml", format)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return FormatJSON, nil
	}
}

// Path returns the document path.
func (s *FileTaskStore) Path() string { return s.filePath }

// Format returns the document format.
func (s *FileTaskStore) Format() string { return s.format }

// document mirrors models.TaskList with a pointer so a missing "tasks"
// field can be told apart from an empty one.
type document struct {
	Tasks *[]models.Task `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// Load reads and decodes the whole document.
func (s *FileTaskStore) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, s.filePath, err)
	}

	var doc document
	switch s.format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s as %s: %w", ErrParse, s.filePath, s.format, err)
	}
	if doc.Tasks == nil {
		return nil, fmt.Errorf("%w: %s has no tasks field", ErrParse, s.filePath)
	}

	tasks := *doc.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Save encodes tasks and overwrites the document in place.
// There is no temp file and rename: an interrupted write can truncate it.
func (s *FileTaskStore) Save(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	data, err := s.marshal(models.TaskList{Tasks: tasks})
	if err != nil {
		return fmt.Errorf("%w: encode tasks as %s: %w", ErrIO, s.format, err)
	}

	if err := afero.WriteFile(s.fs, s.filePath, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, s.filePath, err)
	}
	return nil
}

func (s *FileTaskStore) marshal(list models.TaskList) ([]byte, error) {
	switch s.format {
	case FormatYAML:
		return yaml.Marshal(list)
	case FormatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(list); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return json.MarshalIndent(list, "", "  ")
	}
}

// Lock takes the advisory lock on <file>.lock, waiting until it is free or
// ctx is done. Without FileOptions.Lock it returns a no-op unlock.
func (s *FileTaskStore) Lock(ctx context.Context) (func(), error) {
	if s.flk == nil {
		return func() {}, nil
	}

	locked, err := s.flk.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %w", ErrIO, s.flk.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: lock %s not acquired", ErrIO, s.flk.Path())
	}
	return func() { _ = s.flk.Unlock() }, nil
}
