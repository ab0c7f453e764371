// Package memory provides the memory_save, memory_recall, and memory_list
// tools over a persistent key-value note store. Notes survive process
// restarts; a re-save of an existing key overwrites it, and nothing deletes
// a note implicitly.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// validKey matches keys that contain only alphanumeric characters, hyphens,
// and underscores.
var validKey = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Note is one stored memory entry.
type Note struct {
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Store persists notes as JSON files in a directory. The directory is created
// on the first write. Same-key writes are serialized so an overwrite is
// atomic per key; last write wins.
type Store struct {
	dir    string
	locker *keyLocker
	now    func() time.Time
}

// New creates a Store that persists notes in the given directory.
func New(dir string) *Store {
	return &Store{
		dir:    dir,
		locker: newKeyLocker(),
		now:    time.Now,
	}
}

// Save upserts a note under key and returns the stored entry.
func (s *Store) Save(key, content string) (Note, error) {
	if !validKey.MatchString(key) {
		return Note{}, fmt.Errorf("invalid key %q: only alphanumeric characters, hyphens, and underscores are allowed", key)
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return Note{}, fmt.Errorf("create store directory: %w", err)
	}

	note := Note{Key: key, Content: content, Timestamp: s.now()}

	data, err := json.Marshal(note)
	if err != nil {
		return Note{}, fmt.Errorf("encode note: %w", err)
	}

	s.locker.lock(key)
	defer s.locker.unlock(key)

	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return Note{}, fmt.Errorf("write note: %w", err)
	}

	return note, nil
}

// Recall returns the note stored under key.
func (s *Store) Recall(key string) (Note, error) {
	if !validKey.MatchString(key) {
		return Note{}, fmt.Errorf("invalid key %q: only alphanumeric characters, hyphens, and underscores are allowed", key)
	}

	s.locker.lock(key)
	defer s.locker.unlock(key)

	data, err := os.ReadFile(s.path(key)) //nolint:gosec // path is constructed from a validated key
	if err != nil {
		if os.IsNotExist(err) {
			return Note{}, fmt.Errorf("no such memory %q", key)
		}

		return Note{}, fmt.Errorf("read note: %w", err)
	}

	var note Note
	if err := json.Unmarshal(data, &note); err != nil {
		return Note{}, fmt.Errorf("decode note %q: %w", key, err)
	}

	return note, nil
}

// List returns all stored notes sorted by key.
func (s *Store) List() ([]Note, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Note{}, nil
		}

		return nil, fmt.Errorf("read store directory: %w", err)
	}

	notes := make([]Note, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		key := strings.TrimSuffix(e.Name(), ".json")

		note, err := s.Recall(key)
		if err != nil {
			continue // skip entries that disappeared or are corrupt
		}

		notes = append(notes, note)
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].Key < notes[j].Key })

	return notes, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Tools returns the memory tools backed by this store.
func (s *Store) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Spec: toolbox.Spec{
				Name:        "memory_save",
				Description: "Save a note to persistent memory. Saving an existing key overwrites it.",
				Params: []toolbox.Param{
					{Name: "key", Type: toolbox.TypeString, Required: true, Description: "Note key (alphanumeric, hyphens, underscores only)"},
					{Name: "content", Type: toolbox.TypeString, Required: true, Description: "Text to remember"},
				},
			},
			Handler: s.handleSave,
		},
		{
			Spec: toolbox.Spec{
				Name:        "memory_recall",
				Description: "Recall a previously saved note by key.",
				Params: []toolbox.Param{
					{Name: "key", Type: toolbox.TypeString, Required: true, Description: "Key of the note to recall"},
				},
			},
			Handler: s.handleRecall,
		},
		{
			Spec: toolbox.Spec{
				Name:        "memory_list",
				Description: "List all saved notes with their timestamps.",
			},
			Handler: s.handleList,
		},
	}
}

func (s *Store) handleSave(_ context.Context, args toolbox.Args) (any, error) {
	note, err := s.Save(args.String("key"), args.String("content"))
	if err != nil {
		return nil, fmt.Errorf("memory_save: %w", err)
	}

	return note, nil
}

func (s *Store) handleRecall(_ context.Context, args toolbox.Args) (any, error) {
	note, err := s.Recall(args.String("key"))
	if err != nil {
		return nil, fmt.Errorf("memory_recall: %w", err)
	}

	return note, nil
}

func (s *Store) handleList(_ context.Context, _ toolbox.Args) (any, error) {
	notes, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("memory_list: %w", err)
	}

	return notes, nil
}
