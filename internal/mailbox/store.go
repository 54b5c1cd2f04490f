package mailbox

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Iron-Ham/persuade/internal/errors"
)

const (
	// mailboxDir is the directory name within the state directory that holds mailboxes.
	mailboxDir = "mailbox"

	// indexFile is the append-only JSONL file within each inbox directory.
	indexFile = "index.jsonl"
)

// Store provides file-based inbox storage.
type Store struct {
	stateDir string
	mu       sync.Mutex
}

// NewStore creates a Store rooted at the given state directory.
// Directories are created lazily on first write.
func NewStore(stateDir string) *Store {
	return &Store{stateDir: stateDir}
}

// Root returns the directory holding every dialogue's inboxes.
func (s *Store) Root() string {
	return filepath.Join(s.stateDir, mailboxDir)
}

// Append writes env to the inbox of env.To. A missing ID is generated and a
// zero Timestamp becomes the current time.
func (s *Store) Append(env Envelope) error {
	if err := checkName("dialogue", env.Dialogue); err != nil {
		return err
	}
	if env.From == "" {
		return errors.NewValidationError("mailbox: message From field is required").WithField("from")
	}
	if err := checkName("recipient", env.To); err != nil {
		return err
	}
	if env.Performative == "" {
		return errors.NewValidationError("mailbox: message Performative field is required").WithField("performative")
	}

	if env.ID == "" {
		env.ID = generateID()
	}
	if env.Timestamp.IsZero() {
		env.Timestamp = time.Now()
	}

	dir := s.inboxDir(env.Dialogue, env.To)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mailbox: create directory: %w", err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("mailbox: marshal message: %w", err)
	}
	data = append(data, '\n')

	return s.atomicAppend(filepath.Join(dir, indexFile), data)
}

// ReadInbox returns the envelopes agent received in a dialogue, in delivery
// order. A missing inbox is empty, not an error.
func (s *Store) ReadInbox(dialogueID, agent string) ([]Envelope, error) {
	if err := checkName("dialogue", dialogueID); err != nil {
		return nil, err
	}
	if err := checkName("agent", agent); err != nil {
		return nil, err
	}
	return s.readIndex(s.inboxDir(dialogueID, agent))
}

// Agents returns the names of the inboxes recorded for a dialogue, sorted.
func (s *Store) Agents(dialogueID string) ([]string, error) {
	if err := checkName("dialogue", dialogueID); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.Root(), dialogueID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("dialogue", dialogueID).WithCause(err)
		}
		return nil, fmt.Errorf("mailbox: list inboxes: %w", err)
	}
	var agents []string
	for _, e := range entries {
		if e.IsDir() {
			agents = append(agents, e.Name())
		}
	}
	return agents, nil
}

// Dialogues returns the recorded dialogue IDs, oldest first.
func (s *Store) Dialogues() ([]string, error) {
	entries, err := os.ReadDir(s.Root())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("mailbox: list dialogues: %w", err)
	}

	type dir struct {
		name    string
		modTime time.Time
	}
	var dirs []dir
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		dirs = append(dirs, dir{name: e.Name(), modTime: info.ModTime()})
	}
	sort.SliceStable(dirs, func(i, j int) bool {
		if dirs[i].modTime.Equal(dirs[j].modTime) {
			return dirs[i].name < dirs[j].name
		}
		return dirs[i].modTime.Before(dirs[j].modTime)
	})

	ids := make([]string, len(dirs))
	for i, d := range dirs {
		ids[i] = d.name
	}
	return ids, nil
}

func (s *Store) inboxDir(dialogueID, agent string) string {
	return filepath.Join(s.Root(), dialogueID, agent)
}

// readIndex reads all envelopes from an index.jsonl file.
// Returns nil (not error) if the file does not exist.
func (s *Store) readIndex(dir string) ([]Envelope, error) {
	path := filepath.Join(dir, indexFile)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("mailbox: open index: %w", err)
	}
	defer func() { _ = f.Close() }()

	var envelopes []Envelope
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			// Skip malformed lines rather than failing entirely
			continue
		}
		envelopes = append(envelopes, env)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mailbox: scan index: %w", err)
	}

	return envelopes, nil
}

// atomicAppend appends data to a file under a mutex to serialize writes.
func (s *Store) atomicAppend(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("mailbox: open index for append: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("mailbox: append to index: %w", err)
	}

	return f.Close()
}

// checkName rejects names that cannot be used as a single path element.
func checkName(field, name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return errors.NewValidationError(fmt.Sprintf("mailbox: invalid %s name", field)).
			WithField(field).
			WithValue(name)
	}
	return nil
}

// idCounter provides per-process uniqueness for envelope IDs.
var idCounter atomic.Uint64

// generateID produces a unique envelope ID using timestamp, PID, and atomic counter.
func generateID() string {
	return fmt.Sprintf("msg-%d-%d-%d", time.Now().UnixNano(), os.Getpid(), idCounter.Add(1))
}
