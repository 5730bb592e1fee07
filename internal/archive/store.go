// Package archive persists match recordings so late spectators can replay
// finished games. A recording is three files keyed by the quark token: the
// framed opening game buffer, the appended framed savestates, and the two
// player nicknames.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// savestateChunkSize is the historical replay chunk size; spectating
// emulators expect savestate data to trickle in at roughly match pace.
const savestateChunkSize = 376

// chunkGap paces replayed savestate chunks.
const chunkGap = 900 * time.Millisecond

var tokenPattern = regexp.MustCompile(`^challenge-[0-9]{4}-[0-9]{10,11}\.[0-9]{2}$`)

// ValidToken reports whether token has the canonical quark shape.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}

// Store reads and writes quark recordings under one directory.
type Store struct {
	dir string

	// sleep paces replay streaming; tests replace it.
	sleep func(time.Duration)
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, sleep: time.Sleep}
}

// SetSleep overrides the pacing function. Only tests use this.
func (s *Store) SetSleep(fn func(time.Duration)) {
	s.sleep = fn
}

func (s *Store) path(token, suffix string) string {
	return filepath.Join(s.dir, "quark-"+token+"-"+suffix)
}

// WriteGameBuffer stores the framed opening game buffer. Write-once: an
// existing file is left untouched.
func (s *Store) WriteGameBuffer(token string, framed []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating quark dir: %w", err)
	}
	path := s.path(token, "gamebuffer.fs")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, framed, 0o644); err != nil {
		return fmt.Errorf("writing game buffer for %s: %w", token, err)
	}
	return nil
}

// WriteNicknames stores the two player nicknames, one per line.
func (s *Store) WriteNicknames(token, p1, p2 string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating quark dir: %w", err)
	}
	data := p1 + "\n" + p2 + "\n"
	if err := os.WriteFile(s.path(token, "nicknames.txt"), []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing nicknames for %s: %w", token, err)
	}
	return nil
}

// AppendSavestate appends one framed savestate push to the recording.
func (s *Store) AppendSavestate(token string, framed []byte) error {
	f, err := os.OpenFile(s.path(token, "savestate.fs"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening savestate file for %s: %w", token, err)
	}
	defer f.Close()
	if _, err := f.Write(framed); err != nil {
		return fmt.Errorf("appending savestate for %s: %w", token, err)
	}
	return nil
}

// HasRecording reports whether a replayable recording exists for token.
func (s *Store) HasRecording(token string) bool {
	_, err := os.Stat(s.path(token, "nicknames.txt"))
	return err == nil
}

// Nicknames returns the two recorded player nicknames.
func (s *Store) Nicknames(token string) (string, string, error) {
	data, err := os.ReadFile(s.path(token, "nicknames.txt"))
	if err != nil {
		return "", "", fmt.Errorf("reading nicknames for %s: %w", token, err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < 2 {
		return "", "", fmt.Errorf("nicknames file for %s has %d lines", token, len(lines))
	}
	return lines[0], lines[1], nil
}

// GameBuffer returns the recorded framed opening buffer, or nil if absent.
func (s *Store) GameBuffer(token string) ([]byte, error) {
	data, err := os.ReadFile(s.path(token, "gamebuffer.fs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading game buffer for %s: %w", token, err)
	}
	return data, nil
}

// StreamSavestate feeds the recorded savestate data to send in paced
// 376-byte chunks. A send failure aborts the stream; a missing recording is
// not an error (the match simply had no savestates).
func (s *Store) StreamSavestate(token string, send func([]byte) error) error {
	f, err := os.Open(s.path(token, "savestate.fs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening savestate for %s: %w", token, err)
	}
	defer f.Close()

	chunk := make([]byte, savestateChunkSize)
	for {
		n, err := f.Read(chunk)
		if n > 0 {
			s.sleep(chunkGap)
			out := make([]byte, n)
			copy(out, chunk[:n])
			if err := send(out); err != nil {
				return fmt.Errorf("streaming savestate for %s: %w", token, err)
			}
		}
		if err != nil {
			return nil
		}
	}
}
