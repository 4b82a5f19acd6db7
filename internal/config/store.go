package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/farcloser/primordium/fault"
	"gopkg.in/ini.v1"
)

// Section is the profile section holding every key of this package.
const Section = "LoudnessDock"

// ErrSaveFailure is returned when a profile cannot be written back.
var ErrSaveFailure = errors.New("failed to save profile")

// Store is a typed key/value profile. Missing keys read as zero values.
type Store interface {
	Bool(key string) bool
	Uint(key string) uint64
	Int(key string) int64
	Float(key string) float64
	String(key string) string

	SetBool(key string, v bool)
	SetUint(key string, v uint64)
	SetInt(key string, v int64)
	SetFloat(key string, v float64)
	SetString(key string, v string)

	Save() error
}

// INIStore is a Store backed by one section of an INI file.
type INIStore struct {
	path    string
	file    *ini.File
	section *ini.Section
}

// OpenINI loads the profile at path. A missing file yields an empty profile, created on Save.
func OpenINI(path string) (*INIStore, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return &INIStore{path: path, file: file, section: file.Section(Section)}, nil
}

// Path returns the backing file.
func (s *INIStore) Path() string {
	return s.path
}

func (s *INIStore) Bool(key string) bool {
	return s.section.Key(key).MustBool(false)
}

func (s *INIStore) Uint(key string) uint64 {
	return s.section.Key(key).MustUint64(0)
}

func (s *INIStore) Int(key string) int64 {
	return s.section.Key(key).MustInt64(0)
}

func (s *INIStore) Float(key string) float64 {
	return s.section.Key(key).MustFloat64(0)
}

func (s *INIStore) String(key string) string {
	return s.section.Key(key).String()
}

func (s *INIStore) SetBool(key string, v bool) {
	s.section.Key(key).SetValue(strconv.FormatBool(v))
}

func (s *INIStore) SetUint(key string, v uint64) {
	s.section.Key(key).SetValue(strconv.FormatUint(v, 10))
}

func (s *INIStore) SetInt(key string, v int64) {
	s.section.Key(key).SetValue(strconv.FormatInt(v, 10))
}

func (s *INIStore) SetFloat(key string, v float64) {
	s.section.Key(key).SetValue(strconv.FormatFloat(v, 'g', -1, 64))
}

func (s *INIStore) SetString(key string, v string) {
	s.section.Key(key).SetValue(v)
}

// Save writes the profile back to its file.
func (s *INIStore) Save() error {
	if s.path == "" {
		return fmt.Errorf("%w: no path", ErrSaveFailure)
	}

	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailure, err)
	}

	return nil
}

// Exists reports whether the backing file is present.
func (s *INIStore) Exists() bool {
	_, err := os.Stat(s.path)

	return err == nil
}

// MemoryStore is an in-process Store. Save counts calls and never fails.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]any
	saves  int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]any{}}
}

func memGet[T any](s *MemoryStore, key string) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, _ := s.values[key].(T)

	return v
}

func memSet(s *MemoryStore, key string, v any) {
	s.mu.Lock()
	s.values[key] = v
	s.mu.Unlock()
}

func (s *MemoryStore) Bool(key string) bool { return memGet[bool](s, key) }
func (s *MemoryStore) Uint(key string) uint64 { return memGet[uint64](s, key) }
func (s *MemoryStore) Int(key string) int64 { return memGet[int64](s, key) }
func (s *MemoryStore) Float(key string) float64 { return memGet[float64](s, key) }
func (s *MemoryStore) String(key string) string { return memGet[string](s, key) }
func (s *MemoryStore) SetBool(key string, v bool) { memSet(s, key, v) }
func (s *MemoryStore) SetUint(key string, v uint64) { memSet(s, key, v) }
func (s *MemoryStore) SetInt(key string, v int64) { memSet(s, key, v) }
func (s *MemoryStore) SetFloat(key string, v float64) { memSet(s, key, v) }
func (s *MemoryStore) SetString(key string, v string) { memSet(s, key, v) }

func (s *MemoryStore) Save() error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()

	return nil
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saves
}
