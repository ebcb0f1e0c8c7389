package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrDuplicateUser    = errors.New("username or email already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrArtifactNotFound = errors.New("artifact not found")
)

// document is the full on-disk layout: a single JSON object holding every user.
type document struct {
	Users []User `json:"users"`
}

// FileStore persists users in one JSON file. Every operation is a full
// read-modify-write of that file; a store-wide mutex serializes them so
// concurrent requests cannot drop each other's writes.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.persist(&document{Users: []User{}}); err != nil {
			return nil, fmt.Errorf("failed to create users file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat users file: %w", err)
	}

	// Fail fast on a corrupt file instead of at first request.
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	return &doc, nil
}

func (s *FileStore) persist(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users file: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}

// lessID orders user ids. Ids are zero-padded to three digits and widen past
// user_999, so a plain string compare would put "user_1000" before "user_999";
// comparing length first restores numeric order.
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// findIndex binary-searches users (kept sorted by id) and reports whether
// the id is present.
func findIndex(users []User, id string) (int, bool) {
	i := sort.Search(len(users), func(i int) bool {
		return !lessID(users[i].ID, id)
	})
	return i, i < len(users) && users[i].ID == id
}

// nextUserID allocates the next sequential id. The first user is user_001;
// afterwards the greatest numeric suffix among stored users is incremented.
// Ids with a non-numeric suffix (hand-edited files) are skipped so the
// allocated id never collides with an existing one. %03d widens naturally
// once the counter passes 999.
func nextUserID(users []User) string {
	max := 0
	for i := range users {
		n, err := strconv.Atoi(strings.TrimPrefix(users[i].ID, "user_"))
		if err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("user_%03d", max+1)
}

// CreateUser registers a user, allocating its id. Fails with ErrDuplicateUser
// when the username or email is already taken.
func (s *FileStore) CreateUser(username, email, password, profilePicture string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Users {
		if doc.Users[i].Username == username || doc.Users[i].Email == email {
			return nil, ErrDuplicateUser
		}
	}

	user := User{
		ID:             nextUserID(doc.Users),
		Username:       username,
		Email:          email,
		Password:       password,
		CreatedAt:      time.Now().UTC(),
		ProfilePicture: profilePicture,
		CrashCourses:   []CrashCourse{},
		Summaries:      []Summary{},
	}

	// Insert at the sorted position. Allocation order makes this the tail in
	// practice, but the binary search below must never depend on that.
	i, _ := findIndex(doc.Users, user.ID)
	doc.Users = append(doc.Users, User{})
	copy(doc.Users[i+1:], doc.Users[i:])
	doc.Users[i] = user

	if err := s.persist(doc); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID looks a user up by id. Returns (nil, nil) when absent.
func (s *FileStore) GetUserByID(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if i, ok := findIndex(doc.Users, id); ok {
		u := doc.Users[i]
		return &u, nil
	}
	return nil, nil
}

// GetUserByUsername scans for a username. Returns (nil, nil) when absent.
func (s *FileStore) GetUserByUsername(username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].Username == username {
			u := doc.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// mutateUser runs fn against the stored user and persists the result.
func (s *FileStore) mutateUser(userID string, fn func(*User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	i, ok := findIndex(doc.Users, userID)
	if !ok {
		return ErrUserNotFound
	}
	if err := fn(&doc.Users[i]); err != nil {
		return err
	}
	return s.persist(doc)
}

// AddCrashCourse prepends a crash course so history stays most-recent-first.
func (s *FileStore) AddCrashCourse(userID string, course CrashCourse) error {
	return s.mutateUser(userID, func(u *User) error {
		u.CrashCourses = append([]CrashCourse{course}, u.CrashCourses...)
		return nil
	})
}

func (s *FileStore) RemoveCrashCourse(userID, courseID string) error {
	return s.mutateUser(userID, func(u *User) error {
		kept := u.CrashCourses[:0:0]
		for _, c := range u.CrashCourses {
			if c.ID != courseID {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(u.CrashCourses) {
			return ErrArtifactNotFound
		}
		u.CrashCourses = kept
		return nil
	})
}

// AddSummary prepends a summary so history stays most-recent-first.
func (s *FileStore) AddSummary(userID string, summary Summary) error {
	return s.mutateUser(userID, func(u *User) error {
		u.Summaries = append([]Summary{summary}, u.Summaries...)
		return nil
	})
}

func (s *FileStore) RemoveSummary(userID, summaryID string) error {
	return s.mutateUser(userID, func(u *User) error {
		kept := u.Summaries[:0:0]
		for _, sm := range u.Summaries {
			if sm.ID != summaryID {
				kept = append(kept, sm)
			}
		}
		if len(kept) == len(u.Summaries) {
			return ErrArtifactNotFound
		}
		u.Summaries = kept
		return nil
	})
}
