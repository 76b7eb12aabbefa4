// Package favorites keeps bookmarked must-gather sub-paths under user chosen
// titles, together with the order they are displayed in.
//
// The document is read, modified and written back without any cross-process
// locking: two processes editing favorites at the same time race and the last
// write wins. A single Store serialises its own operations.
package favorites

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/magna"
	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

//go:generate mockgen -destination=mock/mock_favorites.go -package=mock_favorites . Prompter

const (
	defaultFilePerms = 0o600
	defaultDirPerms  = 0o755
)

// Prompter asks the user for a value. An empty answer cancels.
type Prompter interface {
	Prompt(label, defaultValue string) (string, error)
}

// Document is the persisted form of the favorites.
type Document struct {
	Favorites map[string]string `json:"favorites" yaml:"favorites"`
	Order     []string          `json:"favoriteOrder" yaml:"favoriteOrder"`
}

// Store persists a Document as JSON on an afero filesystem.
type Store struct {
	fs   afero.Fs
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path, now: time.Now}
}

func (s *Store) load() (*Document, error) {
	doc := &Document{Favorites: map[string]string{}, Order: []string{}}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, rperror.Wrap(err, "read favorites")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, rperror.Wrap(errors.Wrap(err, s.path), "decode favorites")
	}
	if doc.Favorites == nil {
		doc.Favorites = map[string]string{}
	}
	if doc.Order == nil {
		doc.Order = []string{}
	}
	return doc, nil
}

func (s *Store) save(doc *Document) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), defaultDirPerms); err != nil {
		return rperror.Wrap(err, "create favorites directory")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return rperror.Wrap(err, "encode favorites")
	}
	if err := afero.WriteFile(s.fs, s.path, data, defaultFilePerms); err != nil {
		return rperror.Wrap(err, "write favorites")
	}
	return nil
}

// reconcileOrder drops titles without a favorite and duplicates, then
// appends the unlisted titles in lexical order.
func reconcileOrder(favorites map[string]string, order []string) []string {
	seen := make(map[string]bool, len(favorites))
	out := make([]string, 0, len(favorites))
	for _, t := range order {
		if _, ok := favorites[t]; !ok || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	missing := []string{}
	for t := range favorites {
		if !seen[t] {
			missing = append(missing, t)
		}
	}
	sort.Strings(missing)
	return append(out, missing...)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// orderedTitles reconciles doc in place and reports whether it changed.
func orderedTitles(doc *Document) bool {
	final := reconcileOrder(doc.Favorites, doc.Order)
	if equalStrings(final, doc.Order) {
		return false
	}
	doc.Order = final
	return true
}

// OrderedTitles returns the favorite titles in display order, persisting the
// corrected order when it had drifted from the favorites.
func (s *Store) OrderedTitles() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if orderedTitles(doc) {
		log.Debugf("favorites order reconciled: %v", doc.Order)
		if err := s.save(doc); err != nil {
			return nil, err
		}
	}
	return doc.Order, nil
}

// Favorites returns the title to relative path mapping.
func (s *Store) Favorites() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Favorites, nil
}

// Path returns the relative path saved under title.
func (s *Store) Path(title string) (string, bool, error) {
	favs, err := s.Favorites()
	if err != nil {
		return "", false, err
	}
	p, ok := favs[title]
	return p, ok, nil
}

// AddFromURL saves the part of a must-gather URL following its quay/registry
// directory. The title is asked through p, defaulting to the last segment of
// url; an empty title cancels and returns "".
func (s *Store) AddFromURL(url string, p Prompter) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, suffix, ok := magna.SplitMustGatherURL(url)
	if !ok || strings.Trim(suffix, "/") == "" {
		return "", rperror.Usage("Only must-gather sub-paths can be added to favorites!")
	}

	doc, err := s.load()
	if err != nil {
		return "", err
	}
	for _, existing := range doc.Favorites {
		if strings.TrimRight(existing, "/") == strings.TrimRight(suffix, "/") {
			return "", rperror.Usage("Sub-path already in favorites!")
		}
	}

	clean := strings.TrimRight(url, "/")
	defaultTitle := clean[strings.LastIndex(clean, "/")+1:]

	answer, err := p.Prompt("Enter a name for this favorite: ", defaultTitle)
	if err != nil {
		return "", rperror.Wrap(err, "prompt favorite name")
	}
	title := strings.TrimSpace(answer)
	if title == "" {
		log.Info("No name given, favorite not saved.")
		return "", nil
	}
	if _, exists := doc.Favorites[title]; exists {
		return "", rperror.Usagef("A favorite named %q already exists.", title)
	}

	order := reconcileOrder(doc.Favorites, doc.Order)
	doc.Favorites[title] = suffix
	doc.Order = append(order, title)
	if err := s.save(doc); err != nil {
		return "", err
	}
	log.Infof("Favorite %q saved: %s", title, suffix)
	return title, nil
}

// Rename moves a favorite to a new title, keeping its display position.
func (s *Store) Rename(oldTitle, newTitle string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(newTitle)
	if trimmed == "" {
		return "", rperror.Usage("Favorite name cannot be empty.")
	}

	doc, err := s.load()
	if err != nil {
		return "", err
	}
	path, ok := doc.Favorites[oldTitle]
	if !ok {
		return "", rperror.Usage("Favorite no longer exists.")
	}
	if _, exists := doc.Favorites[trimmed]; exists {
		return "", rperror.Usagef("A favorite named %q already exists.", trimmed)
	}

	doc.Favorites[trimmed] = path
	delete(doc.Favorites, oldTitle)

	replaced := false
	for i, t := range doc.Order {
		if t == oldTitle {
			doc.Order[i] = trimmed
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Order = append(doc.Order, trimmed)
	}

	if err := s.save(doc); err != nil {
		return "", err
	}
	return trimmed, nil
}

// Delete removes a favorite. It returns false when title does not exist.
func (s *Store) Delete(title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := doc.Favorites[title]; !ok {
		return false, nil
	}
	delete(doc.Favorites, title)

	order := make([]string, 0, len(doc.Order))
	for _, t := range doc.Order {
		if t != title {
			order = append(order, t)
		}
	}
	doc.Order = order
	return true, s.save(doc)
}

// Reorder moves the favorite at src to dst in the display order. Moving an
// entry onto itself is a no-op reported as false.
func (s *Store) Reorder(src, dst int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	orderedTitles(doc)
	order := doc.Order

	if src < 0 || src >= len(order) || dst < 0 || dst >= len(order) {
		return false, rperror.Usagef("Favorite index out of range (have %d favorites).", len(order))
	}
	if src == dst {
		return false, nil
	}

	item := order[src]
	next := make([]string, 0, len(order))
	next = append(next, order[:src]...)
	next = append(next, order[src+1:]...)
	next = append(next[:dst], append([]string{item}, next[dst:]...)...)
	doc.Order = next

	return true, s.save(doc)
}
