package favorites

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ImportMode selects how an imported payload combines with stored favorites.
type ImportMode int

const (
	// ModeMerge adds imported favorites; imported paths win on title clashes.
	ModeMerge ImportMode = iota
	// ModeReplace discards the stored favorites.
	ModeReplace
)

// ImportResult counts what an import changed.
type ImportResult struct {
	Added   int
	Updated int
	Skipped int
}

// Export returns the stored favorites in display order.
func (s *Store) Export() (*Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if orderedTitles(doc) {
		if err := s.save(doc); err != nil {
			return nil, err
		}
	}
	return &Payload{
		Favorites:     doc.Favorites,
		FavoriteOrder: doc.Order,
		ExportedAt:    s.now().UTC().Format(time.RFC3339),
		Version:       PayloadVersion,
		keys:          doc.Order,
	}, nil
}

// Import stores the favorites of p.
func (s *Store) Import(p *Payload, mode ImportMode) (*ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	imported, order := reconcileImport(p.Favorites, p.Keys(), p.FavoriteOrder)

	if mode == ModeReplace {
		doc := &Document{Favorites: imported, Order: order}
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return &ImportResult{Added: len(order)}, nil
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	orderedTitles(doc)

	owners := make(map[string]string, len(doc.Favorites))
	for t, path := range doc.Favorites {
		owners[strings.TrimRight(path, "/")] = t
	}

	res := &ImportResult{}
	for _, title := range order {
		path := imported[title]
		key := strings.TrimRight(path, "/")
		if owner, ok := owners[key]; ok && owner != title {
			log.Warnf("Skipping favorite %q: sub-path already saved as %q", title, owner)
			res.Skipped++
			continue
		}
		current, exists := doc.Favorites[title]
		switch {
		case !exists:
			doc.Order = append(doc.Order, title)
			res.Added++
		case current != path:
			delete(owners, strings.TrimRight(current, "/"))
			res.Updated++
		default:
			continue
		}
		doc.Favorites[title] = path
		owners[key] = title
	}

	if err := s.save(doc); err != nil {
		return nil, err
	}
	return res, nil
}
