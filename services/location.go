package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"yumzy-partner/db"
	"yumzy-partner/models"

	"gopkg.in/yaml.v3"
)

// ListLocations returns the delivery catalog. Blank base names are skipped.
func ListLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT COALESCE(name, ''), COALESCE(sub_locations, '{}')
		FROM locations
		ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.Name, &l.SubLocations); err != nil {
			return nil, err
		}
		if strings.TrimSpace(l.Name) == "" {
			continue
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

// UpsertLocations writes catalog entries, replacing sub-locations of existing bases.
func UpsertLocations(ctx context.Context, locs []models.Location) (int, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n := 0
	for _, l := range locs {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO locations (name, sub_locations) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET sub_locations = EXCLUDED.sub_locations`,
			name, normalizeLocations(l.SubLocations),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert location %q: %w", name, err)
		}
		n++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return n, nil
}

// normalizeLocations trims names and drops blanks and duplicates, keeping order.
func normalizeLocations(locs []string) []string {
	seen := make(map[string]bool, len(locs))
	out := make([]string, 0, len(locs))
	for _, l := range locs {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

type locationFile struct {
	Locations []models.Location `yaml:"locations"`
}

// ParseLocationsYAML reads a catalog of the form
//
//	locations:
//	  - name: Campus
//	    subLocations: [Hall A, Hall B]
func ParseLocationsYAML(data []byte) ([]models.Location, error) {
	var f locationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}
	return f.Locations, nil
}

func LoadLocationsFile(path string) ([]models.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLocationsYAML(data)
}

// DeliverySelection tracks which sub-locations of each base a restaurant
// delivers to while its profile is being edited. Bases keep the order in
// which they were first selected.
type DeliverySelection struct {
	catalog  []models.Location
	selected map[string][]string
	bases    []string
}

func NewDeliverySelection(catalog []models.Location) *DeliverySelection {
	return &DeliverySelection{catalog: catalog, selected: make(map[string][]string)}
}

// SetInitial replaces the selection with the saved delivery locations that
// exist in the catalog, grouped by base in catalog order.
func (s *DeliverySelection) SetInitial(saved []string) *DeliverySelection {
	want := make(map[string]bool, len(saved))
	for _, l := range saved {
		want[strings.TrimSpace(l)] = true
	}
	s.selected = make(map[string][]string)
	s.bases = nil
	for _, base := range s.catalog {
		var picked []string
		for _, sub := range base.SubLocations {
			if want[sub] && !s.IsSelected(base.Name, sub) {
				picked = append(picked, sub)
			}
		}
		if len(picked) > 0 {
			s.set(base.Name, append(s.selected[base.Name], picked...))
		}
	}
	return s
}

// Has reports whether sub is listed under base in the catalog.
func (s *DeliverySelection) Has(base, sub string) bool {
	for _, l := range s.catalog {
		if l.Name != base {
			continue
		}
		for _, v := range l.SubLocations {
			if v == sub {
				return true
			}
		}
	}
	return false
}

func (s *DeliverySelection) set(base string, subs []string) {
	if _, ok := s.selected[base]; !ok {
		s.bases = append(s.bases, base)
	}
	s.selected[base] = subs
}

func (s *DeliverySelection) remove(base string) {
	delete(s.selected, base)
	for i, b := range s.bases {
		if b == base {
			s.bases = append(s.bases[:i:i], s.bases[i+1:]...)
			return
		}
	}
}

// Toggle flips one sub-location under a base. A base with nothing selected is
// dropped and goes to the end when selected again.
func (s *DeliverySelection) Toggle(base, sub string) {
	cur := s.selected[base]
	idx := -1
	for i, v := range cur {
		if v == sub {
			idx = i
			break
		}
	}
	if idx >= 0 {
		cur = append(cur[:idx:idx], cur[idx+1:]...)
	} else {
		cur = append(cur[:len(cur):len(cur)], sub)
	}
	if len(cur) == 0 {
		s.remove(base)
		return
	}
	s.set(base, cur)
}

func (s *DeliverySelection) IsSelected(base, sub string) bool {
	for _, v := range s.selected[base] {
		if v == sub {
			return true
		}
	}
	return false
}

// Final flattens the selection base by base in selection order.
func (s *DeliverySelection) Final() []string {
	out := []string{}
	for _, base := range s.bases {
		out = append(out, s.selected[base]...)
	}
	return out
}
