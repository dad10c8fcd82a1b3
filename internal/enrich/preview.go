package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Preview holds the suggestion rows for one batch along with the teacher's
// image selections and approvals. Refreshing a word excludes every image the
// word has already been shown, so new suggestions keep arriving.
type Preview struct {
	source RowSource
	listID int

	mu       sync.Mutex
	entries  map[string]WordEntry
	rows     map[string]Row
	order    []string
	selected map[string]ImageCandidate
	approved map[string]bool
	seen     map[string][]string
}

// NewPreview builds an empty preview over source for the given list.
func NewPreview(source RowSource, listID int) *Preview {
	return &Preview{
		source:   source,
		listID:   listID,
		entries:  make(map[string]WordEntry),
		rows:     make(map[string]Row),
		selected: make(map[string]ImageCandidate),
		approved: make(map[string]bool),
		seen:     make(map[string][]string),
	}
}

// Load fetches suggestions for each entry and pre-selects the first image of
// every row. Blank words are skipped.
func (p *Preview) Load(ctx context.Context, entries []WordEntry) error {
	for _, entry := range entries {
		word := strings.TrimSpace(entry.Word)
		if word == "" {
			continue
		}
		entry.Word = word
		row, err := p.source.PreviewWord(ctx, p.listID, entry)
		if err != nil {
			return fmt.Errorf("preview %q: %w", word, err)
		}
		p.mu.Lock()
		key := keyFor(word)
		if _, ok := p.rows[key]; !ok {
			p.order = append(p.order, key)
		}
		p.entries[key] = entry
		p.applyRowLocked(key, row)
		p.mu.Unlock()
	}
	return nil
}

// applyRowLocked installs a fresh row: selection resets to the first image,
// approval resets, and the shown images join the word's exclusion history.
func (p *Preview) applyRowLocked(key string, row Row) {
	p.rows[key] = row
	delete(p.selected, key)
	delete(p.approved, key)
	if len(row.Images) > 0 {
		p.selected[key] = row.Images[0]
	}
	for _, img := range row.Images {
		if !contains(p.seen[key], img.URL) {
			p.seen[key] = append(p.seen[key], img.URL)
		}
	}
}

// Refresh re-fetches one word, excluding every image already shown for it.
func (p *Preview) Refresh(ctx context.Context, word string) error {
	key := keyFor(word)
	p.mu.Lock()
	entry, ok := p.entries[key]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("unknown word %q", word)
	}
	entry.ExcludeImages = append([]string(nil), p.seen[key]...)
	p.mu.Unlock()

	row, err := p.source.PreviewWord(ctx, p.listID, entry)
	if err != nil {
		return fmt.Errorf("refresh %q: %w", word, err)
	}

	p.mu.Lock()
	p.applyRowLocked(key, row)
	p.mu.Unlock()
	return nil
}

// SelectImage picks one of the row's suggested images for the word.
func (p *Preview) SelectImage(word, url string) error {
	key := keyFor(word)
	p.mu.Lock()
	defer p.mu.Unlock()
	row, ok := p.rows[key]
	if !ok {
		return fmt.Errorf("unknown word %q", word)
	}
	for _, img := range row.Images {
		if img.URL == url {
			p.selected[key] = img
			return nil
		}
	}
	return fmt.Errorf("image %q is not a suggestion for %q", url, word)
}

// ClearSelection drops the word's selected image and its approval.
func (p *Preview) ClearSelection(word string) {
	key := keyFor(word)
	p.mu.Lock()
	delete(p.selected, key)
	delete(p.approved, key)
	p.mu.Unlock()
}

// Approve marks the word's current selection as approved. Words without a
// selected image cannot be approved.
func (p *Preview) Approve(word string) error {
	key := keyFor(word)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.selected[key]; !ok {
		return fmt.Errorf("no image selected for %q", word)
	}
	p.approved[key] = true
	return nil
}

// ApproveAll approves every word that currently has a selected image.
func (p *Preview) ApproveAll() {
	p.mu.Lock()
	for key := range p.selected {
		p.approved[key] = true
	}
	p.mu.Unlock()
}

// Rows returns the current rows in load order.
func (p *Preview) Rows() []Row {
	p.mu.Lock()
	defer p.mu.Unlock()
	rows := make([]Row, 0, len(p.order))
	for _, key := range p.order {
		rows = append(rows, p.rows[key])
	}
	return rows
}

// Selected reports the chosen image for a word, if any.
func (p *Preview) Selected(word string) (ImageCandidate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	img, ok := p.selected[keyFor(word)]
	return img, ok
}

// Items builds the confirm payload. Facts always ship unapproved; the
// product has teachers vet facts in a later pass.
func (p *Preview) Items() []ConfirmItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]ConfirmItem, 0, len(p.order))
	for _, key := range p.order {
		row := p.rows[key]
		item := ConfirmItem{
			Word:        row.Word,
			Translation: row.Translation,
			ApproveFact: false,
		}
		if img, ok := p.selected[key]; ok {
			copied := img
			item.Image = &copied
			item.ApproveImage = p.approved[key]
		}
		items = append(items, item)
	}
	return items
}

// SeenImages reports the exclusion history for a word, sorted for stable
// inspection.
func (p *Preview) SeenImages(word string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	urls := append([]string(nil), p.seen[keyFor(word)]...)
	sort.Strings(urls)
	return urls
}

func keyFor(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
