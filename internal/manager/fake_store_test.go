package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type item struct {
	ID     string
	Code   string
	Name   string
	Note   *string
	Status string
}

type itemDraft struct {
	Code   string
	Name   string
	Note   string
	Status string
}

func (it item) draft() itemDraft {
	note := ""
	if it.Note != nil {
		note = *it.Note
	}
	return itemDraft{Code: it.Code, Name: it.Name, Note: note, Status: it.Status}
}

func itemSpec() Spec[item, itemDraft] {
	return Spec[item, itemDraft]{
		Relation:     "items",
		Noun:         "item",
		ID:           func(it item) string { return it.ID },
		Key:          func(it item) string { return it.Code },
		Label:        func(it item) string { return it.Name },
		SearchFields: func(it item) []string { return []string{it.Code, it.Name} },
		Status:       func(it item) string { return it.Status },
		Statuses:     []string{"active", "inactive"},
		NewDraft:     func() itemDraft { return itemDraft{Status: "active"} },
		DraftOf:      item.draft,
		Fields: []Field[itemDraft]{
			{Key: "code", Title: "Code", Required: true, Bind: func(d *itemDraft) *string { return &d.Code }},
			{Key: "name", Title: "Name", Required: true, Bind: func(d *itemDraft) *string { return &d.Name }},
			{Key: "note", Title: "Note", Bind: func(d *itemDraft) *string { return &d.Note }},
			{Key: "status", Title: "Status", Kind: KindEnum, Required: true, Options: []string{"active", "inactive"},
				Bind: func(d *itemDraft) *string { return &d.Status }},
		},
	}
}

type call struct {
	Op    string
	ID    string
	Draft itemDraft
}

// fakeStore is an in-memory Store that records every call.
type fakeStore struct {
	mu     sync.Mutex
	items  []item
	calls  []call
	nextID int

	listErr   error
	insertErr error
	updateErr error
	deleteErr error

	// When set, Insert signals entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func newFakeStore(items ...item) *fakeStore {
	return &fakeStore{items: items}
}

func (s *fakeStore) List(context.Context) ([]item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{Op: "list"})
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]item(nil), s.items...), nil
}

func (s *fakeStore) Insert(_ context.Context, d itemDraft) (item, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{Op: "insert", Draft: d})
	if s.insertErr != nil {
		return item{}, s.insertErr
	}
	s.nextID++
	it := fromDraft(fmt.Sprintf("new-%d", s.nextID), d)
	s.items = append(s.items, it)
	return it, nil
}

func (s *fakeStore) Update(_ context.Context, id string, d itemDraft) (item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{Op: "update", ID: id, Draft: d})
	if s.updateErr != nil {
		return item{}, s.updateErr
	}
	for i, it := range s.items {
		if it.ID == id {
			s.items[i] = fromDraft(id, d)
			return s.items[i], nil
		}
	}
	return item{}, errors.New("not found")
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{Op: "delete", ID: id})
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (s *fakeStore) mutations() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		if c.Op != "list" {
			out = append(out, c)
		}
	}
	return out
}

func fromDraft(id string, d itemDraft) item {
	it := item{ID: id, Code: d.Code, Name: d.Name, Status: d.Status}
	if d.Note != "" {
		note := d.Note
		it.Note = &note
	}
	return it
}
