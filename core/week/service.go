package week

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core"
)

var ErrNotFound = errors.New("week not found")

const keyPrefix = "weeks:"

// SubjectPrefix is the key namespace holding every week of a subject; the
// subject catalog scans it during cascade deletes.
func SubjectPrefix(subjectID string) string {
	return keyPrefix + subjectID + ":"
}

func key(subjectID, weekID string) string {
	return SubjectPrefix(subjectID) + weekID
}

// Service manages weekly content bundles. Weeks are keyed under their
// subject's namespace so listing a subject is a single prefix scan; operations
// addressed by week ID alone go through an in-memory weekID->subjectID index,
// falling back to a full scan of the weeks namespace when the index is cold.
type Service struct {
	kv core.KV

	mu            sync.RWMutex
	subjectByWeek map[string]string
}

func NewService(kv core.KV) *Service {
	return &Service{
		kv:            kv,
		subjectByWeek: make(map[string]string),
	}
}

func (svc *Service) Create(ctx context.Context, nw NewWeek) (Week, error) {
	wk := Week{
		ID:          core.NewID(),
		SubjectID:   nw.SubjectID,
		WeekNumber:  nw.WeekNumber,
		Title:       nw.Title,
		Description: nw.Description,
		Published:   nw.Published,
		VideoLinks:  DropBlankLinks(nw.VideoLinks),
		AudioLinks:  DropBlankLinks(nw.AudioLinks),
		PDFLinks:    DropBlankLinks(nw.PDFLinks),
		Questions:   nw.Questions,
		CreatedAt:   time.Now().UTC(),
	}
	if wk.Questions == nil {
		wk.Questions = []Question{}
	}
	if err := svc.set(ctx, wk); err != nil {
		return Week{}, err
	}
	svc.index(wk.ID, wk.SubjectID)
	return wk, nil
}

// Update merges the provided fields over the stored week: every present field
// fully replaces the old value, omitted fields are preserved.
func (svc *Service) Update(ctx context.Context, weekID string, uw UpdateWeek) (Week, error) {
	wk, err := svc.GetByID(ctx, weekID)
	if err != nil {
		return Week{}, err
	}

	if uw.WeekNumber != nil {
		wk.WeekNumber = *uw.WeekNumber
	}
	if uw.Title != nil {
		wk.Title = *uw.Title
	}
	if uw.Description != nil {
		wk.Description = *uw.Description
	}
	if uw.Published != nil {
		wk.Published = *uw.Published
	}
	if uw.VideoLinks != nil {
		wk.VideoLinks = DropBlankLinks(*uw.VideoLinks)
	}
	if uw.AudioLinks != nil {
		wk.AudioLinks = DropBlankLinks(*uw.AudioLinks)
	}
	if uw.PDFLinks != nil {
		wk.PDFLinks = DropBlankLinks(*uw.PDFLinks)
	}
	if uw.Questions != nil {
		wk.Questions = *uw.Questions
	}

	if err := svc.set(ctx, wk); err != nil {
		return Week{}, err
	}
	return wk, nil
}

// TogglePublish flips the week's published flag.
func (svc *Service) TogglePublish(ctx context.Context, weekID string) (Week, error) {
	wk, err := svc.GetByID(ctx, weekID)
	if err != nil {
		return Week{}, err
	}
	published := !wk.Published
	return svc.Update(ctx, weekID, UpdateWeek{Published: &published})
}

func (svc *Service) Delete(ctx context.Context, weekID string) error {
	wk, err := svc.GetByID(ctx, weekID)
	if err != nil {
		return err
	}
	if err := svc.kv.Delete(ctx, key(wk.SubjectID, wk.ID)); err != nil {
		return errors.Wrap(err, "deleting week")
	}
	svc.unindex(weekID)
	return nil
}

// DeleteBySubject removes every week under the subject's namespace: a
// best-effort sequence of independent deletes with no atomicity across them.
func (svc *Service) DeleteBySubject(ctx context.Context, subjectID string) error {
	weeks, err := svc.QueryBySubject(ctx, subjectID)
	if err != nil {
		return err
	}
	for _, wk := range weeks {
		if err := svc.kv.Delete(ctx, key(subjectID, wk.ID)); err != nil {
			return errors.Wrap(err, "deleting week")
		}
		svc.unindex(wk.ID)
	}
	return nil
}

// QueryBySubject returns the subject's weeks sorted ascending by WeekNumber
// (stable for ties), unfiltered: visibility filtering is the calling context's
// responsibility and Published exists for student-facing callers.
func (svc *Service) QueryBySubject(ctx context.Context, subjectID string) ([]Week, error) {
	docs, err := svc.kv.ScanPrefix(ctx, SubjectPrefix(subjectID))
	if err != nil {
		return nil, errors.Wrap(err, "scanning weeks")
	}
	weeks, err := svc.decode(docs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].WeekNumber < weeks[j].WeekNumber })
	return weeks, nil
}

// GetByID locates a week by ID alone.
func (svc *Service) GetByID(ctx context.Context, weekID string) (Week, error) {
	svc.mu.RLock()
	subjectID, ok := svc.subjectByWeek[weekID]
	svc.mu.RUnlock()

	if ok {
		data, err := svc.kv.Get(ctx, key(subjectID, weekID))
		if err == nil {
			var wk Week
			if err := json.Unmarshal(data, &wk); err != nil {
				return Week{}, errors.Wrap(err, "unmarshalling week")
			}
			return wk, nil
		}
		if err != core.ErrKeyNotFound {
			return Week{}, errors.Wrap(err, "reading week")
		}
		svc.unindex(weekID) // stale entry
	}
	return svc.scanForID(ctx, weekID)
}

// Published returns the student-visible subset of weeks.
func Published(weeks []Week) []Week {
	out := make([]Week, 0, len(weeks))
	for _, wk := range weeks {
		if wk.Published {
			out = append(out, wk)
		}
	}
	return out
}

// scanForID walks the whole weeks namespace; O(total weeks), amortized away by
// the index once a week has been seen.
func (svc *Service) scanForID(ctx context.Context, weekID string) (Week, error) {
	docs, err := svc.kv.ScanPrefix(ctx, keyPrefix)
	if err != nil {
		return Week{}, errors.Wrap(err, "scanning weeks")
	}
	weeks, err := svc.decode(docs)
	if err != nil {
		return Week{}, err
	}
	for _, wk := range weeks {
		svc.index(wk.ID, wk.SubjectID)
		if wk.ID == weekID {
			return wk, nil
		}
	}
	return Week{}, ErrNotFound
}

func (svc *Service) set(ctx context.Context, wk Week) error {
	data, err := json.Marshal(wk)
	if err != nil {
		return errors.Wrap(err, "marshalling week")
	}
	return errors.Wrap(svc.kv.Set(ctx, key(wk.SubjectID, wk.ID), data), "writing week")
}

func (svc *Service) decode(docs [][]byte) ([]Week, error) {
	weeks := make([]Week, 0, len(docs))
	for _, doc := range docs {
		var wk Week
		if err := json.Unmarshal(doc, &wk); err != nil {
			return nil, errors.Wrap(err, "unmarshalling week")
		}
		weeks = append(weeks, wk)
	}
	return weeks, nil
}

func (svc *Service) index(weekID, subjectID string) {
	svc.mu.Lock()
	svc.subjectByWeek[weekID] = subjectID
	svc.mu.Unlock()
}

func (svc *Service) unindex(weekID string) {
	svc.mu.Lock()
	delete(svc.subjectByWeek, weekID)
	svc.mu.Unlock()
}
