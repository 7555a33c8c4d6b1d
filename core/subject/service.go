package subject

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core"
	"github.com/elimuhub/elimu/core/week"
)

var ErrNotFound = errors.New("subject not found")

const keyPrefix = "subjects:"

type Service struct {
	kv      core.KV
	weekSvc *week.Service
}

func NewService(kv core.KV, weekSvc *week.Service) *Service {
	return &Service{kv: kv, weekSvc: weekSvc}
}

func key(id string) string { return keyPrefix + id }

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	sub := Subject{
		ID:          core.NewID(),
		Name:        ns.Name,
		Description: ns.Description,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(sub)
	if err != nil {
		return Subject{}, errors.Wrap(err, "marshalling subject")
	}
	if err := svc.kv.Set(ctx, key(sub.ID), data); err != nil {
		return Subject{}, errors.Wrap(err, "writing subject")
	}
	return sub, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	data, err := svc.kv.Get(ctx, key(id))
	if err != nil {
		if err == core.ErrKeyNotFound {
			return Subject{}, ErrNotFound
		}
		return Subject{}, errors.Wrap(err, "reading subject")
	}
	var sub Subject
	if err := json.Unmarshal(data, &sub); err != nil {
		return Subject{}, errors.Wrap(err, "unmarshalling subject")
	}
	return sub, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Subject, error) {
	docs, err := svc.kv.ScanPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "scanning subjects")
	}
	subjects := make([]Subject, 0, len(docs))
	for _, doc := range docs {
		var sub Subject
		if err := json.Unmarshal(doc, &sub); err != nil {
			return nil, errors.Wrap(err, "unmarshalling subject")
		}
		subjects = append(subjects, sub)
	}
	return subjects, nil
}

// Delete removes the subject and cascades over every week in its namespace.
// The cascade is a best-effort sequence of independent deletes: a week created
// concurrently can survive as an orphan, there is no atomicity across keys.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.GetByID(ctx, id); err != nil {
		return err
	}
	if err := svc.kv.Delete(ctx, key(id)); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return svc.weekSvc.DeleteBySubject(ctx, id)
}
