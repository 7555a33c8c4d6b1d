package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core"
)

const keyPrefix = "progress:"

type Service struct {
	kv core.KV
}

func NewService(kv core.KV) *Service {
	return &Service{kv: kv}
}

func userPrefix(userID string) string {
	return keyPrefix + userID + ":"
}

func key(userID, weekID string) string {
	return userPrefix(userID) + weekID
}

// Save upserts the (user, week) record. The write is unconditional and
// LastAccessed is reset on every call, whether or not Completed changed.
func (svc *Service) Save(ctx context.Context, userID, weekID string, completed bool) (Record, error) {
	rec := Record{
		UserID:       userID,
		WeekID:       weekID,
		Completed:    completed,
		LastAccessed: time.Now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "marshalling progress record")
	}
	if err := svc.kv.Set(ctx, key(userID, weekID), data); err != nil {
		return Record{}, errors.Wrap(err, "writing progress record")
	}
	return rec, nil
}

// Query returns every record under the user's namespace.
func (svc *Service) Query(ctx context.Context, userID string) ([]Record, error) {
	docs, err := svc.kv.ScanPrefix(ctx, userPrefix(userID))
	if err != nil {
		return nil, errors.Wrap(err, "scanning progress records")
	}
	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		var rec Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, errors.Wrap(err, "unmarshalling progress record")
		}
		records = append(records, rec)
	}
	return records, nil
}
