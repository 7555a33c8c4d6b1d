package user

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrForbidden = errors.New("permission denied")
)

const keyPrefix = "users:"

type Service struct {
	kv core.KV
}

func NewService(kv core.KV) *Service {
	return &Service{kv: kv}
}

func key(accountID string) string { return keyPrefix + accountID }

// Create writes the profile for an account the identity provider already knows.
// No referential check is performed; that is the caller's responsibility.
func (svc *Service) Create(ctx context.Context, accountID, email, name, role string) (Profile, error) {
	prof := Profile{
		ID:        accountID,
		Email:     core.CleanString(email, true /* lower */),
		Name:      core.CleanString(name),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(prof)
	if err != nil {
		return Profile{}, errors.Wrap(err, "marshalling profile")
	}
	if err := svc.kv.Set(ctx, key(accountID), data); err != nil {
		return Profile{}, errors.Wrap(err, "writing profile")
	}
	return prof, nil
}

func (svc *Service) GetByID(ctx context.Context, accountID string) (Profile, error) {
	data, err := svc.kv.Get(ctx, key(accountID))
	if err != nil {
		if err == core.ErrKeyNotFound {
			return Profile{}, ErrNotFound
		}
		return Profile{}, errors.Wrap(err, "reading profile")
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return Profile{}, errors.Wrap(err, "unmarshalling profile")
	}
	return prof, nil
}

// RequireRole fails with ErrForbidden unless the account's profile carries the
// expected role. A missing profile is also ErrForbidden: admin gates reveal
// nothing beyond 401 vs 403.
func (svc *Service) RequireRole(ctx context.Context, accountID, role string) error {
	prof, err := svc.GetByID(ctx, accountID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return ErrForbidden
		}
		return err
	}
	if prof.Role != role {
		return ErrForbidden
	}
	return nil
}
