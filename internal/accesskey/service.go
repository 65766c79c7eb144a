package accesskey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hostbay/panelgate/internal/panelconfig"
)

var (
	ErrMissingKey    = errors.New("access key is required")
	ErrKeyNotFound   = errors.New("access key not found")
	ErrKeyInactive   = errors.New("access key is not active")
	ErrKeyBanned     = errors.New("access key is banned")
	ErrKeyRestricted = errors.New("access key is not allowed for this panel type")
)

// Service decides whether a presented access key may be used. It is the only
// component that mutates key records: expired bans are cleared during
// evaluation, and successful authorizations charge the usage counter.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CheckStatus evaluates the state machine over a stored key. It is read-only
// except for reconcileBan: checking an expired ban lifts it, which is the
// only mechanism that ever lifts one.
func (s *Service) CheckStatus(ctx context.Context, key string) (*StatusResult, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	k, err := s.store.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return &StatusResult{Status: StatusNotFound, Message: "Access Key not found."}, nil
		}
		return nil, err
	}

	if err := s.reconcileBan(ctx, k); err != nil {
		return nil, err
	}

	if k.IsBanned {
		return &StatusResult{Status: StatusBanned, Message: "Access Key is currently banned."}, nil
	}

	if !k.IsActive {
		return &StatusResult{Status: StatusInactive, Message: "Access Key is not active."}, nil
	}

	return &StatusResult{
		Status:      StatusActive,
		Message:     fmt.Sprintf("Access Key active, type: %s", k.Restriction),
		Restriction: k.Restriction,
	}, nil
}

// Authorize validates a key for provisioning a panel of the requested type
// and, on success, charges one use.
//
// Usage is charged at authorization time, not at provisioning completion: a
// later upstream failure does not refund the count. This rate-limits
// authorization attempts rather than successful provisions.
func (s *Service) Authorize(ctx context.Context, key string, panelType panelconfig.PanelType) (*Key, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	k, err := s.store.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.reconcileBan(ctx, k); err != nil {
		return nil, err
	}

	if k.IsBanned {
		return nil, ErrKeyBanned
	}
	if !k.IsActive {
		return nil, ErrKeyInactive
	}

	if !k.Restriction.Allows(panelType) {
		slog.Warn("Access key restricted for requested panel type",
			"restriction", k.Restriction,
			"panel_type", panelType)
		return nil, ErrKeyRestricted
	}

	count, err := s.store.IncrementUsage(ctx, key)
	if err != nil {
		return nil, err
	}
	k.UsageCount = count

	return k, nil
}

// reconcileBan clears an expired non-permanent ban from the persisted record
// and from k. It is idempotent: a second pass over an already cleared key
// changes nothing.
func (s *Service) reconcileBan(ctx context.Context, k *Key) error {
	if !k.IsBanned || k.Ban == nil || !k.Ban.Expired(time.Now()) {
		return nil
	}

	if err := s.store.ClearBan(ctx, k.Key); err != nil {
		return err
	}

	slog.Info("Expired ban cleared", "key_id", k.ID)
	k.IsBanned = false
	k.Ban = nil
	return nil
}
