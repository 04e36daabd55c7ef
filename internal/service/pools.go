package service

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/keys"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

// CreatePool creates an empty entropy pool administered by the caller. When
// a pool authority is configured only that identity may create pools. An
// empty oracle falls back to the configured one.
func (s *Service) CreatePool(ctx context.Context, caller, oracle string) (*entropy.Pool, error) {
	if caller == "" || (s.cfg.PoolAuthority != "" && caller != s.cfg.PoolAuthority) {
		return nil, ErrUnauthorized
	}
	if oracle == "" {
		oracle = s.cfg.PoolOracle
	}
	p := entropy.NewPool(caller, oracle)
	if err := s.repo.Commit(storage.Changes{Pool: p}); err != nil {
		return nil, eris.Wrap(err, "create pool")
	}
	logging.Info("entropy pool created", logging.Fields{constants.LogFieldPoolID: p.ID, constants.LogFieldIdentity: caller})
	s.publish(ctx, events.Event{Kind: events.KindPoolCreated, PoolID: p.ID, Data: map[string]interface{}{
		"authority": p.Authority,
		"oracle":    p.Oracle,
	}})
	return p, nil
}

// RefillPool appends a committed seed batch covering [start, start+count).
func (s *Service) RefillPool(ctx context.Context, caller string, poolID uint, seed [entropy.SeedLen]byte, start uint64, count uint32) (*entropy.Pool, error) {
	unlock := s.locks.Lock(keys.Pool(poolID))
	defer unlock()

	p, err := s.loadPool(poolID)
	if err != nil {
		return nil, err
	}
	np := p.Clone()
	if err := np.Refill(caller, seed, start, count, s.now()); err != nil {
		logging.Error("refill rejected", err, logging.Fields{constants.LogFieldPoolID: poolID, constants.LogFieldIdentity: caller})
		return nil, eris.Wrapf(err, "refill pool %d", poolID)
	}
	if err := s.repo.Commit(storage.Changes{Pool: np}); err != nil {
		return nil, eris.Wrapf(err, "refill pool %d", poolID)
	}
	logging.Info("seed batch refilled", logging.Fields{
		constants.LogFieldPoolID: poolID,
		constants.LogFieldIndex:  start,
		"count":                  count,
		"total_available":        np.TotalAvailable,
	})
	s.publish(ctx, events.Event{Kind: events.KindSeedBatchRefilled, PoolID: poolID, Data: map[string]interface{}{
		"start_index":       start,
		"count":             count,
		"total_available":   np.TotalAvailable,
		"global_next_index": np.GlobalNextIndex,
	}})
	return np, nil
}

func (s *Service) GetPool(poolID uint) (*entropy.Pool, error) {
	return s.loadPool(poolID)
}
