package application

import (
	"time"

	"github.com/bnema/homewatch-cli/internal/domain"
)

// ItemStatus is the read model served to presentation layers: the item plus
// its freshness classification at query time. Elapsed is nil for items that
// were never observed.
type ItemStatus struct {
	Item    domain.MonitoredItem
	Status  domain.DisplayStatus
	Elapsed *time.Duration
}

// SyncResult summarizes one integration sync pass. Matched counts items the
// source knew about, Updated the ones whose observation time advanced,
// Skipped the matched items left untouched (stale source timestamp or
// disabled monitor).
type SyncResult struct {
	Source  domain.ObservationSource
	Matched int
	Updated int
	Skipped int
}
