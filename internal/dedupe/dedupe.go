// Package dedupe provides shared singleflight groups used to collapse
// concurrent identical requests into one execution.
package dedupe

import "golang.org/x/sync/singleflight"

// FinalizeGroup deduplicates settlement of a battle keyed by
// keys.Finalize(battleID), so concurrent finalize calls share one payout.
var FinalizeGroup singleflight.Group
