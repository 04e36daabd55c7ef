package keys

import (
	"sort"
	"strconv"
)

// Battle, Pool and Character build the lock key of a mutable resource.
func Battle(id uint) string    { return "battle:" + strconv.FormatUint(uint64(id), 10) }
func Pool(id uint) string      { return "pool:" + strconv.FormatUint(uint64(id), 10) }
func Character(id uint) string { return "character:" + strconv.FormatUint(uint64(id), 10) }

// Finalize is the deduplication key for settling a battle.
func Finalize(id uint) string { return "finalize:" + strconv.FormatUint(uint64(id), 10) }

// Canonical drops empty and duplicate keys and sorts the rest so every
// caller acquires a set of resources in the same order.
func Canonical(keys ...string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
