package runner

import (
	"strings"

	"github.com/yaklabco/doxyrst/pkg/convert"
	"github.com/yaklabco/doxyrst/pkg/doxygen"
)

// Select returns the index entries the run converts, in index order.
//
// Entries of unsupported kinds are dropped, and so are repeated refids.
// In test mode an entry is kept only when one of the test entity names
// occurs in its refid once doubled underscores are collapsed, so
// "Domaine_IJK" matches "classDomaine__IJK".
func Select(index *doxygen.Index, opts Options) []doxygen.IndexEntry {
	if index == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(index.Compounds))
	var entries []doxygen.IndexEntry

	for _, entry := range index.Compounds {
		if !convert.Supports(entry.Kind) {
			continue
		}
		if _, ok := seen[entry.RefID]; ok {
			continue
		}
		if opts.Test && !matchesTestEntity(entry.RefID, opts.TestEntities) {
			continue
		}
		seen[entry.RefID] = struct{}{}
		entries = append(entries, entry)
	}

	return entries
}

func matchesTestEntity(refid string, names []string) bool {
	collapsed := strings.ReplaceAll(refid, "__", "_")
	for _, name := range names {
		if name != "" && strings.Contains(collapsed, name) {
			return true
		}
	}
	return false
}
