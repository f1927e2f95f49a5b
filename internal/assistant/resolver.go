package assistant

import (
	"strings"

	"binhoard-api/internal/common"
)

// ResolveBinName looks up a bin by name in the snapshot, case-insensitively.
// An explicit lookup with no hidden caching keeps the staleness window of
// the snapshot visible to callers.
func ResolveBinName(name string, cmdCtx CommandContext) (common.BinID, bool) {
	for _, bin := range cmdCtx.Bins {
		if strings.EqualFold(bin.Name, name) {
			return bin.ID, true
		}
	}
	return "", false
}

// ResolveAreaName looks up an area by name in the snapshot, case-insensitively
func ResolveAreaName(name string, cmdCtx CommandContext) (common.AreaID, bool) {
	for _, area := range cmdCtx.Areas {
		if strings.EqualFold(area.Name, name) {
			return area.ID, true
		}
	}
	return "", false
}

// snapshotHasBin reports whether the snapshot contains the bin identifier
func snapshotHasBin(binID common.BinID, cmdCtx CommandContext) bool {
	for _, bin := range cmdCtx.Bins {
		if bin.ID == binID {
			return true
		}
	}
	return false
}

// snapshotHasArea reports whether the snapshot contains the area identifier
func snapshotHasArea(areaID common.AreaID, cmdCtx CommandContext) bool {
	for _, area := range cmdCtx.Areas {
		if area.ID == areaID {
			return true
		}
	}
	return false
}

// ResolveActions reconciles model-produced bin names with live identifiers.
// Identifiers arriving on the wire are never trusted as-is: a bin_id or
// area_id the snapshot cannot confirm is discarded and resolution falls back
// to the name. Actions still targeting a bin the snapshot does not know are
// excluded: nothing ever executes against an unknown target. Area references
// on create_bin and set_area are resolved when the snapshot has a match but
// otherwise left for execution time, where the area is created on demand.
// Pure function: no network or store calls.
func ResolveActions(actions []Action, cmdCtx CommandContext) []Action {
	resolved := make([]Action, 0, len(actions))

	for _, action := range actions {
		if action.RequiresBin() {
			if action.BinID != "" && !snapshotHasBin(action.BinID, cmdCtx) {
				action.BinID = ""
			}
			if action.BinID == "" {
				binID, found := ResolveBinName(action.BinName, cmdCtx)
				if !found {
					continue
				}
				action.BinID = binID
			}
		}

		if action.AreaID != nil && !snapshotHasArea(*action.AreaID, cmdCtx) {
			action.AreaID = nil
		}
		if action.AreaID == nil && action.AreaName != "" {
			if areaID, found := ResolveAreaName(action.AreaName, cmdCtx); found {
				action.AreaID = &areaID
			}
		}
		// a set_area left with no area reference at all has nothing to assign
		if action.Type == ActionSetArea && action.AreaID == nil && action.AreaName == "" {
			continue
		}

		resolved = append(resolved, action)
	}

	return resolved
}
