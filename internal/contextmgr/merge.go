package contextmgr

import "github.com/crukhq/supporter-engagement/internal/model"

// applyUpdate produces the next context by shallow-replacing the fields
// the update carries. Slices replace wholesale; nil fields keep the
// current value. ClearFlow drops the active flow.
func applyUpdate(current *model.UserContext, update model.ContextUpdate) *model.UserContext {
	next := cloneContext(current)

	if update.Profile != nil {
		next.Profile = update.Profile
	}
	if update.EngagementHistory != nil {
		next.EngagementHistory = update.EngagementHistory
	}
	if update.Preferences != nil {
		next.Preferences = *update.Preferences
	}
	if update.ClearFlow {
		next.CurrentFlow = nil
	} else if update.CurrentFlow != nil {
		next.CurrentFlow = update.CurrentFlow
	}

	return next
}

// mergeUpdate folds the update into the current context: history is
// appended, interests and cause areas unioned (first occurrence wins
// the position), communication preferences taken from the update.
func mergeUpdate(current *model.UserContext, update model.ContextUpdate) *model.UserContext {
	next := cloneContext(current)

	if update.Profile != nil {
		next.Profile = update.Profile
	}
	if len(update.EngagementHistory) > 0 {
		next.EngagementHistory = append(next.EngagementHistory, update.EngagementHistory...)
	}
	if update.Preferences != nil {
		next.Preferences.Interests = unionStrings(next.Preferences.Interests, update.Preferences.Interests)
		next.Preferences.CauseAreas = unionStrings(next.Preferences.CauseAreas, update.Preferences.CauseAreas)
		next.Preferences.CommunicationPreferences = update.Preferences.CommunicationPreferences
	}
	if update.ClearFlow {
		next.CurrentFlow = nil
	} else if update.CurrentFlow != nil {
		next.CurrentFlow = update.CurrentFlow
	}

	return next
}

// cloneContext copies a context deeply enough that mutating the result
// never touches the stored version.
func cloneContext(c *model.UserContext) *model.UserContext {
	next := *c
	next.EngagementHistory = append([]model.EngagementRecord(nil), c.EngagementHistory...)
	next.Preferences.Interests = append([]string(nil), c.Preferences.Interests...)
	next.Preferences.CauseAreas = append([]string(nil), c.Preferences.CauseAreas...)
	if c.CurrentFlow != nil {
		flow := *c.CurrentFlow
		next.CurrentFlow = &flow
	}
	return &next
}

func unionStrings(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	out := append([]string(nil), base...)
	for _, s := range base {
		seen[s] = true
	}
	for _, s := range extra {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
