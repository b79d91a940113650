package session

// pushEntry prepends e to the history log and truncates it to max entries,
// dropping the oldest from the tail.
func pushEntry(entries []HistoryEntry, e HistoryEntry, max int) []HistoryEntry {
	updated := append([]HistoryEntry{e}, entries...)
	if len(updated) > max {
		updated = updated[:max]
	}
	return updated
}
