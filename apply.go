package tagcatalog

// ApplyChanges commits a change set. Every added path gets a fresh entry id
// and is reported through onAdd before any removal happens. Entries whose
// path is listed in changes.Remove are then deleted along with their
// sequence memberships.
//
// Applying the same change set twice adds duplicate entries; rescan first.
func ApplyChanges(cat *Catalog, changes ChangeSet, uid *UidCounter, onAdd func(path string, id EntryID)) {
	for _, p := range changes.Add {
		id := cat.InsertEntry(uid, p)
		if onAdd != nil {
			onAdd(p, id)
		}
	}

	if len(changes.Remove) == 0 {
		return
	}
	gone := make(map[string]bool, len(changes.Remove))
	for _, p := range changes.Remove {
		gone[p] = true
	}
	var ids []EntryID
	for id, entry := range cat.Entries {
		if gone[entry.Path] {
			ids = append(ids, id)
		}
	}
	cat.RemoveEntries(ids)
}
