package tagcatalog

// UidCounter hands out identifiers for entries, tags and sequences. All three
// namespaces draw from the same counter, so an id is never handed out twice
// even across kinds. The counter is persisted in the global state file.
type UidCounter struct {
	Next uint32 `yaml:"next_uid"`
}

func (u *UidCounter) next() uint32 {
	id := u.Next
	u.Next++
	return id
}

func (u *UidCounter) NextEntry() EntryID {
	return EntryID(u.next())
}

func (u *UidCounter) NextTag() TagID {
	return TagID(u.next())
}

func (u *UidCounter) NextSequence() SequenceID {
	return SequenceID(u.next())
}
