package tagcatalog

import (
	"fmt"
	"sort"
)

func (c *Catalog) CreateSequence(uid *UidCounter, name string) SequenceID {
	id := uid.NextSequence()
	c.Sequences[id] = &Sequence{Name: name}
	return id
}

func (c *Catalog) RemoveSequence(id SequenceID) {
	delete(c.Sequences, id)
}

func (c *Catalog) SequenceByName(name string) (SequenceID, bool) {
	var found []SequenceID
	for id, seq := range c.Sequences {
		if seq.Name == name {
			found = append(found, id)
		}
	}
	if len(found) == 0 {
		return 0, false
	}
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	return found[0], true
}

func (c *Catalog) sequence(id SequenceID) (*Sequence, error) {
	seq, ok := c.Sequences[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNoSuchSequence, id)
	}
	return seq, nil
}

// AddToSequence appends entries to the end of a sequence. The new batch is
// sorted by path; entries already in the sequence or missing from the
// catalog are skipped.
func (c *Catalog) AddToSequence(id SequenceID, ids []EntryID) error {
	seq, err := c.sequence(id)
	if err != nil {
		return err
	}
	present := make(map[EntryID]bool, len(seq.Entries))
	for _, e := range seq.Entries {
		present[e] = true
	}

	var batch []EntryID
	for _, e := range ids {
		if _, ok := c.Entries[e]; !ok || present[e] {
			continue
		}
		present[e] = true
		batch = append(batch, e)
	}
	sort.SliceStable(batch, func(i, j int) bool {
		return c.Entries[batch[i]].Path < c.Entries[batch[j]].Path
	})
	seq.Entries = append(seq.Entries, batch...)
	return nil
}

func (c *Catalog) RemoveFromSequence(id SequenceID, entry EntryID) error {
	seq, err := c.sequence(id)
	if err != nil {
		return err
	}
	idx := indexOfEntry(seq.Entries, entry)
	if idx < 0 {
		return fmt.Errorf("%w: entry %d is not in sequence %q", ErrNoSuchEntry, entry, seq.Name)
	}
	seq.Entries = append(seq.Entries[:idx], seq.Entries[idx+1:]...)
	return nil
}

// SwapLeft moves entry one position towards the front. It is a no-op for
// the first element.
func (c *Catalog) SwapLeft(id SequenceID, entry EntryID) error {
	return c.reposition(id, entry, func(idx, n int) int { return max(idx-1, 0) })
}

// SwapRight moves entry one position towards the back.
func (c *Catalog) SwapRight(id SequenceID, entry EntryID) error {
	return c.reposition(id, entry, func(idx, n int) int { return min(idx+1, n-1) })
}

func (c *Catalog) MoveFirst(id SequenceID, entry EntryID) error {
	return c.reposition(id, entry, func(int, int) int { return 0 })
}

func (c *Catalog) MoveLast(id SequenceID, entry EntryID) error {
	return c.reposition(id, entry, func(_, n int) int { return n - 1 })
}

// MoveTo moves entry so that it ends up at index.
func (c *Catalog) MoveTo(id SequenceID, entry EntryID, index int) error {
	seq, err := c.sequence(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(seq.Entries) {
		return fmt.Errorf("%w: %d (sequence %q has %d entries)", ErrIndexOutOfRange, index, seq.Name, len(seq.Entries))
	}
	return c.reposition(id, entry, func(int, int) int { return index })
}

func (c *Catalog) reposition(id SequenceID, entry EntryID, target func(idx, n int) int) error {
	seq, err := c.sequence(id)
	if err != nil {
		return err
	}
	idx := indexOfEntry(seq.Entries, entry)
	if idx < 0 {
		return fmt.Errorf("%w: entry %d is not in sequence %q", ErrNoSuchEntry, entry, seq.Name)
	}
	to := target(idx, len(seq.Entries))
	if to == idx {
		return nil
	}
	rest := append(seq.Entries[:idx:idx], seq.Entries[idx+1:]...)
	moved := make([]EntryID, 0, len(seq.Entries))
	moved = append(moved, rest[:to]...)
	moved = append(moved, entry)
	moved = append(moved, rest[to:]...)
	seq.Entries = moved
	return nil
}

// RelatedSequences returns the sequences containing any of the given
// entries, ordered by id.
func (c *Catalog) RelatedSequences(ids []EntryID) []SequenceID {
	wanted := make(map[EntryID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var related []SequenceID
	for seqID, seq := range c.Sequences {
		for _, e := range seq.Entries {
			if wanted[e] {
				related = append(related, seqID)
				break
			}
		}
	}
	sort.Slice(related, func(i, j int) bool { return related[i] < related[j] })
	return related
}

func (c *Catalog) SequenceInfo(id SequenceID) SequenceInfo {
	info := SequenceInfo{ID: id, Entries: []string{}}
	seq, ok := c.Sequences[id]
	if !ok {
		info.Name = fmt.Sprintf("<invalid sequence %d>", id)
		return info
	}
	info.Name = seq.Name
	for _, e := range seq.Entries {
		p, _ := c.EntryDisplayPath(e)
		info.Entries = append(info.Entries, p)
	}
	return info
}

// SequenceInfos lists every sequence ordered by name, then id.
func (c *Catalog) SequenceInfos() []SequenceInfo {
	infos := make([]SequenceInfo, 0, len(c.Sequences))
	for id := range c.Sequences {
		infos = append(infos, c.SequenceInfo(id))
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name != infos[j].Name {
			return infos[i].Name < infos[j].Name
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

func indexOfEntry(ids []EntryID, id EntryID) int {
	for i, e := range ids {
		if e == id {
			return i
		}
	}
	return -1
}
