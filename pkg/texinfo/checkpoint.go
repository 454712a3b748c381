package texinfo

// CheckpointPolicy decides when a partially built store is persisted.
type CheckpointPolicy interface {
	// Inserted is called after each entry is added to the store.
	Inserted(s *Store)
}

// EveryN saves the store each time the number of path keys reaches a new
// multiple of N. Overwrites of existing keys never trigger a save.
type EveryN struct {
	N       int
	Save    func(s *Store) error
	OnError func(err error)

	last  int
	saves int
}

// NewEveryN returns a policy for s that counts from the keys s already holds,
// so a preloaded store at a multiple of n does not save again on its first
// overwrite.
func NewEveryN(s *Store, n int, save func(s *Store) error) *EveryN {
	return &EveryN{N: n, Save: save, last: s.PathCount()}
}

// Inserted implements CheckpointPolicy.
func (p *EveryN) Inserted(s *Store) {
	count := s.PathCount()
	if p.N <= 0 || p.Save == nil || count == 0 || count%p.N != 0 || count == p.last {
		return
	}
	p.last = count

	if err := p.Save(s); err != nil {
		if p.OnError != nil {
			p.OnError(err)
		}
		return
	}
	p.saves++
}

// Saves returns how many checkpoints were written.
func (p *EveryN) Saves() int {
	return p.saves
}
