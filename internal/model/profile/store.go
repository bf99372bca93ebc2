package profile

// Store exposes agent profile retrieval.
type Store interface {
	List() []Profile
	FindByID(id string) (Profile, bool)
	FindByCollection(collection string) (Profile, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Profile
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied profiles.
func NewMemoryStore(items []Profile) *MemoryStore {
	return &MemoryStore{items: append([]Profile(nil), items...)}
}

// List returns the predefined profile list.
func (s *MemoryStore) List() []Profile {
	return append([]Profile(nil), s.items...)
}

// FindByID looks up a profile by identifier.
func (s *MemoryStore) FindByID(id string) (Profile, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Profile{}, false
}

// FindByCollection looks up the profile managing the given record collection.
func (s *MemoryStore) FindByCollection(collection string) (Profile, bool) {
	for _, item := range s.items {
		if item.Collection == collection {
			return item, true
		}
	}
	return Profile{}, false
}
