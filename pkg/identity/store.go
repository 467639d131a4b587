package identity

// Store loads and persists the single client identity used for every
// pairing and command-channel connection.
type Store interface {
	// Load returns the previously persisted identity, or ErrNoIdentity if
	// none has been saved yet.
	Load() (*Identity, error)

	// Save persists id atomically, overwriting whatever was there before.
	Save(id *Identity) error
}

// Get returns the store's identity, generating and persisting a fresh one
// if none exists or the persisted material is corrupt. Corrupt-store
// failures are swallowed here (identity-load failures fall
// back to generating a new identity) and reported through warn, which may
// be nil.
func Get(store Store, deviceName string, warn func(error)) (*Identity, error) {
	id, err := store.Load()
	switch {
	case err == nil:
		return id, nil
	case err == ErrNoIdentity:
		// expected on first run, no warning needed
	default:
		if warn != nil {
			warn(err)
		}
	}

	fresh, err := Generate(deviceName)
	if err != nil {
		return nil, err
	}
	if err := store.Save(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}
