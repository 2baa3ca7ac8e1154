package layout

import (
	"embed"
	"io/fs"
)

//go:embed profiles/*
var embeddedProfiles embed.FS

// EmbeddedFS returns the bundled layout profiles. Callers may pass this
// filesystem to LoadFS to use the default configuration.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedProfiles, "profiles")
	if err != nil {
		panic(err)
	}
	return sub
}

// Default loads the bundled DefaultProfileID profile.
func Default() (Profile, error) {
	store, err := LoadFS(EmbeddedFS())
	if err != nil {
		return Profile{}, err
	}
	profile, ok := store.Profile(DefaultProfileID)
	if !ok {
		return Profile{}, errMissingProfile(DefaultProfileID)
	}
	return profile, nil
}
