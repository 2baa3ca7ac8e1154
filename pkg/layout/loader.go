package layout

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfill/pkg/pathindex"
	"github.com/goliatone/go-formfill/pkg/record"
)

const defaultSelectedToken = "/1"

// Store holds the profiles loaded from a filesystem.
type Store struct {
	profiles map[string]Profile
}

// LoadFS walks the provided filesystem and parses JSON/YAML profile files.
// When fsys is nil or no profile files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{profiles: make(map[string]Profile)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isProfileFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("layout: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for _, raw := range doc.Forms {
			profile, err := normaliseProfile(raw, path)
			if err != nil {
				return err
			}
			if _, exists := store.profiles[profile.ID]; exists {
				return fmt.Errorf("layout: duplicate profile %q (file %s)", profile.ID, path)
			}
			store.profiles[profile.ID] = profile
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Profile returns the profile registered under id.
func (s *Store) Profile(id string) (Profile, bool) {
	if s == nil {
		return Profile{}, false
	}
	profile, ok := s.profiles[strings.TrimSpace(id)]
	return profile, ok
}

// IDs returns the registered profile ids, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any profiles.
func (s *Store) Empty() bool {
	return s == nil || len(s.profiles) == 0
}

type documentFile struct {
	Forms []profileFile `json:"forms" yaml:"forms"`
}

type profileFile struct {
	ID            string      `json:"id" yaml:"id"`
	Title         string      `json:"title" yaml:"title"`
	OutputName    string      `json:"outputName" yaml:"outputName"`
	OverflowChunk int         `json:"overflowChunk" yaml:"overflowChunk"`
	SelectedToken string      `json:"selectedToken" yaml:"selectedToken"`
	Groups        []groupFile `json:"groups" yaml:"groups"`
}

type groupFile struct {
	Base   string      `json:"base" yaml:"base"`
	Fields []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name" yaml:"name"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("layout: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("layout: parse %s: invalid JSON or YAML", source)
}

func normaliseProfile(raw profileFile, source string) (Profile, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return Profile{}, fmt.Errorf("layout: file %s defines a profile with an empty id", source)
	}
	profile := Profile{
		ID:            id,
		Title:         strings.TrimSpace(raw.Title),
		Source:        source,
		OutputName:    strings.TrimSpace(raw.OutputName),
		OverflowChunk: raw.OverflowChunk,
		SelectedToken: strings.TrimSpace(raw.SelectedToken),
		byKey:         make(map[string]int),
	}
	if profile.OverflowChunk <= 0 {
		return Profile{}, fmt.Errorf("layout: profile %q (file %s) overflowChunk must be positive", id, source)
	}
	if profile.SelectedToken == "" {
		profile.SelectedToken = defaultSelectedToken
	}

	paths := make(map[string]string)
	for _, group := range raw.Groups {
		base := strings.TrimSpace(group.Base)
		for idx, field := range group.Fields {
			key := strings.TrimSpace(field.Key)
			name := strings.TrimSpace(field.Name)
			if key == "" || name == "" {
				return Profile{}, fmt.Errorf("layout: profile %q (file %s) group %q entry %d needs key and name", id, source, base, idx)
			}
			if _, exists := profile.byKey[key]; exists {
				return Profile{}, fmt.Errorf("layout: profile %q (file %s) defines duplicate key %q", id, source, key)
			}
			path := pathindex.Join(base, name)
			if other, exists := paths[path]; exists {
				return Profile{}, fmt.Errorf("layout: profile %q (file %s) binds %q to both %q and %q", id, source, path, other, key)
			}
			if strings.HasPrefix(key, ElectionPrefix) {
				if _, ok := (record.BenefitElection{}).Get(strings.TrimPrefix(key, ElectionPrefix)); !ok {
					return Profile{}, fmt.Errorf("layout: profile %q (file %s) names unknown election %q", id, source, key)
				}
			}
			paths[path] = key
			profile.byKey[key] = len(profile.Fields)
			profile.Fields = append(profile.Fields, Field{Key: key, Path: path})
		}
	}

	var missing []string
	for _, key := range RequiredSlots {
		if _, ok := profile.byKey[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Profile{}, fmt.Errorf("layout: profile %q (file %s) is missing slots: %s", id, source, strings.Join(missing, ", "))
	}
	return profile, nil
}

func isProfileFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
