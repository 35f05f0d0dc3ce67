package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/libretto/pkg/errors"
)

// ManifestName is the optional corpus manifest read by LoadDir.
const ManifestName = "libretto.toml"

// Files names the six table files of a corpus, relative to its directory.
type Files struct {
	Characters string `toml:"characters"`
	Songs      string `toml:"songs"`
	Lines      string `toml:"lines"`
	ThemeMeta  string `toml:"theme_meta"`
	Relations  string `toml:"relations"`
	Themes     string `toml:"themes"`
}

// DefaultFiles returns the conventional file names.
func DefaultFiles() Files {
	return Files{
		Characters: "char_list.json",
		Songs:      "song_list.json",
		Lines:      "lines.json",
		ThemeMeta:  "theme_list.json",
		Relations:  "characters.json",
		Themes:     "themes.json",
	}
}

// Manifest is the decoded libretto.toml.
type Manifest struct {
	Title string `toml:"title"`
	Files Files  `toml:"files"`
}

// ReadManifest reads the manifest in dir. A missing manifest yields the
// default file names and an empty title.
func ReadManifest(dir string) (Manifest, error) {
	m := Manifest{Files: DefaultFiles()}

	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return m, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", ManifestName)
	}

	var decoded Manifest
	if err := toml.Unmarshal(data, &decoded); err != nil {
		return m, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", ManifestName)
	}
	m.Title = decoded.Title
	m.Files = mergeFiles(m.Files, decoded.Files)
	return m, nil
}

func mergeFiles(base, override Files) Files {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return Files{
		Characters: pick(base.Characters, override.Characters),
		Songs:      pick(base.Songs, override.Songs),
		Lines:      pick(base.Lines, override.Lines),
		ThemeMeta:  pick(base.ThemeMeta, override.ThemeMeta),
		Relations:  pick(base.Relations, override.Relations),
		Themes:     pick(base.Themes, override.Themes),
	}
}

// LoadDir reads and decodes every table of the corpus in dir.
func LoadDir(dir string) (*Tables, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	t := &Tables{Title: m.Title}
	h := sha256.New()

	steps := []struct {
		name string
		dst  any
	}{
		{m.Files.Characters, &t.Characters},
		{m.Files.Songs, &t.Songs},
		{m.Files.Lines, &t.Lines},
		{m.Files.ThemeMeta, &t.ThemeMeta},
		{m.Files.Relations, &t.Relations},
		{m.Files.Themes, &t.Themes},
	}
	for _, s := range steps {
		data, err := readTable(dir, s.name)
		if err != nil {
			return nil, err
		}
		h.Write([]byte(s.name))
		h.Write(data)
		if err := json.Unmarshal(data, s.dst); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", s.name)
		}
	}

	t.init()
	t.Digest = hex.EncodeToString(h.Sum(nil))

	if t.Lines.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s: no lines", m.Files.Lines)
	}
	return t, nil
}

func readTable(dir, name string) ([]byte, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// Validate checks the ids and colours of the tables. It reports the first
// problem found.
func (t *Tables) Validate() error {
	for p := t.Characters.Oldest(); p != nil; p = p.Next() {
		if err := errors.ValidateID(p.Key); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "character table")
		}
		if p.Value.Color != "" {
			if err := errors.ValidateColor(p.Value.Color); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "character %s", p.Key)
			}
		}
	}
	for p := t.Lines.Oldest(); p != nil; p = p.Next() {
		if err := errors.ValidateLineID(p.Key); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "line table")
		}
	}
	for p := t.Relations.Conversing.Oldest(); p != nil; p = p.Next() {
		if err := errors.ValidateConversingKey(p.Key); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "relation table")
		}
	}
	return nil
}

// ContentHash returns Digest when the tables were loaded from disk and a
// hash of their JSON encoding otherwise.
func (t *Tables) ContentHash() string {
	if t.Digest != "" {
		return t.Digest
	}
	data, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
