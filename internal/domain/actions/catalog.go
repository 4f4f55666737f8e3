package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Program describes a launch target for one probed action: where it is usually
// installed and the name the shell resolves when none of those exist.
type Program struct {
	Name       string   `yaml:"name" toml:"name"`
	Candidates []string `yaml:"candidates" toml:"candidates"`
	Fallback   string   `yaml:"fallback" toml:"fallback"`
}

// Catalog maps each probed action to its program. Candidate order is preference order.
type Catalog map[Tag]Program

// DefaultCatalog returns the known Windows install locations.
func DefaultCatalog() Catalog {
	return Catalog{
		TagOffice: {
			Name: "Microsoft Word",
			Candidates: []string{
				`C:\Program Files\Microsoft Office\root\Office16\WINWORD.EXE`,
				`C:\Program Files (x86)\Microsoft Office\Office16\WINWORD.EXE`,
				`C:\Program Files\Microsoft Office\Office16\WINWORD.EXE`,
				`C:\Program Files\Microsoft Office 365\root\Office16\WINWORD.EXE`,
				`C:\Program Files (x86)\Microsoft Office\Office365\WINWORD.EXE`,
			},
			Fallback: "winword",
		},
		TagWeb: {
			Name: "Chrome",
			Candidates: []string{
				`C:\Program Files\Google\Chrome\Application\chrome.exe`,
				`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
				`C:\Users\%USERNAME%\AppData\Local\Google\Chrome\Application\chrome.exe`,
			},
			Fallback: "chrome",
		},
		TagMedia: {
			Name: "Windows Media Player",
			Candidates: []string{
				`C:\Program Files\Windows Media Player\wmplayer.exe`,
				`C:\Program Files (x86)\Windows Media Player\wmplayer.exe`,
			},
			Fallback: "wmplayer.exe",
		},
	}
}

// Clone returns a deep copy so overrides never touch the shared defaults.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for tag, p := range c {
		p.Candidates = append([]string(nil), p.Candidates...)
		out[tag] = p
	}
	return out
}

// Merge overlays non-empty fields of overrides onto a copy of c.
func (c Catalog) Merge(overrides map[string]Program) (Catalog, error) {
	out := c.Clone()
	for name, o := range overrides {
		tag, ok := ParseDispatchTag(name)
		if !ok {
			return nil, fmt.Errorf("%w in path table: %q", ErrUnknownAction, name)
		}
		p := out[tag]
		if o.Name != "" {
			p.Name = o.Name
		}
		if len(o.Candidates) > 0 {
			p.Candidates = append([]string(nil), o.Candidates...)
		}
		if o.Fallback != "" {
			p.Fallback = o.Fallback
		}
		out[tag] = p
	}
	return out, nil
}

// LoadCatalog reads a YAML or TOML override file and merges it over DefaultCatalog.
// An empty path returns the defaults.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read path table: %w", err)
	}

	overrides := make(map[string]Program)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &overrides)
	case ".toml":
		err = toml.Unmarshal(data, &overrides)
	default:
		return nil, fmt.Errorf("unsupported path table format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse path table %s: %w", path, err)
	}

	return DefaultCatalog().Merge(overrides)
}

var envRef = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// expandPath substitutes %NAME% references with environment values. Unset
// variables expand to the empty string.
func expandPath(path string) string {
	return envRef.ReplaceAllStringFunc(path, func(ref string) string {
		return os.Getenv(ref[1 : len(ref)-1])
	})
}
