package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type packFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadFile reads a YAML persona pack:
//
//	personas:
//	  - id: sam-burnout
//	    name: Sam
//	    personality: ...
//	    voice: Orus
//
// A missing visual cue is filled in from gen; a missing voice as well.
func LoadFile(path string, gen Generator) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona pack: %w", err)
	}
	var pack packFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse persona pack %s: %w", path, err)
	}
	if gen == nil {
		gen = NewRandom()
	}

	seen := make(map[string]bool, len(pack.Personas))
	out := make([]Persona, 0, len(pack.Personas))
	for i, p := range pack.Personas {
		if p.ID == "" {
			p.ID = gen.NewID()
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("persona pack entry %d: %q: %w", i, p.ID, ErrDuplicateID)
		}
		seen[p.ID] = true
		if err := p.Usable(); err != nil {
			return nil, fmt.Errorf("persona pack entry %d: %w", i, err)
		}
		if p.Voice == "" {
			p.Voice = vocalProfiles[gen.Intn(len(vocalProfiles))]
		} else if !p.Voice.Valid() {
			return nil, fmt.Errorf("persona pack entry %d (%s): unknown voice %q", i, p.ID, p.Voice)
		}
		if p.VisualCue == "" {
			p.VisualCue = visualCues[gen.Intn(len(visualCues))]
		}
		if p.Room != "" && !p.Room.Valid() {
			return nil, fmt.Errorf("persona pack entry %d (%s): unknown room %q", i, p.ID, p.Room)
		}
		out = append(out, p)
	}
	return out, nil
}
