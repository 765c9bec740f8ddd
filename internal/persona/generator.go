package persona

import (
	"log"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/lithammer/shortuuid/v4"
)

// Generator supplies the random parts of a new persona.
type Generator interface {
	NewID() string
	Intn(n int) int
}

type randomGenerator struct{}

// NewRandom returns the production generator.
func NewRandom() Generator { return randomGenerator{} }

func (randomGenerator) NewID() string  { return shortuuid.New() }
func (randomGenerator) Intn(n int) int { return rand.IntN(n) }

type seededGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a reproducible generator for tests.
func NewSeeded(seed uint64) Generator {
	return &seededGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *seededGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return strconv.FormatUint(g.rng.Uint64(), 36)
}

func (g *seededGenerator) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

// CreatePersona builds a custom persona with a fresh id, a random visual cue
// and a random voice, then overlays overrides. An override voice outside the
// allowed set is ignored and the random default kept.
func CreatePersona(gen Generator, overrides Patch) Persona {
	if gen == nil {
		gen = NewRandom()
	}
	p := Persona{
		ID:        gen.NewID(),
		VisualCue: visualCues[gen.Intn(len(visualCues))],
		Voice:     vocalProfiles[gen.Intn(len(vocalProfiles))],
	}
	if overrides.Voice != nil && !overrides.Voice.Valid() {
		log.Printf("[persona] ignoring unknown voice %q for %s, keeping %s", *overrides.Voice, p.ID, p.Voice)
		overrides.Voice = nil
	}
	return p.Apply(overrides)
}
