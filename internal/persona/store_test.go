package persona

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(ListBuiltins())
}

func TestStore_DefaultsToFirstBuiltin(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "malik-anxious", s.Current().ID)
	assert.Empty(t, s.Custom())
}

func TestStore_IDsUniqueAcrossCombinedCatalog(t *testing.T) {
	s := newTestStore(t)
	gen := NewSeeded(3)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AddCustom(CreatePersona(gen, Patch{Name: String("c"), Personality: String("p")})))
	}
	require.NoError(t, s.AddCustom(Persona{ID: "aiko-grieving", Name: "Aiko (edited)", Personality: "p", Voice: VoiceKore}))

	seen := map[string]bool{}
	for _, p := range s.All() {
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, s.All(), 4+5)
}

func TestStore_AddCustomRejectsDuplicateCustomID(t *testing.T) {
	s := newTestStore(t)
	p := Persona{ID: "dup", Name: "A", Personality: "p", Voice: VoiceKore}
	require.NoError(t, s.AddCustom(p))
	err := s.AddCustom(p)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, s.Custom(), 1)
}

func TestStore_SetCurrentByID(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetCurrentByID("zahra-depression"))
	assert.Equal(t, "zahra-depression", s.Current().ID)

	custom := Persona{ID: "mine", Name: "Mine", Personality: "p", Voice: VoiceKore}
	require.NoError(t, s.AddCustom(custom))
	require.NoError(t, s.SetCurrentByID("aiko-grieving"))
	require.NoError(t, s.SetCurrentByID("mine"))
	assert.Equal(t, "mine", s.Current().ID)
}

func TestStore_CustomShadowsBuiltin(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddCustom(Persona{ID: "jordan-trauma", Name: "Jordan v2", Personality: "p", Voice: VoiceKore}))
	require.NoError(t, s.SetCurrentByID("malik-anxious"))

	require.NoError(t, s.SetCurrentByID("jordan-trauma"))
	assert.Equal(t, "Jordan v2", s.Current().Name)

	p, ok := s.Lookup("jordan-trauma")
	require.True(t, ok)
	assert.Equal(t, "Jordan v2", p.Name)
}

func TestStore_SetCurrentByUnknownIDKeepsCurrent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetCurrentByID("aiko-grieving"))

	err := s.SetCurrentByID("nobody")
	var rerr *ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "nobody", rerr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "aiko-grieving", s.Current().ID)
}

func TestStore_UpdateKeepsAllViewsConsistent(t *testing.T) {
	s := newTestStore(t)

	// builtin that is also current
	require.NoError(t, s.SetCurrentByID("aiko-grieving"))
	require.NoError(t, s.Update("aiko-grieving", Patch{Name: String("Aiko"), Voice: Voice(VoiceLeda)}))

	var fromBuiltins Persona
	for _, p := range s.Builtins() {
		if p.ID == "aiko-grieving" {
			fromBuiltins = p
		}
	}
	assert.Equal(t, fromBuiltins, s.Current())
	assert.Equal(t, "Aiko", fromBuiltins.Name)
	assert.Equal(t, VoiceLeda, fromBuiltins.Voice)
	assert.NotEmpty(t, fromBuiltins.DetailedProfile)

	// custom that is current
	require.NoError(t, s.AddCustom(Persona{ID: "c1", Name: "C", Personality: "p", Voice: VoiceKore}))
	require.NoError(t, s.Update("c1", Patch{InitialGreeting: String("hey")}))
	assert.Equal(t, s.Custom()[0], s.Current())
	assert.Equal(t, "hey", s.Current().InitialGreeting)

	// not current: current pointer untouched
	require.NoError(t, s.Update("zahra-depression", Patch{Description: String("d")}))
	assert.Equal(t, "c1", s.Current().ID)
	z, _ := s.Lookup("zahra-depression")
	assert.Equal(t, "d", z.Description)
}

func TestStore_RejectsUnknownVoice(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetCurrentByID("aiko-grieving"))

	err := s.AddCustom(Persona{ID: "robot", Name: "R", Personality: "p", Voice: "Robot"})
	assert.ErrorIs(t, err, ErrUnknownVoice)
	err = s.AddCustom(Persona{ID: "silent", Name: "S", Personality: "p"})
	assert.ErrorIs(t, err, ErrUnknownVoice)
	assert.Empty(t, s.Custom())
	assert.Equal(t, "aiko-grieving", s.Current().ID)

	before := s.Current()
	err = s.Update("aiko-grieving", Patch{Name: String("Renamed"), Voice: Voice("Robot")})
	assert.ErrorIs(t, err, ErrUnknownVoice)
	assert.Equal(t, before, s.Current())
	a, _ := s.Lookup("aiko-grieving")
	assert.Equal(t, before.Voice, a.Voice)
}

func TestStore_UpdateUnknown(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.Update("nobody", Patch{Name: String("x")}), ErrNotFound)
}

func TestStore_ListenersRunBeforeReturn(t *testing.T) {
	s := newTestStore(t)
	var changes []Change
	unsub := s.Subscribe(func(c Change) {
		// listeners may read the store
		assert.Equal(t, c.Current.ID, s.Current().ID)
		changes = append(changes, c)
	})

	require.NoError(t, s.SetCurrentByID("jordan-trauma"))
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeCurrent, changes[0].Kind)

	require.NoError(t, s.AddCustom(Persona{ID: "n", Name: "N", Personality: "p", Voice: VoiceKore}))
	require.NoError(t, s.Update("n", Patch{Name: String("N2")}))
	require.Len(t, changes, 3)
	assert.Equal(t, ChangeAdded, changes[1].Kind)
	assert.Equal(t, ChangeUpdated, changes[2].Kind)
	assert.Equal(t, "N2", changes[2].Persona.Name)

	_ = s.SetCurrentByID("nobody")
	assert.Len(t, changes, 3)

	unsub()
	s.SetCurrent(ListBuiltins()[0])
	assert.Len(t, changes, 3)
}
