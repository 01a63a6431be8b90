package loading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	tests := []struct {
		progress float64
		want     string
	}{
		{0, "Loading 3D models..."},
		{19.9, "Loading 3D models..."},
		{20, "Loading textures..."},
		{49, "Loading textures..."},
		{50, "Setting up materials..."},
		{80, "Finalizing scene..."},
		{99.9, "Finalizing scene..."},
		{100, "Ready!"},
	}
	for _, tt := range tests {
		tr := NewTracker(10, Hooks{}, nil)
		tr.SetProgress(tt.progress)
		assert.Equal(t, tt.want, tr.Message(), "progress %v", tt.progress)
	}
}

func TestStepProgress(t *testing.T) {
	tr := NewTracker(4, Hooks{}, nil)
	tr.Step("room.glb")
	assert.InDelta(t, 25, tr.Progress(), 1e-9)
	tr.Step("atlas")
	tr.Step("video")
	tr.Step("audio")
	assert.InDelta(t, 100, tr.Progress(), 1e-9)

	tr.SetProgress(40)
	assert.InDelta(t, 100, tr.Progress(), 1e-9)
}

func TestEmptyIsComplete(t *testing.T) {
	tr := NewTracker(0, Hooks{}, nil)
	assert.Equal(t, "Ready!", tr.Message())
}

func TestBar(t *testing.T) {
	tr := NewTracker(2, Hooks{}, nil)
	tr.Step("a")
	assert.Equal(t, "[#####.....]  50%", tr.Bar(12))
}

func TestPromptAndLoadDelays(t *testing.T) {
	tr := NewTracker(1, Hooks{}, nil)
	assert.ErrorIs(t, tr.Enter(true), ErrNotReady)

	tr.Step("room.glb")
	assert.False(t, tr.PromptReady())
	assert.ErrorIs(t, tr.Enter(true), ErrNotReady)

	tr.Update(0.25)
	assert.False(t, tr.PromptReady())
	assert.False(t, tr.Loaded())

	tr.Update(0.25)
	assert.True(t, tr.PromptReady())
	assert.True(t, tr.Loaded())
}

func TestIntroAfterEntry(t *testing.T) {
	intros, autoplays := 0, 0
	tr := NewTracker(1, Hooks{
		Intro:    func() { intros++ },
		Autoplay: func() { autoplays++ },
	}, nil)
	tr.Step("room.glb")
	tr.Update(0.5)

	// Loaded and waiting on the user
	tr.Update(5)
	assert.Zero(t, intros)

	require.NoError(t, tr.Enter(true))
	assert.True(t, tr.WithAudio())
	tr.Update(0.15)
	assert.Zero(t, intros)
	assert.Equal(t, 1, autoplays)

	tr.Update(0.1)
	assert.Equal(t, 1, intros)
	assert.True(t, tr.IntroFired())

	require.NoError(t, tr.Enter(false))
	tr.Update(1)
	assert.Equal(t, 1, intros)
	assert.Equal(t, 1, autoplays)
	assert.True(t, tr.WithAudio())
}

func TestEnterWithoutAudio(t *testing.T) {
	autoplays := 0
	tr := NewTracker(1, Hooks{Autoplay: func() { autoplays++ }}, nil)
	tr.Step("room.glb")
	tr.Update(0.5)
	require.NoError(t, tr.Enter(false))
	tr.Update(1)
	assert.Zero(t, autoplays)
	assert.True(t, tr.IntroFired())
}

func TestIntroCountsFromEntry(t *testing.T) {
	intros := 0
	tr := NewTracker(1, Hooks{Intro: func() { intros++ }}, nil)
	tr.Step("room.glb")
	tr.Update(0.5)
	require.NoError(t, tr.Enter(false))

	tr.Update(0.15)
	assert.Zero(t, intros)
	tr.Update(0.1)
	assert.Equal(t, 1, intros)
}
