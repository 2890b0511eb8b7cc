package syncer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorvan/moonlight-steam-shortcuts/pkg/moonlight"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/steam"
)

type fakeLister struct {
	apps     []moonlight.App
	err      error
	launcher *moonlight.Launcher
}

func (f *fakeLister) ListApps(_ context.Context, _ string) ([]moonlight.App, error) {
	return f.apps, f.err
}

func (f *fakeLister) Launcher() *moonlight.Launcher {
	if f.launcher != nil {
		return f.launcher
	}
	return &moonlight.Launcher{Exe: "/usr/bin/moonlight"}
}

func testSyncer(t *testing.T, ml Lister) (*Syncer, *steam.Library) {
	t.Helper()
	lib := steam.NewLibrary(steam.OSFS{}, steam.NewPathsWithUserdata(t.TempDir()))
	return New(ml, lib), lib
}

// taggedShortcut builds the shortcut a previous sync would have written.
func taggedShortcut(title string) steam.Shortcut {
	sc := steam.NewShortcut(title, "/usr/bin/moonlight")
	sc.StartDir = "/usr/bin"
	sc.LaunchOptions = fmt.Sprintf("stream gamehost %q", title)
	sc.AddTag(DefaultTag)
	return *sc
}

func foreignShortcut() steam.Shortcut {
	sc := steam.NewShortcut("Heroic Launcher", "/usr/bin/heroic")
	sc.StartDir = "/usr/bin"
	return *sc
}

func TestSyncCreatesShortcuts(t *testing.T) {
	ml := &fakeLister{apps: []moonlight.App{
		{Title: "Rocket League", BoxArt: "/home/deck/.cache/Moonlight/boxart/1.png"},
		{Title: "Desktop"},
	}}
	s, lib := testSyncer(t, ml)

	plan, err := s.Sync(context.Background(), "123", Options{Host: "gamehost"})
	require.NoError(t, err)

	require.Len(t, plan.Entries, 2)
	assert.Equal(t, 0, plan.Removed)
	assert.Equal(t, 0, plan.Kept)

	got, err := lib.LoadShortcuts("123")
	require.NoError(t, err)
	require.Len(t, got, 2)

	rl := got[0]
	assert.Equal(t, "Rocket League", rl.AppName)
	assert.Equal(t, "/usr/bin/moonlight", rl.Exe)
	assert.Equal(t, "/usr/bin", rl.StartDir)
	assert.Equal(t, `stream gamehost "Rocket League"`, rl.LaunchOptions)
	assert.Equal(t, steam.GenerateAppID("/usr/bin/moonlight", "Rocket League"), rl.AppID)
	assert.True(t, rl.HasTag("moonlight"))

	// The icon lives in the grid directory, where CopyBoxArt puts it.
	assert.Equal(t, lib.Paths().ArtworkPath("123", rl.AppID, steam.ArtworkIcon, "png"), rl.Icon)
	assert.Equal(t, "/home/deck/.cache/Moonlight/boxart/1.png", plan.Entries[0].BoxArt)

	assert.Equal(t, "", got[1].Icon)
	assert.True(t, got[1].HasTag("moonlight"))
}

func TestSyncReplacesTaggedShortcuts(t *testing.T) {
	ml := &fakeLister{apps: []moonlight.App{{Title: "Celeste"}}}
	s, lib := testSyncer(t, ml)

	foreign := foreignShortcut()
	require.NoError(t, lib.SaveShortcuts("123", []steam.Shortcut{
		foreign,
		taggedShortcut("Old Game"),
		taggedShortcut("Older Game"),
	}))

	plan, err := s.Sync(context.Background(), "123", Options{Host: "gamehost"})
	require.NoError(t, err)

	assert.Equal(t, 2, plan.Removed)
	assert.Equal(t, 1, plan.Kept)

	got, err := lib.LoadShortcuts("123")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The foreign shortcut survives untouched and keeps its position.
	assert.Equal(t, foreign, got[0])
	assert.Equal(t, "Celeste", got[1].AppName)
}

func TestSyncNoSyncKeepsTagged(t *testing.T) {
	ml := &fakeLister{apps: []moonlight.App{{Title: "Old Game"}}}
	s, lib := testSyncer(t, ml)

	require.NoError(t, lib.SaveShortcuts("123", []steam.Shortcut{taggedShortcut("Old Game")}))

	plan, err := s.Sync(context.Background(), "123", Options{Host: "gamehost", NoSync: true})
	require.NoError(t, err)

	assert.Equal(t, 0, plan.Removed)
	assert.Equal(t, 1, plan.Kept)

	// NoSync appends without deduplicating; that matches the flag's promise
	// of never removing anything.
	got, err := lib.LoadShortcuts("123")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSyncDryRun(t *testing.T) {
	ml := &fakeLister{apps: []moonlight.App{{Title: "Celeste"}}}
	s, lib := testSyncer(t, ml)

	seed := []steam.Shortcut{taggedShortcut("Old Game")}
	require.NoError(t, lib.SaveShortcuts("123", seed))

	plan, err := s.Sync(context.Background(), "123", Options{Host: "gamehost", DryRun: true})
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, 1, plan.Removed)

	got, err := lib.LoadShortcuts("123")
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestSyncDryRunWithoutShortcutsFile(t *testing.T) {
	ml := &fakeLister{apps: []moonlight.App{{Title: "Celeste"}}}
	s, lib := testSyncer(t, ml)

	_, err := s.Sync(context.Background(), "123", Options{Host: "gamehost", DryRun: true})
	require.NoError(t, err)

	assert.False(t, lib.HasShortcuts("123"))
}

func TestSyncListFailureLeavesFileAlone(t *testing.T) {
	ml := &fakeLister{err: fmt.Errorf("connection refused")}
	s, lib := testSyncer(t, ml)

	seed := []steam.Shortcut{taggedShortcut("Old Game")}
	require.NoError(t, lib.SaveShortcuts("123", seed))

	_, err := s.Sync(context.Background(), "123", Options{Host: "gamehost"})
	require.Error(t, err)

	got, err := lib.LoadShortcuts("123")
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestSyncEmptyAppListRemovesTagged(t *testing.T) {
	ml := &fakeLister{}
	s, lib := testSyncer(t, ml)

	foreign := foreignShortcut()
	require.NoError(t, lib.SaveShortcuts("123", []steam.Shortcut{foreign, taggedShortcut("Old Game")}))

	plan, err := s.Sync(context.Background(), "123", Options{Host: "gamehost"})
	require.NoError(t, err)

	assert.Equal(t, 1, plan.Removed)
	assert.Empty(t, plan.Entries)

	got, err := lib.LoadShortcuts("123")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, foreign, got[0])
}

func TestSyncCustomTag(t *testing.T) {
	ml := &fakeLister{apps: []moonlight.App{{Title: "Celeste"}}}
	s, lib := testSyncer(t, ml)

	// A shortcut tagged "moonlight" is foreign when syncing under another tag.
	require.NoError(t, lib.SaveShortcuts("123", []steam.Shortcut{taggedShortcut("Old Game")}))

	plan, err := s.Sync(context.Background(), "123", Options{Host: "gamehost", Tag: "stream"})
	require.NoError(t, err)

	assert.Equal(t, 0, plan.Removed)
	require.Len(t, plan.Entries, 1)
	assert.True(t, plan.Entries[0].Shortcut.HasTag("stream"))

	got, err := lib.LoadShortcuts("123")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSyncFlatpakLaunchOptions(t *testing.T) {
	ml := &fakeLister{
		apps: []moonlight.App{{Title: "Celeste"}},
		launcher: &moonlight.Launcher{
			Exe:  "/usr/bin/flatpak",
			Args: []string{"run", moonlight.FlatpakRef},
		},
	}
	s, _ := testSyncer(t, ml)

	plan, err := s.Sync(context.Background(), "123", Options{Host: "gamehost", DryRun: true})
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1)
	sc := plan.Entries[0].Shortcut
	assert.Equal(t, "/usr/bin/flatpak", sc.Exe)
	assert.Equal(t, `run com.moonlight_stream.Moonlight stream gamehost "Celeste"`, sc.LaunchOptions)
}
