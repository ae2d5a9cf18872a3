package sources_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/pkg/sources"
)

func testEnv(t *testing.T) sources.Env {
	t.Helper()
	root := t.TempDir()
	return sources.Env{
		HomeDir:    filepath.Join(root, "home"),
		WorkingDir: filepath.Join(root, "work"),
	}
}

func TestResolve_Order(t *testing.T) {
	env := testEnv(t)

	got := sources.Resolve(sources.ResolveOptions{
		RulesFolder: "~/my-rules",
		Env:         env,
	})

	require.Len(t, got, 3)
	assert.Equal(t, sources.IdentityDefault, got[0].Identity)
	assert.True(t, got[0].Embedded())
	assert.Equal(t, sources.IdentityUserDefault, got[1].Identity)
	assert.Equal(t, filepath.Join(env.HomeDir, ".config", "prhdesc", "rules"), got[1].Dir)
	assert.Equal(t, sources.IdentityCustom, got[2].Identity)
	assert.Equal(t, filepath.Join(env.HomeDir, "my-rules"), got[2].Dir)
}

func TestResolve_ConfigHome(t *testing.T) {
	env := testEnv(t)
	env.ConfigHome = filepath.Join(env.HomeDir, "xdg")

	got := sources.Resolve(sources.ResolveOptions{Env: env})

	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(env.ConfigHome, "prhdesc", "rules"), got[1].Dir)
}

func TestResolve_RelativeCustom(t *testing.T) {
	env := testEnv(t)

	got := sources.Resolve(sources.ResolveOptions{
		RulesFolder:    "rules/../prh",
		DisableBundled: true,
		Env:            env,
	})

	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(env.WorkingDir, "prh"), got[1].Dir)
}

func TestResolve_DropsDuplicateCustom(t *testing.T) {
	env := testEnv(t)
	userDir := sources.UserDefaultDir(env)

	got := sources.Resolve(sources.ResolveOptions{
		RulesFolder: userDir + string(filepath.Separator),
		Env:         env,
	})

	require.Len(t, got, 2)
	for _, src := range got {
		assert.NotEqual(t, sources.IdentityCustom, src.Identity)
	}
}

func TestResolve_BundledDirOverride(t *testing.T) {
	env := testEnv(t)
	bundled := t.TempDir()

	got := sources.Resolve(sources.ResolveOptions{
		BundledDir:  bundled,
		RulesFolder: bundled,
		Env:         env,
	})

	require.Len(t, got, 2, "custom folder equal to the bundled folder is dropped")
	assert.Equal(t, sources.IdentityDefault, got[0].Identity)
	assert.Equal(t, bundled, got[0].Dir)
	assert.False(t, got[0].Embedded())
}

func TestResolve_KeepsMissingFolders(t *testing.T) {
	env := testEnv(t)

	got := sources.Resolve(sources.ResolveOptions{
		RulesFolder: "/definitely/not/here",
		Env:         env,
	})

	require.Len(t, got, 3)
	assert.False(t, got[2].Exists())
	assert.True(t, got[0].Exists(), "embedded bundle always exists")
}

func TestResolve_BlankCustomIgnored(t *testing.T) {
	env := testEnv(t)

	got := sources.Resolve(sources.ResolveOptions{RulesFolder: "   ", Env: env})
	assert.Len(t, got, 2)
}

func TestUserDefaultDir_NoHome(t *testing.T) {
	assert.Empty(t, sources.UserDefaultDir(sources.Env{}))
}

func TestExpandHome(t *testing.T) {
	home := filepath.Join(string(filepath.Separator), "home", "u")

	tests := []struct {
		name string
		path string
		home string
		want string
	}{
		{"tilde alone", "~", home, home},
		{"tilde slash", "~/rules", home, filepath.Join(home, "rules")},
		{"other user untouched", "~bob/rules", home, "~bob/rules"},
		{"absolute untouched", "/etc/rules", home, "/etc/rules"},
		{"no home", "~/rules", "", "~/rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sources.ExpandHome(tt.path, tt.home))
		})
	}
}

func TestDefaultEnv(t *testing.T) {
	env := sources.DefaultEnv()
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, env.WorkingDir)
}
