package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeStore writes a complete fixture store into a temp directory and
// returns its path.
func writeStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"project.yaml": `title: Test
executable: cat
workdir: ` + filepath.Join(dir, "out") + `
basename: sim
vars:
  data_dir: /opt/sim/data
lines:
  - cosmic rays background
defaults:
  physical: const_n10
  radiation: blackbody
  saves: minimal
  run: base
`,
		"physical/const_n10.yaml": `lines:
  - hden 1.00
  - constant density
`,
		"physical/const_n100.yaml": `lines:
  - hden 2.00
  - constant density
`,
		"physical/const_n1000.yaml": `lines:
  - hden 3.00
  - constant density
`,
		"radiation/blackbody.yaml": `lines:
  - blackbody 50000 K
  - luminosity total 38
`,
		"radiation/powerlaw.yaml": `lines:
  - power law -1.4
  - ionization parameter -2
`,
		"saves/minimal.yaml": `lines:
  - save last "last.out"
`,
		"saves/full.yaml": `lines:
  - save last "last.out"
  - save continuum "cont.out"
`,
		"run/base.yaml": `suffix: n10
lines:
  - stop temperature 100 K
`,
		"run/converge.yaml": `suffix: conv
lines:
  - stop temperature 100 K
  - iterate to convergence
`,
	}

	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	return dir
}

func TestLoad(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	require.Equal(t, "Test", store.Root.Title)
	require.Equal(t, "cat", store.Root.Executable)
	require.Equal(t, []string{"cosmic rays background"}, store.Root.Lines)
	require.Equal(t, "const_n10", store.Root.Defaults["physical"])

	fragment, err := store.Fragment("physical", "const_n10")
	require.NoError(t, err)
	require.Equal(t, "physical", fragment.Category)
	require.Equal(t, "const_n10", fragment.Name)
	require.Equal(t, []string{"hden 1.00", "constant density"}, fragment.Lines)

	run, err := store.Fragment("run", "base")
	require.NoError(t, err)
	require.Equal(t, "n10", run.Suffix)
}

func TestLoad_MissingProjectFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestStore_Names(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	require.Equal(t, []string{"const_n10", "const_n100", "const_n1000"}, store.Names("physical"))
	require.Equal(t, []string{"base", "converge"}, store.Names("run"))
	require.Empty(t, store.Names("nonexistent"))
}

func TestStore_FragmentNotFound(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	_, err = store.Fragment("radiation", "nonexistent")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "radiation", notFound.Category)
	require.Equal(t, "nonexistent", notFound.Name)

	_, err = store.Fragment("bogus", "anything")
	require.ErrorAs(t, err, &notFound)
}

func TestIsCategory(t *testing.T) {
	for _, category := range Categories {
		require.True(t, IsCategory(category))
	}
	require.False(t, IsCategory("title"))
	require.False(t, IsCategory(""))
}
