package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_Defaults(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	resolved, err := Compose(store, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Test", resolved.Title)
	assert.Equal(t, "sim", resolved.Basename)
	assert.Equal(t, "n10", resolved.Suffix)
	assert.Equal(t, map[string]string{
		"physical":  "const_n10",
		"radiation": "blackbody",
		"saves":     "minimal",
		"run":       "base",
	}, resolved.Selections)

	assert.Equal(t, []string{"hden 1.00", "constant density"}, resolved.Blocks["physical"])
	assert.Equal(t, []string{"blackbody 50000 K", "luminosity total 38"}, resolved.Blocks["radiation"])
	assert.Equal(t, []string{`save last "last.out"`}, resolved.Blocks["saves"])
}

func TestCompose_RuntimeLinesAppend(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	// Root lines always precede the run fragment's lines, for every
	// fragment choice.
	for _, name := range []string{"base", "converge"} {
		resolved, err := Compose(store, Selection{"run": name}, nil)
		require.NoError(t, err)

		runtime := resolved.Blocks["runtime"]
		require.NotEmpty(t, runtime)
		assert.Equal(t, "cosmic rays background", runtime[0])
		fragment, err := store.Fragment("run", name)
		require.NoError(t, err)
		assert.Equal(t, fragment.Lines, runtime[1:])
	}
}

func TestCompose_UnknownFragment(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	_, err = Compose(store, Selection{"radiation": "nonexistent"}, nil)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "radiation", notFound.Category)
	assert.Equal(t, "nonexistent", notFound.Name)
}

func TestCompose_UnknownCategory(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	_, err = Compose(store, Selection{"geometry": "sphere"}, nil)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "geometry", notFound.Category)
}

func TestCompose_MissingDefault(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)
	delete(store.Root.Defaults, "saves")

	_, err = Compose(store, nil, nil)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "saves", notFound.Category)
	assert.Empty(t, notFound.Name)

	// An explicit selection still composes.
	_, err = Compose(store, Selection{"saves": "minimal"}, nil)
	require.NoError(t, err)
}

func TestCompose_Overrides(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	resolved, err := Compose(store, nil, map[string]string{
		"title":      "Overridden",
		"run.suffix": "x1",
		"grains":     "orion",
	})
	require.NoError(t, err)

	// Caller overrides win over file-declared values.
	assert.Equal(t, "Overridden", resolved.Title)
	assert.Equal(t, "x1", resolved.Suffix)
	// Unrecognized keys pass through into the vars bag.
	assert.Equal(t, "orion", resolved.Vars["grains"])
	assert.Equal(t, "/opt/sim/data", resolved.Vars["data_dir"])
}

func TestCompose_Substitution(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)
	store.Root.Lines = append(store.Root.Lines, `table read "${data_dir}/cont.dat"`)

	resolved, err := Compose(store, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, resolved.Blocks["runtime"], `table read "/opt/sim/data/cont.dat"`)

	// Overrides substitute too.
	resolved, err = Compose(store, nil, map[string]string{"data_dir": "/mnt/atomic"})
	require.NoError(t, err)
	assert.Contains(t, resolved.Blocks["runtime"], `table read "/mnt/atomic/cont.dat"`)
}

func TestCompose_UnresolvedReference(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)
	store.Root.Lines = append(store.Root.Lines, "table read ${no_such_var}")

	_, err = Compose(store, nil, nil)
	var unresolved *UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "no_such_var", unresolved.Ref)
}

func TestCompose_Deterministic(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	first, err := Compose(store, Selection{"physical": "const_n100"}, map[string]string{"grains": "ism"})
	require.NoError(t, err)
	second, err := Compose(store, Selection{"physical": "const_n100"}, map[string]string{"grains": "ism"})
	require.NoError(t, err)

	firstEncoded, err := first.Encode()
	require.NoError(t, err)
	secondEncoded, err := second.Encode()
	require.NoError(t, err)
	assert.Equal(t, firstEncoded, secondEncoded)

	// Re-encoding the same value is also byte-identical.
	again, err := first.Encode()
	require.NoError(t, err)
	assert.Equal(t, firstEncoded, again)
}

func TestCompose_BlockIsolation(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	minimal, err := Compose(store, Selection{"saves": "minimal"}, nil)
	require.NoError(t, err)
	full, err := Compose(store, Selection{"saves": "full"}, nil)
	require.NoError(t, err)

	// Changing the saves selection must not touch any other block.
	assert.NotEqual(t, minimal.Blocks["saves"], full.Blocks["saves"])
	assert.Equal(t, minimal.Blocks["physical"], full.Blocks["physical"])
	assert.Equal(t, minimal.Blocks["radiation"], full.Blocks["radiation"])
	assert.Equal(t, minimal.Blocks["runtime"], full.Blocks["runtime"])
}

func TestCompose_PureValue(t *testing.T) {
	store, err := Load(writeStore(t))
	require.NoError(t, err)

	first, err := Compose(store, nil, nil)
	require.NoError(t, err)
	first.Blocks["physical"][0] = "mutated"

	// Composing again is unaffected by mutation of an earlier result.
	second, err := Compose(store, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hden 1.00", second.Blocks["physical"][0])
}
