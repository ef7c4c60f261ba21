package hierarchy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkProject creates a project folder with both companion files
func mkProject(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataName), []byte("uuid: x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PlansName), []byte("Plans\n"), 0o644))
}

func mkDir(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
}

// collect runs Walk and gathers the labelled folder basenames
func collect(t *testing.T, dir string) ([]string, error) {
	t.Helper()
	var got []string
	err := Walk(dir, func(p Project) error {
		got = append(got, string(p.Label)+" "+filepath.Base(filepath.Dir(p.MetadataPath)))
		return nil
	})
	return got, err
}

func TestLocateRoot(t *testing.T) {
	root := t.TempDir()
	mkDir(t, filepath.Join(root, MarkerName))
	nested := filepath.Join(root, "a", "b")
	mkDir(t, nested)

	t.Run("from nested folder", func(t *testing.T) {
		got, err := LocateRoot(nested)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("from root itself", func(t *testing.T) {
		got, err := LocateRoot(root)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("no repository", func(t *testing.T) {
		outside := t.TempDir()
		_, err := LocateRoot(outside)
		var he *Error
		require.ErrorAs(t, err, &he)
		assert.Equal(t, "No repository found", he.Message)
	})
}

func TestWalkForest(t *testing.T) {
	root := t.TempDir()
	mkDir(t, filepath.Join(root, MarkerName))

	// Two top-level projects, one with a nested child, plus excluded
	// and non-project folders that hunt mode skips over
	mkProject(t, filepath.Join(root, "plans", "house"))
	mkProject(t, filepath.Join(root, "plans", "house", "roof"))
	mkProject(t, filepath.Join(root, "garden"))
	mkDir(t, filepath.Join(root, "plans", "house", "TMP"))
	mkDir(t, filepath.Join(root, "docs"))

	got, err := collect(t, root)
	require.NoError(t, err)
	// garden is found in hunt mode, so it is labelled LIMB even
	// though it has no children
	assert.ElementsMatch(t, []string{"LIMB house", "LEAF roof", "LIMB garden"}, got)
}

func TestWalkHuntYieldsLimbForFoundProject(t *testing.T) {
	// The first project found on a branch is yielded as LIMB even
	// when it has no children
	root := t.TempDir()
	mkProject(t, filepath.Join(root, "solo"))

	got, err := collect(t, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LIMB solo"}, got)
}

func TestWalkPreOrder(t *testing.T) {
	root := t.TempDir()
	mkProject(t, filepath.Join(root, "top"))
	mkProject(t, filepath.Join(root, "top", "mid"))
	mkProject(t, filepath.Join(root, "top", "mid", "leaf"))

	got, err := collect(t, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LIMB top", "LIMB mid", "LEAF leaf"}, got)
}

func TestWalkMissingCompanionFiles(t *testing.T) {
	tests := []struct {
		name    string
		present string
		wantMsg string
		wantEnd string
	}{
		{
			name:    "metadata without plans",
			present: MetadataName,
			wantMsg: "Missing project plans file",
			wantEnd: PlansName,
		},
		{
			name:    "plans without metadata",
			present: PlansName,
			wantMsg: "Missing project metadata file",
			wantEnd: MetadataName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			broken := filepath.Join(root, "broken")
			mkDir(t, broken)
			require.NoError(t, os.WriteFile(filepath.Join(broken, tt.present), []byte("x\n"), 0o644))

			_, err := collect(t, root)
			var he *Error
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.wantMsg, he.Message)
			assert.Equal(t, tt.wantEnd, filepath.Base(he.Path))
		})
	}
}

func TestWalkUnexpectedFolderInsideProject(t *testing.T) {
	root := t.TempDir()
	mkProject(t, filepath.Join(root, "top"))
	mkDir(t, filepath.Join(root, "top", "junk"))

	_, err := collect(t, root)
	var he *Error
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "Unexpected folder in project hierarchy", he.Message)
	assert.Equal(t, "junk", filepath.Base(he.Path))
}

func TestWalkExcludedDirsInsideProject(t *testing.T) {
	// LIB, SRC, and TMP do not count as children and do not trip the
	// unexpected-folder rule
	root := t.TempDir()
	mkProject(t, filepath.Join(root, "top"))
	mkDir(t, filepath.Join(root, "top", "LIB"))
	mkDir(t, filepath.Join(root, "top", "SRC"))

	got, err := collect(t, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LIMB top"}, got)
}

func TestWalkStartInsideProjectSubtree(t *testing.T) {
	// Starting at a nested project whose parent is also a project
	// enters visit mode, so the starting folder is labelled by its own
	// topology
	root := t.TempDir()
	mkProject(t, filepath.Join(root, "top"))
	mkProject(t, filepath.Join(root, "top", "mid"))
	mkProject(t, filepath.Join(root, "top", "mid", "leaf"))

	got, err := collect(t, filepath.Join(root, "top", "mid"))
	require.NoError(t, err)
	assert.Equal(t, []string{"LIMB mid", "LEAF leaf"}, got)
}

func TestWalkStartAtRepositoryRootProject(t *testing.T) {
	// A starting project folder holding the repository marker hunts,
	// so it is yielded as LIMB
	root := t.TempDir()
	mkDir(t, filepath.Join(root, MarkerName))
	mkProject(t, root)

	got, err := collect(t, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"LIMB " + filepath.Base(root)}, got)
}

func TestWalkCallbackErrorStopsTraversal(t *testing.T) {
	root := t.TempDir()
	mkProject(t, filepath.Join(root, "one"))

	sentinel := errors.New("stop")
	err := Walk(root, func(Project) error { return sentinel })
	require.ErrorIs(t, err, sentinel)
}
