package utils

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

func TestGetInputFilePaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, path := range []string{
		"in/b.npz",
		"in/a.npz",
		"in/a_smplx.npz",
		"in/A_SmplX_batch0_right.npz",
		"in/readme.md",
		"in/nested/c.npz",
	} {
		require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0o644))
	}

	t.Run("Should list matching files directly under the directory", func(t *testing.T) {
		paths, err := GetInputFilePaths(fs, "in", ".npz", "smplx")
		require.NoError(t, err)
		assert.Equal(t, []string{"in/a.npz", "in/b.npz"}, paths)
	})

	t.Run("Should keep marked files without a marker", func(t *testing.T) {
		paths, err := GetInputFilePaths(fs, "in", ".npz", "")
		require.NoError(t, err)
		assert.Len(t, paths, 4)
	})

	t.Run("Should fail for a missing directory", func(t *testing.T) {
		_, err := GetInputFilePaths(fs, "missing", ".npz", "")
		assert.Error(t, err)
	})
}

func TestWriteBundles(t *testing.T) {
	bundle := func(frames int) *model.OutputBundle {
		return &model.OutputBundle{
			BodyPose:      model.NewZeros(model.DTypeFloat32, frames, model.BodyPoseDim),
			GlobalOrient:  model.NewZeros(model.DTypeFloat32, frames, 3),
			Transl:        model.NewZeros(model.DTypeFloat32, frames, 3),
			Betas:         model.NewZeros(model.DTypeFloat32, model.BetasDim),
			RightHandPose: model.NewZeros(model.DTypeFloat32, frames, model.HandPoseDim),
			LeftHandPose:  model.NewZeros(model.DTypeFloat32, frames, model.HandPoseDim),
		}
	}

	t.Run("Should write every bundle", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		paths := []string{"out/a.npz", "out/b.npz"}
		require.NoError(t, WriteBundles(fs, paths, []*model.OutputBundle{bundle(3), bundle(3)}, true))
		for _, path := range paths {
			exists, err := afero.Exists(fs, path)
			require.NoError(t, err)
			assert.True(t, exists, path)
		}
	})

	t.Run("Should reject mismatched paths and bundles", func(t *testing.T) {
		err := WriteBundles(afero.NewMemMapFs(), []string{"a.npz"}, []*model.OutputBundle{bundle(1), bundle(1)}, false)
		assert.Error(t, err)
	})

	t.Run("Should remove every output when one trajectory fails", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		broken := bundle(2)
		broken.LeftHandPose = &model.Array{Shape: []int{2, model.HandPoseDim}, Data: []float64{0}, DType: model.DTypeFloat32}
		paths := []string{"out/a_batch0_right.npz", "out/a_batch1_left.npz"}

		err := WriteBundles(fs, paths, []*model.OutputBundle{bundle(2), broken}, false)
		require.Error(t, err)
		for _, path := range paths {
			exists, err := afero.Exists(fs, path)
			require.NoError(t, err)
			assert.False(t, exists, path)
		}
	})

	t.Run("Should report a write failure", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		err := WriteBundles(fs, []string{"out/a.npz"}, []*model.OutputBundle{bundle(1)}, false)
		assert.Error(t, err)
	})
}

func TestIsTerminal(t *testing.T) {
	t.Run("Should treat in-memory writers as non-terminals", func(t *testing.T) {
		assert.False(t, IsTerminal(&bytes.Buffer{}))
	})
}
