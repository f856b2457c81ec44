package npzio

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

func mustArray(t *testing.T, dtype model.DType, shape []int, data []float64) *model.Array {
	t.Helper()
	a, err := model.NewArray(dtype, shape, data)
	require.NoError(t, err)
	return a
}

func TestRoundTrip(t *testing.T) {
	pose := mustArray(t, model.DTypeFloat32, []int{2, 3, 4}, []float64{
		0, 0.5, -1.25, 2,
		3, 4, 5, 6,
		7, 8, 9, 10,
		-0.5, 11, 12, 13,
		14, 15, 16, 17,
		18, 19, 20, 21.5,
	})
	flags := mustArray(t, model.DTypeBool, []int{2, 3}, []float64{1, 1, 1, 0, 0, 1})
	betas := mustArray(t, model.DTypeFloat64, []int{10}, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0})
	frames := mustArray(t, model.DTypeInt64, []int{3}, []float64{-1, 0, 70000})

	arrays := []model.NamedArray{
		{Name: "pose_body", Array: pose},
		{Name: "is_right", Array: flags},
		{Name: "betas", Array: betas},
		{Name: "frame_ids", Array: frames},
	}

	for _, compress := range []bool{false, true} {
		name := "Should round trip stored archives"
		if compress {
			name = "Should round trip deflated archives"
		}
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, Save(fs, "out/sample.npz", arrays, compress))

			raw, err := Load(fs, "out/sample.npz")
			require.NoError(t, err)
			assert.Equal(t, "out/sample.npz", raw.Path)
			assert.Equal(t, []string{"pose_body", "is_right", "betas", "frame_ids"}, raw.Names())

			for _, na := range arrays {
				got, ok := raw.Get(na.Name)
				require.True(t, ok, na.Name)
				assert.Equal(t, na.Array.Shape, got.Shape, na.Name)
				assert.Equal(t, na.Array.DType, got.DType, na.Name)
				assert.InDeltaSlice(t, na.Array.Data, got.Data, 1e-6, na.Name)
			}
		})
	}
}

func TestWriteArray(t *testing.T) {
	t.Run("Should write a 64 byte aligned version 1 header", func(t *testing.T) {
		var buf bytes.Buffer
		a := model.NewZeros(model.DTypeFloat32, 30, 45)
		require.NoError(t, WriteArray(&buf, a))

		out := buf.Bytes()
		require.Greater(t, len(out), 10)
		assert.Equal(t, npyMagic, string(out[:6]))
		assert.Equal(t, []byte{1, 0}, out[6:8])

		headerLen := int(out[8]) | int(out[9])<<8
		assert.Zero(t, (10+headerLen)%headerAlign)
		header := string(out[10 : 10+headerLen])
		assert.Contains(t, header, "'descr': '<f4'")
		assert.Contains(t, header, "'fortran_order': False")
		assert.Contains(t, header, "'shape': (30, 45)")
		assert.Equal(t, byte('\n'), header[len(header)-1])
		assert.Len(t, out, 10+headerLen+30*45*4)
	})

	t.Run("Should reject an array whose data does not fill its shape", func(t *testing.T) {
		a := &model.Array{Shape: []int{2, 2}, Data: []float64{1, 2, 3}, DType: model.DTypeFloat32}
		assert.Error(t, WriteArray(&bytes.Buffer{}, a))
	})
}

func TestSave(t *testing.T) {
	t.Run("Should not leave a partial archive behind", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		arrays := []model.NamedArray{
			{Name: "betas", Array: model.NewZeros(model.DTypeFloat32, 10)},
			{Name: "transl", Array: &model.Array{Shape: []int{2, 3}, Data: []float64{0}, DType: model.DTypeFloat32}},
		}
		require.Error(t, Save(fs, "out/broken.npz", arrays, false))

		exists, err := afero.Exists(fs, "out/broken.npz")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestDecode(t *testing.T) {
	t.Run("Should reject data that is not a zip archive", func(t *testing.T) {
		data := []byte("not an archive")
		_, err := Decode(bytes.NewReader(data), int64(len(data)))
		assert.Error(t, err)
	})

	t.Run("Should reject fortran-ordered matrices and accept fortran-ordered vectors", func(t *testing.T) {
		_, err := decodeEntry(t, "cam_R", "{'descr': '<f8', 'fortran_order': True, 'shape': (2, 2), }", 4)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fortran-ordered array (2, 2)")

		raw, err := decodeEntry(t, "cam_t", "{'descr': '<f8', 'fortran_order': True, 'shape': (4,), }", 4)
		require.NoError(t, err)
		camT, ok := raw.Get("cam_t")
		require.True(t, ok)
		assert.Equal(t, []int{4}, camT.Shape)
		assert.Equal(t, []float64{1, 2, 3, 4}, camT.Data)
	})

	t.Run("Should fail to load a missing file", func(t *testing.T) {
		_, err := Load(afero.NewMemMapFs(), "missing.npz")
		assert.Error(t, err)
	})
}

// decodeEntry はヘッダ文字列から n 要素の f8 エントリを1つ持つアーカイブを組み立てて読み込む。値は 1, 2, 3, ...
func decodeEntry(t *testing.T, name, header string, n int) (*model.RawBundle, error) {
	t.Helper()

	pad := (headerAlign - (len(npyMagic)+4+len(header)+1)%headerAlign) % headerAlign
	header += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	ew, err := zw.Create(name + entryExt)
	require.NoError(t, err)
	_, err = ew.Write([]byte(npyMagic + "\x01\x00"))
	require.NoError(t, err)
	require.NoError(t, binary.Write(ew, binary.LittleEndian, uint16(len(header))))
	_, err = ew.Write([]byte(header))
	require.NoError(t, err)

	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i + 1)
	}
	require.NoError(t, binary.Write(ew, binary.LittleEndian, data))
	require.NoError(t, zw.Close())

	return Decode(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
}
