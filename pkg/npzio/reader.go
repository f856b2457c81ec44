// Package npzio は numpy の .npz アーカイブを読み書きする。
package npzio

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/sbinet/npyio/npy"
	"github.com/spf13/afero"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

const entryExt = ".npy"

// Load はアーカイブ内の全配列を読み込む
func Load(fs afero.Fs, path string) (*model.RawBundle, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	bundle, err := Decode(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	bundle.Path = path
	return bundle, nil
}

// Decode は zip コンテナの各 .npy エントリを配列として読み込む
func Decode(r io.ReaderAt, size int64) (*model.RawBundle, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("not an npz archive: %w", err)
	}

	bundle := model.NewRawBundle("")
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !strings.HasSuffix(entry.Name, entryExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name, entryExt)
		array, err := readEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("array %q: %w", name, err)
		}
		bundle.Set(name, array)
	}
	return bundle, nil
}

func readEntry(entry *zip.File) (*model.Array, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	nr, err := npy.NewReader(rc)
	if err != nil {
		return nil, err
	}

	shape := append([]int{}, nr.Header.Descr.Shape...)
	if nr.Header.Descr.Fortran && len(shape) > 1 {
		return nil, fmt.Errorf("fortran-ordered array %s is not supported", model.FormatShape(shape))
	}

	dtype := model.DType(strings.TrimLeft(nr.Header.Descr.Type, "<>|="))
	n := model.ShapeSize(shape)

	var data []float64
	switch dtype {
	case model.DTypeFloat32:
		data, err = readAs[float32](nr, n)
	case model.DTypeFloat64:
		data, err = readAs[float64](nr, n)
	case model.DTypeInt8:
		data, err = readAs[int8](nr, n)
	case model.DTypeInt16:
		data, err = readAs[int16](nr, n)
	case model.DTypeInt32:
		data, err = readAs[int32](nr, n)
	case model.DTypeInt64:
		data, err = readAs[int64](nr, n)
	case model.DTypeUint8:
		data, err = readAs[uint8](nr, n)
	case model.DTypeUint16:
		data, err = readAs[uint16](nr, n)
	case model.DTypeUint32:
		data, err = readAs[uint32](nr, n)
	case model.DTypeUint64:
		data, err = readAs[uint64](nr, n)
	case model.DTypeBool:
		data, err = readBool(nr, n)
	default:
		return nil, fmt.Errorf("unsupported dtype %q", nr.Header.Descr.Type)
	}
	if err != nil {
		return nil, err
	}

	return model.NewArray(dtype, shape, data)
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func readAs[T number](nr *npy.Reader, n int) ([]float64, error) {
	raw := make([]T, n)
	if err := nr.Read(&raw); err != nil {
		return nil, err
	}
	data := make([]float64, len(raw))
	for i, v := range raw {
		data[i] = float64(v)
	}
	return data, nil
}

func readBool(nr *npy.Reader, n int) ([]float64, error) {
	raw := make([]bool, n)
	if err := nr.Read(&raw); err != nil {
		return nil, err
	}
	data := make([]float64, len(raw))
	for i, v := range raw {
		if v {
			data[i] = 1
		}
	}
	return data, nil
}
