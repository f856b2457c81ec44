package npzio

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

const (
	npyMagic      = "\x93NUMPY"
	headerAlign   = 64
	outputDirPerm = 0o755
)

// Save は配列群を .npz として書き出す。compress で deflate 圧縮 (savez_compressed 相当)
func Save(fs afero.Fs, path string, arrays []model.NamedArray, compress bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, outputDirPerm); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Encode(f, arrays, compress); err != nil {
		f.Close()
		// 書きかけのアーカイブは残さない
		_ = fs.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = fs.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Encode は zip コンテナに各配列を .npy エントリとして書き込む
func Encode(w io.Writer, arrays []model.NamedArray, compress bool) error {
	method := zip.Store
	if compress {
		method = zip.Deflate
	}

	zw := zip.NewWriter(w)
	for _, na := range arrays {
		if na.Array == nil {
			continue
		}
		ew, err := zw.CreateHeader(&zip.FileHeader{Name: na.Name + entryExt, Method: method})
		if err != nil {
			return err
		}
		if err := WriteArray(ew, na.Array); err != nil {
			return fmt.Errorf("array %q: %w", na.Name, err)
		}
	}
	return zw.Close()
}

// WriteArray は npy 形式 (version 1.0, C order, little endian) で1配列を書き込む
func WriteArray(w io.Writer, a *model.Array) error {
	if model.ShapeSize(a.Shape) != a.Len() {
		return fmt.Errorf("shape %s does not match %d elements", a.ShapeString(), a.Len())
	}
	if a.DType.Size() == 0 {
		return fmt.Errorf("unsupported dtype %q", a.DType)
	}

	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }",
		a.DType.Descr(), model.FormatShape(a.Shape))
	// magic(6) + version(2) + header length(2) + header + '\n' を 64 byte 境界に揃える
	preamble := len(npyMagic) + 4
	pad := (headerAlign - (preamble+len(header)+1)%headerAlign) % headerAlign
	header += strings.Repeat(" ", pad) + "\n"

	buf := new(bytes.Buffer)
	buf.Grow(preamble + len(header) + a.Len()*a.DType.Size())
	buf.WriteString(npyMagic)
	buf.Write([]byte{1, 0})
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)

	if err := writeData(buf, a); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeData(w io.Writer, a *model.Array) error {
	le := binary.LittleEndian
	switch a.DType {
	case model.DTypeFloat32:
		return binary.Write(w, le, convert[float32](a.Data))
	case model.DTypeFloat64:
		return binary.Write(w, le, a.Data)
	case model.DTypeInt8:
		return binary.Write(w, le, convert[int8](a.Data))
	case model.DTypeInt16:
		return binary.Write(w, le, convert[int16](a.Data))
	case model.DTypeInt32:
		return binary.Write(w, le, convert[int32](a.Data))
	case model.DTypeInt64:
		return binary.Write(w, le, convert[int64](a.Data))
	case model.DTypeUint8:
		return binary.Write(w, le, convert[uint8](a.Data))
	case model.DTypeUint16:
		return binary.Write(w, le, convert[uint16](a.Data))
	case model.DTypeUint32:
		return binary.Write(w, le, convert[uint32](a.Data))
	case model.DTypeUint64:
		return binary.Write(w, le, convert[uint64](a.Data))
	case model.DTypeBool:
		raw := make([]uint8, len(a.Data))
		for i, v := range a.Data {
			if v != 0 {
				raw[i] = 1
			}
		}
		return binary.Write(w, le, raw)
	default:
		return fmt.Errorf("unsupported dtype %q", a.DType)
	}
}

func convert[T number](data []float64) []T {
	out := make([]T, len(data))
	for i, v := range data {
		out[i] = T(v)
	}
	return out
}
