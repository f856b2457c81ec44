package model

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
	"gonum.org/v1/gonum/floats"
)

// DType は npy の型記述子から byte order を除いたもの
type DType string

const (
	DTypeFloat32 DType = "f4"
	DTypeFloat64 DType = "f8"
	DTypeBool    DType = "b1"
	DTypeInt8    DType = "i1"
	DTypeInt16   DType = "i2"
	DTypeInt32   DType = "i4"
	DTypeInt64   DType = "i8"
	DTypeUint8   DType = "u1"
	DTypeUint16  DType = "u2"
	DTypeUint32  DType = "u4"
	DTypeUint64  DType = "u8"
)

// Descr は npy ヘッダに書き込む記述子を返す (little endian 固定)
func (d DType) Descr() string {
	if d.Size() == 1 {
		return "|" + string(d)
	}
	return "<" + string(d)
}

// Size は1要素あたりのバイト数
func (d DType) Size() int {
	if len(d) < 2 {
		return 0
	}
	n, err := strconv.Atoi(string(d)[1:])
	if err != nil {
		return 0
	}
	return n
}

// Array は row-major の多次元配列。値は型に関わらず float64 で保持する
type Array struct {
	Shape []int
	Data  []float64
	DType DType
}

// NewArray は shape と data を複製して配列を生成する
func NewArray(dtype DType, shape []int, data []float64) (*Array, error) {
	if ShapeSize(shape) != len(data) {
		return nil, fmt.Errorf("array of shape %s cannot hold %d elements", FormatShape(shape), len(data))
	}
	return &Array{Shape: slices.Clone(shape), Data: slices.Clone(data), DType: dtype}, nil
}

// NewZeros はゼロ埋め配列を生成する
func NewZeros(dtype DType, shape ...int) *Array {
	return &Array{Shape: slices.Clone(shape), Data: make([]float64, ShapeSize(shape)), DType: dtype}
}

func (a *Array) Rank() int {
	return len(a.Shape)
}

// Len は全要素数
func (a *Array) Len() int {
	return len(a.Data)
}

// Index は先頭軸の i 番目を切り出した複製を返す
func (a *Array) Index(i int) (*Array, error) {
	if a.Rank() == 0 {
		return nil, fmt.Errorf("cannot index a scalar array")
	}
	if i < 0 || i >= a.Shape[0] {
		return nil, fmt.Errorf("index %d out of range for shape %s", i, a.ShapeString())
	}
	sub := a.Shape[1:]
	stride := ShapeSize(sub)
	return &Array{
		Shape: slices.Clone(sub),
		Data:  slices.Clone(a.Data[i*stride : (i+1)*stride]),
		DType: a.DType,
	}, nil
}

// Reshape は要素数を保ったまま形状を変えた複製を返す
func (a *Array) Reshape(shape ...int) (*Array, error) {
	if ShapeSize(shape) != a.Len() {
		return nil, fmt.Errorf("cannot reshape %s into %s", a.ShapeString(), FormatShape(shape))
	}
	return &Array{Shape: slices.Clone(shape), Data: slices.Clone(a.Data), DType: a.DType}, nil
}

// FlattenLast は末尾2軸を1軸にまとめる
func (a *Array) FlattenLast() (*Array, error) {
	if a.Rank() < 2 {
		return nil, fmt.Errorf("cannot flatten last axes of %s", a.ShapeString())
	}
	n := a.Rank()
	shape := append(slices.Clone(a.Shape[:n-2]), a.Shape[n-2]*a.Shape[n-1])
	return a.Reshape(shape...)
}

// PrependAxis は先頭にサイズ1の軸を追加した複製を返す
func (a *Array) PrependAxis() *Array {
	return &Array{Shape: append([]int{1}, a.Shape...), Data: slices.Clone(a.Data), DType: a.DType}
}

func (a *Array) Clone() *Array {
	c := &Array{}
	if err := copier.CopyWithOption(c, a, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("array clone: %v", err))
	}
	return c
}

// IsZero は全要素が 0 か
func (a *Array) IsZero() bool {
	if a.Len() == 0 {
		return true
	}
	return floats.Norm(a.Data, math.Inf(1)) == 0
}

// NearZero は全要素の絶対値が tol 以下か
func (a *Array) NearZero(tol float64) bool {
	if a.Len() == 0 {
		return true
	}
	return floats.Norm(a.Data, math.Inf(1)) <= tol
}

// Equal は形状と値が一致するか (dtype は見ない)
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	return slices.Equal(a.Shape, b.Shape) && floats.Equal(a.Data, b.Data)
}

func (a *Array) ShapeString() string {
	return FormatShape(a.Shape)
}

// ShapeSize は shape の要素数。空 shape はスカラーで 1
func ShapeSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// FormatShape は numpy と同じ表記 "(30, 45)" にする
func FormatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
