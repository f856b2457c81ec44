package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

// ramp は 0.01 刻みの値で埋めた配列
func ramp(t *testing.T, offset float64, shape ...int) *model.Array {
	t.Helper()
	data := make([]float64, model.ShapeSize(shape))
	for i := range data {
		data[i] = offset + float64(i+1)*0.01
	}
	a, err := model.NewArray(model.DTypeFloat32, shape, data)
	require.NoError(t, err)
	return a
}

func filled(t *testing.T, value float64, shape ...int) *model.Array {
	t.Helper()
	a := model.NewZeros(model.DTypeFloat32, shape...)
	for i := range a.Data {
		a.Data[i] = value
	}
	return a
}

// handRaw は1軌跡 T フレームの入力を作る
func handRaw(t *testing.T, frames int) *model.RawBundle {
	t.Helper()
	raw := model.NewRawBundle("hand.npz")
	raw.Set(model.FieldPoseBody, ramp(t, 0, frames, model.HandPoseDim))
	raw.Set(model.FieldRootOrient, ramp(t, 1, frames, 3))
	raw.Set(model.FieldTrans, ramp(t, 2, frames, 3))
	raw.Set(model.FieldBetas, ramp(t, 3, model.BetasDim))
	return raw
}

// batchRaw は B 軌跡 T フレームの入力を作る
func batchRaw(t *testing.T, b, frames int) *model.RawBundle {
	t.Helper()
	raw := model.NewRawBundle("batch.npz")
	raw.Set(model.FieldPoseBody, ramp(t, 0, b, frames, model.HandPoseDim))
	raw.Set(model.FieldRootOrient, ramp(t, 1, b, frames, 3))
	raw.Set(model.FieldTrans, ramp(t, 2, b, frames, 3))
	raw.Set(model.FieldBetas, ramp(t, 3, b, model.BetasDim))
	return raw
}

// sidedness は軌跡ごとに同じ値を並べた is_right (B,T)
func sidedness(t *testing.T, frames int, rights ...bool) *model.Array {
	t.Helper()
	a := model.NewZeros(model.DTypeBool, len(rights), frames)
	for b, right := range rights {
		if !right {
			continue
		}
		for j := range frames {
			a.Data[b*frames+j] = 1
		}
	}
	return a
}
