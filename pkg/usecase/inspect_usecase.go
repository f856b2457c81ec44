package usecase

import (
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/floats"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

// 軸角で表された回転の配列
var orientFields = map[string]bool{
	model.FieldRootOrient:   true,
	model.FieldGlobalOrient: true,
}

type ArraySummary struct {
	Name  string
	Shape []int
	DType model.DType
	Min   float64
	Max   float64
	// MeanAngle は回転配列のみ。軸角の大きさの平均 (度)
	MeanAngle    float64
	HasMeanAngle bool
}

// Inspect はアーカイブ内の配列を名前順に要約する
func Inspect(fs afero.Fs, path string) ([]ArraySummary, error) {
	raw, err := Unpack(fs, path)
	if err != nil {
		return nil, err
	}

	arrays := make(map[string]*model.Array)
	for _, name := range raw.Names() {
		arrays[name], _ = raw.Get(name)
	}

	summaries := make([]ArraySummary, 0, len(arrays))
	for _, name := range slices.Sorted(maps.Keys(arrays)) {
		summaries = append(summaries, summarize(name, arrays[name]))
	}
	return summaries, nil
}

func summarize(name string, a *model.Array) ArraySummary {
	s := ArraySummary{Name: name, Shape: a.Shape, DType: a.DType}
	if a.Len() > 0 {
		s.Min = floats.Min(a.Data)
		s.Max = floats.Max(a.Data)
	}
	if orientFields[name] && a.Rank() > 0 && a.Shape[a.Rank()-1] == model.VectorDim && a.Len() > 0 {
		s.MeanAngle = meanRotationAngle(a)
		s.HasMeanAngle = true
	}
	return s
}

func meanRotationAngle(a *model.Array) float64 {
	n := a.Len() / model.VectorDim
	total := 0.0
	for i := range n {
		v := mgl64.Vec3{a.Data[i*3], a.Data[i*3+1], a.Data[i*3+2]}
		total += v.Len()
	}
	return mgl64.RadToDeg(total / float64(n))
}
