package usecase

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

// ResolvePoseLayout は pose_body の形状からレイアウトを一度だけ決める
func ResolvePoseLayout(shape []int) (model.PoseLayout, error) {
	switch len(shape) {
	case 4:
		return model.LayoutBatchJoints, nil
	case 3:
		// 末尾が45なら (B,T,45)、それ以外は (T,15,3) とみなす
		if shape[2] == model.HandPoseDim {
			return model.LayoutCanonical, nil
		}
		return model.LayoutJoints, nil
	case 2:
		return model.LayoutFlat, nil
	default:
		return 0, model.NewShapeError(model.FieldPoseBody, shape, "rank must be 2, 3 or 4")
	}
}

// Normalize は入力の配列レイアウトを (B,T,45) / (B,T,3) / (B,10) に揃える
func Normalize(raw *model.RawBundle) (*model.CanonicalBundle, []model.Warning, error) {
	poseBody, err := requireField(raw, model.FieldPoseBody)
	if err != nil {
		return nil, nil, err
	}
	rootOrient, err := requireField(raw, model.FieldRootOrient)
	if err != nil {
		return nil, nil, err
	}
	trans, err := requireField(raw, model.FieldTrans)
	if err != nil {
		return nil, nil, err
	}

	layout, err := ResolvePoseLayout(poseBody.Shape)
	if err != nil {
		return nil, nil, err
	}

	if layout.HasJointAxes() {
		flat, err := poseBody.FlattenLast()
		if err != nil {
			return nil, nil, model.NewShapeError(model.FieldPoseBody, poseBody.Shape, err.Error())
		}
		poseBody = flat
	}

	if layout.SingleTrajectory() {
		// 軌跡軸を追加する
		poseBody = poseBody.PrependAxis()
		rootOrient = promoteTrajectory(rootOrient)
		trans = promoteTrajectory(trans)
	}

	if poseBody.Rank() != 3 || poseBody.Shape[2] != model.HandPoseDim {
		return nil, nil, model.NewShapeError(model.FieldPoseBody, poseBody.Shape,
			fmt.Sprintf("expected [B,T,%d] after normalizing %s layout", model.HandPoseDim, layout))
	}

	b, t := poseBody.Shape[0], poseBody.Shape[1]
	if b == 0 {
		return nil, nil, model.NewShapeError(model.FieldPoseBody, poseBody.Shape, "no trajectories")
	}

	for _, field := range []struct {
		name  string
		array *model.Array
	}{
		{model.FieldRootOrient, rootOrient},
		{model.FieldTrans, trans},
	} {
		if !slices.Equal(field.array.Shape, []int{b, t, model.VectorDim}) {
			return nil, nil, model.NewShapeError(field.name, field.array.Shape,
				fmt.Sprintf("expected (%d, %d, %d) to match pose_body", b, t, model.VectorDim))
		}
	}

	betas, warnings, err := normalizeBetas(raw, b)
	if err != nil {
		return nil, nil, err
	}

	return &model.CanonicalBundle{
		B:          b,
		T:          t,
		PoseBody:   poseBody,
		RootOrient: rootOrient,
		Trans:      trans,
		Betas:      betas,
	}, warnings, nil
}

func requireField(raw *model.RawBundle, name string) (*model.Array, error) {
	a, ok := raw.Get(name)
	if !ok {
		return nil, &model.MissingFieldError{Field: name}
	}
	return a, nil
}

// promoteTrajectory は (T,3) を (1,T,3) にする。既に軌跡軸があればそのまま
func promoteTrajectory(a *model.Array) *model.Array {
	if a.Rank() == 2 {
		return a.PrependAxis()
	}
	return a
}

func normalizeBetas(raw *model.RawBundle, b int) (*model.Array, []model.Warning, error) {
	var warnings []model.Warning

	betas, ok := raw.Get(model.FieldBetas)
	if !ok {
		warnings = append(warnings, model.Warning{
			Field:   model.FieldBetas,
			Message: "not present in input, using zero shape coefficients",
		})
		return model.NewZeros(model.DTypeFloat32, b, model.BetasDim), warnings, nil
	}

	switch betas.Rank() {
	case 1:
		betas = betas.PrependAxis()
	case 2:
	case 3:
		// (B,T,10) は時間方向に平均する
		betas = meanOverTime(betas)
		warnings = append(warnings, model.Warning{
			Field:   model.FieldBetas,
			Message: "per-frame shape coefficients were averaged over time",
		})
	default:
		return nil, nil, model.NewShapeError(model.FieldBetas, betas.Shape, "rank must be 1, 2 or 3")
	}

	if betas.Shape[1] != model.BetasDim {
		return nil, nil, model.NewShapeError(model.FieldBetas, betas.Shape,
			fmt.Sprintf("last dimension must be %d", model.BetasDim))
	}

	switch {
	case betas.Shape[0] == b:
	case betas.Shape[0] == 1:
		betas = tile(betas, b)
		warnings = append(warnings, model.Warning{
			Field:   model.FieldBetas,
			Message: fmt.Sprintf("single shape shared by %d trajectories", b),
		})
	default:
		return nil, nil, model.NewShapeError(model.FieldBetas, betas.Shape,
			fmt.Sprintf("expected %d rows to match pose_body", b))
	}

	return betas, warnings, nil
}

func meanOverTime(a *model.Array) *model.Array {
	b, t, d := a.Shape[0], a.Shape[1], a.Shape[2]
	out := model.NewZeros(a.DType, b, d)
	column := make([]float64, t)
	for i := range b {
		for k := range d {
			for j := range t {
				column[j] = a.Data[(i*t+j)*d+k]
			}
			if t > 0 {
				out.Data[i*d+k] = stat.Mean(column, nil)
			}
		}
	}
	return out
}

// tile は (1,D) を (n,D) に複製する
func tile(a *model.Array, n int) *model.Array {
	out := &model.Array{Shape: []int{n, a.Shape[1]}, DType: a.DType}
	for range n {
		out.Data = append(out.Data, a.Data...)
	}
	return out
}
