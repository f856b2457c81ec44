package usecase

import (
	"fmt"
	"slices"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

// AnalyzeHands は is_right から軌跡ごとの左右を判定する
func AnalyzeHands(raw *model.RawBundle, canonical *model.CanonicalBundle) ([]model.HandInfo, []model.Warning, error) {
	isRight, ok := raw.Get(model.FieldIsRight)
	if !ok {
		if canonical.B > 1 {
			return nil, nil, fmt.Errorf("%w: %d trajectories but no %s field",
				model.ErrAmbiguousSidedness, canonical.B, model.FieldIsRight)
		}
		warnings := []model.Warning{{
			Field:   model.FieldIsRight,
			Message: "not present in input, assuming right hand",
		}}
		return []model.HandInfo{{TrajectoryIndex: 0, IsRightHand: true, FrameCount: canonical.T}}, warnings, nil
	}

	switch isRight.Rank() {
	case 1:
		// (T,) は単一軌跡
		if canonical.B != 1 {
			return nil, nil, model.NewShapeError(model.FieldIsRight, isRight.Shape,
				fmt.Sprintf("single trajectory flags for %d trajectories", canonical.B))
		}
		if isRight.Len() == 0 {
			return nil, nil, model.NewShapeError(model.FieldIsRight, isRight.Shape, "no frames")
		}
		return []model.HandInfo{{
			TrajectoryIndex: 0,
			IsRightHand:     isRight.Data[0] != 0,
			FrameCount:      canonical.T,
		}}, nil, nil
	case 2:
		// (B,T) は軌跡ごと
		rows, frames := isRight.Shape[0], isRight.Shape[1]
		if rows != canonical.B {
			return nil, nil, model.NewShapeError(model.FieldIsRight, isRight.Shape,
				fmt.Sprintf("expected %d rows to match pose_body", canonical.B))
		}
		if frames == 0 {
			return nil, nil, model.NewShapeError(model.FieldIsRight, isRight.Shape, "no frames")
		}

		var warnings []model.Warning
		hands := make([]model.HandInfo, rows)
		for b := range rows {
			row := isRight.Data[b*frames : (b+1)*frames]
			if values := distinctValues(row); len(values) > 1 {
				warnings = append(warnings, model.Warning{
					Field: model.FieldIsRight,
					Message: fmt.Sprintf("trajectory %d has inconsistent values %v, using first frame value",
						b, values),
				})
			}
			hands[b] = model.HandInfo{
				TrajectoryIndex: b,
				IsRightHand:     row[0] != 0,
				FrameCount:      canonical.T,
			}
		}
		return hands, warnings, nil
	default:
		return nil, nil, model.NewShapeError(model.FieldIsRight, isRight.Shape, "rank must be 1 or 2")
	}
}

func distinctValues(row []float64) []float64 {
	values := slices.Clone(row)
	slices.Sort(values)
	return slices.Compact(values)
}
