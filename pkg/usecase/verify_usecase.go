package usecase

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

// numpy の allclose(x, 0) と同じ許容誤差
const zeroTolerance = 1e-8

var requiredOutputFields = []struct {
	name  string
	width int
}{
	{model.FieldBodyPose, model.BodyPoseDim},
	{model.FieldGlobalOrient, model.VectorDim},
	{model.FieldTransl, model.VectorDim},
	{model.FieldRightHandPose, model.HandPoseDim},
	{model.FieldLeftHandPose, model.HandPoseDim},
}

type VerifyReport struct {
	Path        string
	FrameCount  int
	IsRightHand bool
	Problems    []string
}

func (r *VerifyReport) OK() bool {
	return len(r.Problems) == 0
}

func (r *VerifyReport) addf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Verify は書き出した SMPL-X アーカイブの整合性を確認する
func Verify(fs afero.Fs, path string) (*VerifyReport, error) {
	raw, err := Unpack(fs, path)
	if err != nil {
		return nil, err
	}
	report := VerifyBundle(raw)
	report.Path = path
	return report, nil
}

// VerifyBundle は必須フィールド、フレーム数、body_pose のゼロ埋め、左右どちらか一方だけに手の姿勢があることを確認する
func VerifyBundle(raw *model.RawBundle) *VerifyReport {
	report := &VerifyReport{Path: raw.Path, FrameCount: -1}

	for _, field := range requiredOutputFields {
		a, ok := raw.Get(field.name)
		if !ok {
			report.addf("missing %s", field.name)
			continue
		}
		if a.Rank() != 2 || a.Shape[1] != field.width {
			report.addf("%s has shape %s, expected (T, %d)", field.name, a.ShapeString(), field.width)
			continue
		}
		if report.FrameCount < 0 {
			report.FrameCount = a.Shape[0]
		} else if a.Shape[0] != report.FrameCount {
			report.addf("%s has %d frames, expected %d", field.name, a.Shape[0], report.FrameCount)
		}
	}

	if betas, ok := raw.Get(model.FieldBetas); !ok {
		report.addf("missing %s", model.FieldBetas)
	} else if betas.Rank() != 1 || betas.Shape[0] != model.BetasDim {
		report.addf("%s has shape %s, expected (%d,)", model.FieldBetas, betas.ShapeString(), model.BetasDim)
	}

	if bodyPose, ok := raw.Get(model.FieldBodyPose); ok && !bodyPose.NearZero(zeroTolerance) {
		report.addf("%s is not zero-filled", model.FieldBodyPose)
	}

	right, hasRight := raw.Get(model.FieldRightHandPose)
	left, hasLeft := raw.Get(model.FieldLeftHandPose)
	if hasRight && hasLeft {
		rightZero := right.NearZero(zeroTolerance)
		leftZero := left.NearZero(zeroTolerance)
		switch {
		case rightZero && leftZero:
			report.addf("both hand poses are zero")
		case !rightZero && !leftZero:
			report.addf("both hand poses carry data")
		}
		report.IsRightHand = !rightZero
	}

	if report.FrameCount < 0 {
		report.FrameCount = 0
	}
	return report
}
