package usecase

import (
	"fmt"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

const bodyPoseNote = "body_pose is zero-filled (hand-only reconstruction)"

// カメラ系フィールドと、軌跡軸を除いた基本の次元数
var cameraFields = []struct {
	name     string
	baseRank int
	shared   bool
}{
	{name: model.FieldCamR, baseRank: 2},
	{name: model.FieldCamT, baseRank: 1},
	{name: model.FieldIntrins, shared: true},
}

// Remap は軌跡ごとに SMPL-X のパラメータを組み立てる
func Remap(canonical *model.CanonicalBundle, raw *model.RawBundle, hands []model.HandInfo) ([]*model.OutputBundle, error) {
	if len(hands) != canonical.B {
		return nil, fmt.Errorf("%d hand infos for %d trajectories", len(hands), canonical.B)
	}

	bundles := make([]*model.OutputBundle, canonical.B)
	for b := range canonical.B {
		bundle, err := remapTrajectory(canonical, raw, hands[b], b)
		if err != nil {
			return nil, fmt.Errorf("trajectory %d: %w", b, err)
		}
		bundles[b] = bundle
	}
	return bundles, nil
}

func remapTrajectory(canonical *model.CanonicalBundle, raw *model.RawBundle, hand model.HandInfo, b int) (*model.OutputBundle, error) {
	t := canonical.T

	handPose, err := canonical.PoseBody.Index(b)
	if err != nil {
		return nil, err
	}
	globalOrient, err := canonical.RootOrient.Index(b)
	if err != nil {
		return nil, err
	}
	transl, err := canonical.Trans.Index(b)
	if err != nil {
		return nil, err
	}
	betas, err := canonical.Betas.Index(b)
	if err != nil {
		return nil, err
	}

	bundle := &model.OutputBundle{
		// 身体の情報は無いのでゼロ埋め
		BodyPose:     model.NewZeros(model.DTypeFloat32, t, model.BodyPoseDim),
		GlobalOrient: globalOrient,
		Transl:       transl,
		Betas:        betas,
		Metadata: model.Metadata{
			Source:          model.SourceName,
			TrajectoryIndex: b,
			IsRightHand:     hand.IsRightHand,
			FrameCount:      t,
			Note:            bodyPoseNote,
		},
	}

	emptyHand := model.NewZeros(model.DTypeFloat32, t, model.HandPoseDim)
	if hand.IsRightHand {
		bundle.RightHandPose = handPose
		bundle.LeftHandPose = emptyHand
	} else {
		bundle.LeftHandPose = handPose
		bundle.RightHandPose = emptyHand
	}

	camera, err := passCamera(raw, canonical.B, b)
	if err != nil {
		return nil, err
	}
	bundle.Camera = camera

	return bundle, nil
}

// passCamera はカメラ系フィールドを引き継ぐ。軌跡ごとのデータなら b 番目を切り出す
func passCamera(raw *model.RawBundle, batch, b int) ([]model.NamedArray, error) {
	var camera []model.NamedArray
	for _, field := range cameraFields {
		a, ok := raw.Get(field.name)
		if !ok {
			continue
		}
		if !field.shared && batch > 1 && a.Rank() > field.baseRank && a.Shape[0] == batch {
			sub, err := a.Index(b)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", field.name, err)
			}
			camera = append(camera, model.NamedArray{Name: field.name, Array: sub})
			continue
		}
		camera = append(camera, model.NamedArray{Name: field.name, Array: a.Clone()})
	}
	return camera, nil
}

// ConvertBundle は読み込み済みの入力を正規化し、軌跡ごとの出力に変換する
func ConvertBundle(raw *model.RawBundle) (*model.Conversion, error) {
	canonical, warnings, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	hands, handWarnings, err := AnalyzeHands(raw, canonical)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, handWarnings...)

	bundles, err := Remap(canonical, raw, hands)
	if err != nil {
		return nil, err
	}

	return &model.Conversion{
		B:        canonical.B,
		T:        canonical.T,
		Hands:    hands,
		Bundles:  bundles,
		Warnings: warnings,
	}, nil
}
