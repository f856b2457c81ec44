package model

import (
	"fmt"
	"slices"
)

// 入力 (MANO) 側のフィールド名
const (
	FieldPoseBody   = "pose_body"
	FieldRootOrient = "root_orient"
	FieldTrans      = "trans"
	FieldBetas      = "betas"
	FieldIsRight    = "is_right"
	FieldCamR       = "cam_R"
	FieldCamT       = "cam_t"
	FieldIntrins    = "intrins"
)

// 出力 (SMPL-X) 側のフィールド名
const (
	FieldBodyPose      = "body_pose"
	FieldGlobalOrient  = "global_orient"
	FieldTransl        = "transl"
	FieldRightHandPose = "right_hand_pose"
	FieldLeftHandPose  = "left_hand_pose"
)

const (
	HandJointCount = 15
	HandPoseDim    = HandJointCount * 3
	BodyJointCount = 21
	BodyPoseDim    = BodyJointCount * 3
	BetasDim       = 10
	VectorDim      = 3
)

const SourceName = "Dyn-HaMR"

// RawBundle は読み込んだアーカイブそのもの。変換処理からは読み取り専用
type RawBundle struct {
	Path   string
	names  []string
	arrays map[string]*Array
}

func NewRawBundle(path string) *RawBundle {
	return &RawBundle{Path: path, arrays: make(map[string]*Array)}
}

func (r *RawBundle) Set(name string, a *Array) {
	if _, ok := r.arrays[name]; !ok {
		r.names = append(r.names, name)
	}
	r.arrays[name] = a
}

func (r *RawBundle) Get(name string) (*Array, bool) {
	a, ok := r.arrays[name]
	return a, ok
}

func (r *RawBundle) Has(name string) bool {
	_, ok := r.arrays[name]
	return ok
}

// Names は格納順のフィールド名
func (r *RawBundle) Names() []string {
	return slices.Clone(r.names)
}

// CanonicalBundle は正規化後の配列。B は全配列で、T は時系列配列で共通
type CanonicalBundle struct {
	B          int
	T          int
	PoseBody   *Array // [B,T,45]
	RootOrient *Array // [B,T,3]
	Trans      *Array // [B,T,3]
	Betas      *Array // [B,10]
}

type HandInfo struct {
	TrajectoryIndex int
	IsRightHand     bool
	FrameCount      int
}

func (h HandInfo) Side() string {
	if h.IsRightHand {
		return "right"
	}
	return "left"
}

// Metadata は表示用の付帯情報。ファイルには書き出さない
type Metadata struct {
	Source          string
	TrajectoryIndex int
	IsRightHand     bool
	FrameCount      int
	Note            string
}

type NamedArray struct {
	Name  string
	Array *Array
}

// OutputBundle は1軌跡分の SMPL-X パラメータ
type OutputBundle struct {
	BodyPose      *Array // [T,63]
	GlobalOrient  *Array // [T,3]
	Transl        *Array // [T,3]
	Betas         *Array // [10]
	RightHandPose *Array // [T,45]
	LeftHandPose  *Array // [T,45]
	Camera        []NamedArray
	Metadata      Metadata
}

// Arrays は保存対象の配列を固定順で返す
func (o *OutputBundle) Arrays() []NamedArray {
	arrays := []NamedArray{
		{Name: FieldBodyPose, Array: o.BodyPose},
		{Name: FieldGlobalOrient, Array: o.GlobalOrient},
		{Name: FieldTransl, Array: o.Transl},
		{Name: FieldBetas, Array: o.Betas},
		{Name: FieldRightHandPose, Array: o.RightHandPose},
		{Name: FieldLeftHandPose, Array: o.LeftHandPose},
	}
	return append(arrays, o.Camera...)
}

// HandPose は実データが入っている側の手の姿勢
func (o *OutputBundle) HandPose() *Array {
	if o.Metadata.IsRightHand {
		return o.RightHandPose
	}
	return o.LeftHandPose
}

// Warning は既定値で補完して処理を続行したことの報告
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// Conversion は1ファイル分の変換結果
type Conversion struct {
	B        int
	T        int
	Hands    []HandInfo
	Bundles  []*OutputBundle
	Warnings []Warning
}
