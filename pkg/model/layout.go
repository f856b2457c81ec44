package model

// PoseLayout は pose_body として受け付ける配列レイアウト
type PoseLayout int

const (
	// LayoutFlat は [T,45]
	LayoutFlat PoseLayout = iota + 1
	// LayoutJoints は [T,15,3]
	LayoutJoints
	// LayoutCanonical は [B,T,45]
	LayoutCanonical
	// LayoutBatchJoints は [B,T,15,3]
	LayoutBatchJoints
)

func (l PoseLayout) String() string {
	switch l {
	case LayoutFlat:
		return "[T,45]"
	case LayoutJoints:
		return "[T,15,3]"
	case LayoutCanonical:
		return "[B,T,45]"
	case LayoutBatchJoints:
		return "[B,T,15,3]"
	default:
		return "unknown"
	}
}

// SingleTrajectory は軌跡軸を持たないレイアウトか
func (l PoseLayout) SingleTrajectory() bool {
	return l == LayoutFlat || l == LayoutJoints
}

// HasJointAxes は関節軸と成分軸が分かれているか
func (l PoseLayout) HasJointAxes() bool {
	return l == LayoutJoints || l == LayoutBatchJoints
}
