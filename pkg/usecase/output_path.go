package usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/miu200521358/hand2smplx/pkg/model"
)

const (
	DefaultOutputSuffix = "_smplx"
	DefaultInputExt     = ".npz"
)

// DefaultOutputPath は入力と同じ場所に "<入力名><suffix>.npz" を作る。入力の拡張子は引き継がない
func DefaultOutputPath(inputPath, suffix string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + suffix + DefaultInputExt
}

// OutputPaths は軌跡ごとの出力先。複数軌跡なら "_batch{i}_{right|left}" を付ける
func OutputPaths(outputPath string, hands []model.HandInfo) []string {
	if len(hands) <= 1 {
		return []string{outputPath}
	}

	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	if ext == "" {
		ext = DefaultInputExt
	}

	paths := make([]string, len(hands))
	for i, hand := range hands {
		paths[i] = fmt.Sprintf("%s_batch%d_%s%s", base, hand.TrajectoryIndex, hand.Side(), ext)
	}
	return paths
}
