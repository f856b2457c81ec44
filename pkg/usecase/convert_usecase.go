package usecase

import (
	"github.com/spf13/afero"

	"github.com/miu200521358/hand2smplx/pkg/mi18n"
	"github.com/miu200521358/hand2smplx/pkg/mlog"
	"github.com/miu200521358/hand2smplx/pkg/model"
	"github.com/miu200521358/hand2smplx/pkg/utils"
)

type ConvertOptions struct {
	// OutputPath が空なら入力の隣に OutputSuffix 付きで出力する
	OutputPath   string
	OutputSuffix string
	Verbose      bool
	Compress     bool
}

type ConvertResult struct {
	InputPath   string
	OutputPaths []string
	Conversion  *model.Conversion
}

// Convert は1ファイルを読み込み、変換して書き出す
func Convert(fs afero.Fs, inputPath string, opts ConvertOptions) (*ConvertResult, error) {
	if opts.Verbose {
		infoT(mi18n.ReadInput, map[string]any{"Path": inputPath})
	}

	raw, err := Unpack(fs, inputPath)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		reportArrays(mi18n.InputArrays, arraysOf(raw))
	}

	conversion, err := ConvertBundle(raw)
	if err != nil {
		return nil, err
	}
	for _, w := range conversion.Warnings {
		mlog.W("[%s] %s", inputPath, w)
	}
	if opts.Verbose {
		reportHands(conversion)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		suffix := opts.OutputSuffix
		if suffix == "" {
			suffix = DefaultOutputSuffix
		}
		outputPath = DefaultOutputPath(inputPath, suffix)
	}
	paths := OutputPaths(outputPath, conversion.Hands)

	if opts.Verbose {
		reportOutputs(conversion, paths)
	}

	if err := utils.WriteBundles(fs, paths, conversion.Bundles, opts.Compress); err != nil {
		return nil, err
	}

	if opts.Verbose {
		reportDone(conversion)
	}

	return &ConvertResult{
		InputPath:   inputPath,
		OutputPaths: paths,
		Conversion:  conversion,
	}, nil
}

func arraysOf(raw *model.RawBundle) []model.NamedArray {
	names := raw.Names()
	arrays := make([]model.NamedArray, 0, len(names))
	for _, name := range names {
		a, _ := raw.Get(name)
		arrays = append(arrays, model.NamedArray{Name: name, Array: a})
	}
	return arrays
}

func reportArrays(title string, arrays []model.NamedArray) {
	infoT(title)
	for _, na := range arrays {
		infoT(mi18n.ArrayShape, map[string]any{"Name": na.Name, "Shape": na.Array.ShapeString()})
	}
}

// infoT は翻訳済みメッセージを INFO で出す
func infoT(id string, data ...map[string]any) {
	mlog.I("%s", mi18n.T(id, data...))
}

func sideLabel(isRight bool) string {
	if isRight {
		return mi18n.T(mi18n.SideRight)
	}
	return mi18n.T(mi18n.SideLeft)
}

func reportHands(conversion *model.Conversion) {
	infoT(mi18n.Dimensions, map[string]any{"B": conversion.B, "T": conversion.T})
	infoT(mi18n.DetectedHands)
	for _, hand := range conversion.Hands {
		infoT(mi18n.HandEntry, map[string]any{
			"Index":  hand.TrajectoryIndex,
			"Side":   sideLabel(hand.IsRightHand),
			"Frames": hand.FrameCount,
		})
	}
}

func reportOutputs(conversion *model.Conversion, paths []string) {
	if len(paths) == 1 {
		infoT(mi18n.SaveOutput, map[string]any{"Path": paths[0]})
	} else {
		for i, path := range paths {
			infoT(mi18n.SaveBatch, map[string]any{
				"Index": i,
				"Side":  sideLabel(conversion.Hands[i].IsRightHand),
				"Path":  path,
			})
		}
	}
	if len(conversion.Bundles) > 0 {
		reportArrays(mi18n.OutputArrays, conversion.Bundles[0].Arrays())
	}
}

func reportDone(conversion *model.Conversion) {
	infoT(mi18n.ConvertDone)
	infoT(mi18n.NoteHands)
	infoT(mi18n.NoteOrient)
	infoT(mi18n.NoteBody)
	if conversion.B > 1 {
		infoT(mi18n.NoteMulti, map[string]any{"B": conversion.B})
	}
}
