package usecase

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/miu200521358/hand2smplx/pkg/mi18n"
	"github.com/miu200521358/hand2smplx/pkg/mlog"
	"github.com/miu200521358/hand2smplx/pkg/utils"
)

var (
	ErrNotDirectory    = errors.New("batch mode requires a directory")
	ErrNoInputFiles    = errors.New("no input files found")
	ErrBatchIncomplete = errors.New("some files failed to convert")
	ErrMarkerMismatch  = errors.New("output suffix does not contain the skip marker")
)

// 出力済みファイルを一括変換の対象から外す目印
const DefaultSkipMarker = "smplx"

type BatchOptions struct {
	ConvertOptions
	InputExt   string
	SkipMarker string
	// Jobs は同時に変換するファイル数。1 なら逐次
	Jobs     int
	Progress bool
}

type FileFailure struct {
	Path string
	Err  error
}

type BatchResult struct {
	Total     int
	Succeeded int
	Results   []*ConvertResult
	Failures  []FileFailure
}

// ConvertDir はディレクトリ直下の入力ファイルを一括変換する。個別の失敗は集計して続行する
func ConvertDir(fs afero.Fs, dirPath string, opts BatchOptions) (*BatchResult, error) {
	isDir, err := afero.IsDir(fs, dirPath)
	if err != nil || !isDir {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dirPath)
	}

	ext := opts.InputExt
	if ext == "" {
		ext = DefaultInputExt
	}
	marker := opts.SkipMarker
	if marker == "" {
		marker = DefaultSkipMarker
	}
	suffix := opts.OutputSuffix
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	// 出力名は必ず目印を含む
	if !strings.Contains(strings.ToLower(suffix), strings.ToLower(marker)) {
		return nil, fmt.Errorf("%w: suffix %q, marker %q", ErrMarkerMismatch, suffix, marker)
	}

	paths, err := utils.GetInputFilePaths(fs, dirPath, ext, marker)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dirPath, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, dirPath)
	}

	infoT(mi18n.BatchDir, map[string]any{"Path": dirPath})
	infoT(mi18n.BatchFound, map[string]any{"Count": len(paths)})

	// 一括時は出力先の指定を無視する
	convertOpts := opts.ConvertOptions
	convertOpts.OutputPath = ""

	jobs := max(opts.Jobs, 1)

	var bar *pb.ProgressBar
	if opts.Progress {
		bar = utils.NewProgressBar(len(paths), os.Stderr)
	}

	result := &BatchResult{Total: len(paths), Results: make([]*ConvertResult, len(paths))}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if bar != nil {
				defer bar.Increment()
			}
			name := filepath.Base(path)
			infoT(mi18n.BatchProcessing, map[string]any{"Name": name})

			res, err := Convert(fs, path, convertOpts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				mlog.E("%s", mi18n.T(mi18n.BatchFailed, map[string]any{"Name": name, "Error": err}))
				result.Failures = append(result.Failures, FileFailure{Path: path, Err: err})
				return nil
			}
			result.Results[i] = res
			result.Succeeded++
			return nil
		})
	}

	// 各ファイルの失敗は集計済みなので Wait はエラーを返さない
	_ = g.Wait()
	if bar != nil {
		bar.Finish()
	}
	slices.SortFunc(result.Failures, func(a, b FileFailure) int {
		return cmp.Compare(a.Path, b.Path)
	})

	infoT(mi18n.BatchSummary, map[string]any{"Succeeded": result.Succeeded, "Total": result.Total})

	return result, nil
}

// Err は失敗が1件でもあれば ErrBatchIncomplete を返す
func (r *BatchResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d/%d failed", ErrBatchIncomplete, len(r.Failures), r.Total)
}
