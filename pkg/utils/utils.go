package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/miu200521358/hand2smplx/pkg/mlog"
	"github.com/miu200521358/hand2smplx/pkg/model"
	"github.com/miu200521358/hand2smplx/pkg/npzio"
)

// GetInputFilePaths は直下にある ext で終わるファイルを集める。名前に marker を含むものは出力済みとして除く
func GetInputFilePaths(fs afero.Fs, dirPath, ext, marker string) ([]string, error) {
	var paths []string
	err := afero.Walk(fs, dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path != dirPath && info.IsDir() {
			// 直下だけ参照
			return filepath.SkipDir
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ext) {
			return nil
		}
		if marker != "" && strings.Contains(strings.ToLower(info.Name()), strings.ToLower(marker)) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// IsTerminal は進捗バーを出してよい出力先か
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func NewProgressBar(total int, w io.Writer) *pb.ProgressBar {
	// プログレスバーのカスタムテンプレートを設定
	template := `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.03f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`

	bar := pb.ProgressBarTemplate(template).New(total)
	bar.SetWriter(w)

	return bar.Start()
}

// WriteBundles は軌跡ごとの出力を並行して書き出す。1つでも失敗したら書けた分も消す
func WriteBundles(fs afero.Fs, paths []string, bundles []*model.OutputBundle, compress bool) error {
	if len(paths) != len(bundles) {
		return fmt.Errorf("%d output paths for %d bundles", len(paths), len(bundles))
	}

	errCh := make(chan error, len(bundles))
	written := make([]bool, len(bundles))
	var wg sync.WaitGroup

	for i, bundle := range bundles {
		wg.Add(1)
		go func(i int, path string, bundle *model.OutputBundle) {
			defer wg.Done()

			if err := npzio.Save(fs, path, bundle.Arrays(), compress); err != nil {
				mlog.E("Failed to write trajectory %d: %v", i, err)
				errCh <- err
				return
			}
			written[i] = true
			mlog.D("Output trajectory [%d/%d] %s", i+1, len(bundles), path)
		}(i, paths[i], bundle)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) == 0 {
		return nil
	}

	for i, ok := range written {
		if !ok {
			continue
		}
		if err := fs.Remove(paths[i]); err != nil {
			mlog.W("Failed to remove partial output %s: %v", paths[i], err)
		}
	}
	return <-errCh
}
