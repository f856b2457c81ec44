// Package cli は hand2smplx のコマンドツリーを組み立てる。
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/miu200521358/hand2smplx/pkg/mconfig"
	"github.com/miu200521358/hand2smplx/pkg/mi18n"
	"github.com/miu200521358/hand2smplx/pkg/mlog"
	"github.com/miu200521358/hand2smplx/pkg/usecase"
	"github.com/miu200521358/hand2smplx/pkg/utils"
)

var ErrInputNotFound = errors.New("input path not found")

const (
	exitFailure    = 1
	exitIncomplete = 2
)

func RootCmd() *cobra.Command {
	return NewRootCmd(afero.NewOsFs())
}

func NewRootCmd(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:   "hand2smplx [input]",
		Short: "Convert Dyn-HaMR hand parameters (.npz) into SMPL-X parameter archives",
		Long: "Convert Dyn-HaMR hand parameters (.npz) into SMPL-X parameter archives.\n" +
			"A directory input converts every .npz file in it.",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupGlobalConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, fs, args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.String("log-level", string(mlog.INFO), "log level (debug, info, warn, error)")
	pf.Bool("log-json", false, "write logs as JSON")
	pf.String("lang", "en", "message language (en, zh, ja)")

	f := root.Flags()
	f.StringP("output", "o", "", "output path (default: <input>_smplx.npz)")
	f.Bool("batch", false, "convert every .npz file in the input directory")
	f.BoolP("quiet", "q", false, "suppress progress reports")
	f.Bool("compress", false, "write deflate-compressed archives")
	f.Int("jobs", 1, "number of files converted concurrently in batch mode")
	f.Bool("strict", false, "exit with status 2 when any file in a batch fails")

	root.AddCommand(
		InspectCmd(fs),
		VerifyCmd(fs),
	)

	return root
}

// setupGlobalConfig は設定を読み込み、ロガーと言語を設定してコンテキストに格納する
func setupGlobalConfig(cmd *cobra.Command) error {
	cfg, err := mconfig.Load(cmd.Flags())
	if err != nil {
		return err
	}

	mlog.Configure(mlog.Config{
		Level:  mlog.ParseLevel(cfg.Log.Level),
		JSON:   cfg.Log.JSON,
		Output: cmd.OutOrStdout(),
	})
	mi18n.SetLang(cfg.Lang)

	cmd.SetContext(mconfig.ContextWithConfig(cmd.Context(), cfg))
	return nil
}

func runConvert(cmd *cobra.Command, fs afero.Fs, input string) error {
	cfg := mconfig.FromContext(cmd.Context())

	exists, err := afero.Exists(fs, input)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", input, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrInputNotFound, input)
	}

	isDir, err := afero.IsDir(fs, input)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", input, err)
	}

	convertOpts := usecase.ConvertOptions{
		OutputPath:   cfg.Convert.Output,
		OutputSuffix: cfg.Convert.OutputSuffix,
		Verbose:      !cfg.Log.Quiet,
		Compress:     cfg.Convert.Compress,
	}

	if !isDir && !cfg.Convert.Batch {
		if _, err := usecase.Convert(fs, input, convertOpts); err != nil {
			return fmt.Errorf("failed to convert %s: %w", input, err)
		}
		return nil
	}

	if !isDir {
		return fmt.Errorf("%w: %s", usecase.ErrNotDirectory, input)
	}

	result, err := usecase.ConvertDir(fs, input, usecase.BatchOptions{
		ConvertOptions: convertOpts,
		InputExt:       cfg.Convert.InputExt,
		SkipMarker:     cfg.Convert.SkipMarker,
		Jobs:           cfg.Convert.Jobs,
		Progress:       !cfg.Log.Quiet && utils.IsTerminal(os.Stderr),
	})
	if err != nil {
		return err
	}
	if cfg.Convert.Strict {
		return result.Err()
	}
	return nil
}

// Execute はコマンドを実行し、失敗を記録して終了ステータスを返す
func Execute(root *cobra.Command) int {
	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	ReportError(cmd, err)
	return ExitCode(err)
}

// ReportError は失敗したコマンドに合わせた文言でエラーを記録する。変換はルートコマンドだけ
func ReportError(cmd *cobra.Command, err error) {
	if cmd == nil || !cmd.HasParent() {
		mlog.E("%s", mi18n.T(mi18n.ConvertFailed, map[string]any{"Error": err}))
		return
	}
	mlog.E("%s", mi18n.T(mi18n.CommandFailed, map[string]any{"Command": cmd.Name(), "Error": err}))
}

// ExitCode は終了ステータスを決める。一括変換の部分失敗だけ 2
func ExitCode(err error) int {
	if errors.Is(err, usecase.ErrBatchIncomplete) {
		return exitIncomplete
	}
	return exitFailure
}
