package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/miu200521358/hand2smplx/pkg/mi18n"
	"github.com/miu200521358/hand2smplx/pkg/mlog"
	"github.com/miu200521358/hand2smplx/pkg/usecase"
)

var ErrVerifyFailed = errors.New("verification failed")

func VerifyCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>...",
		Short: "Check that SMPL-X archives have zero body_pose and exactly one hand pose",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				report, err := usecase.Verify(fs, path)
				if err != nil {
					mlog.E("%s", mi18n.T(mi18n.VerifyFailed, map[string]any{"Path": path, "Problem": err}))
					failed++
					continue
				}
				if !report.OK() {
					for _, problem := range report.Problems {
						mlog.E("%s", mi18n.T(mi18n.VerifyFailed, map[string]any{"Path": path, "Problem": problem}))
					}
					failed++
					continue
				}
				mlog.I("%s", mi18n.T(mi18n.VerifyPassed, map[string]any{
					"Path":   path,
					"Side":   handSide(report.IsRightHand),
					"Frames": report.FrameCount,
				}))
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d/%d files", ErrVerifyFailed, failed, len(args))
			}
			return nil
		},
	}
}

func handSide(isRight bool) string {
	if isRight {
		return mi18n.T(mi18n.SideRight)
	}
	return mi18n.T(mi18n.SideLeft)
}
