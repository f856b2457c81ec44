package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/miu200521358/hand2smplx/pkg/model"
	"github.com/miu200521358/hand2smplx/pkg/usecase"
)

func InspectCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the arrays of an .npz archive with shape, dtype and value range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := usecase.Inspect(fs, args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "NAME\tSHAPE\tDTYPE\tMIN\tMAX\tMEAN ANGLE")
			fmt.Fprintln(w, "----\t-----\t-----\t---\t---\t----------")
			for _, s := range summaries {
				angle := "-"
				if s.HasMeanAngle {
					angle = strconv.FormatFloat(s.MeanAngle, 'f', 2, 64) + "°"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\t%.4g\t%s\n",
					s.Name, model.FormatShape(s.Shape), s.DType, s.Min, s.Max, angle)
			}
			return nil
		},
	}
}
