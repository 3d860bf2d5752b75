package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgconv/svgconv"
)

func newSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size FILE",
		Short: "Print the intrinsic size of an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := svgconv.GetSize(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), size)
			return nil
		},
	}
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count DIR",
		Short: "Count the SVG files of a folder, recursively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := svgconv.CountFiles(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newScanCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Check whether the SVG files of a folder share the same size",
		Long: `Scan reads the intrinsic sizes of the SVG files of a folder, recursively.

Reading stops at the first size differing from the first one: every file is
counted, but only the sizes seen until then are reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			logger.Debug("scanning", "dir", args[0])

			report, err := svgconv.ScanFolderSizes(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(w).Encode(report)
			}

			fmt.Fprintln(w, StyleTitle.Render(args[0]))
			printKeyValue(w, "Files", StyleNumber.Render(strconv.Itoa(report.Total)))
			if report.BaseSize == nil {
				return nil
			}
			if report.AllSame {
				printKeyValue(w, "Size", StyleSuccess.Render(report.BaseSize.String()))
				return nil
			}
			sizes := make([]string, len(report.UniqueSizes))
			for i, s := range report.UniqueSizes {
				sizes[i] = s.String()
			}
			printKeyValue(w, "Sizes", StyleWarning.Render(strings.Join(sizes, ", ")+", ..."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
