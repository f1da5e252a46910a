package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trombinoscope/pkg/directory"
	tio "github.com/matzehuels/trombinoscope/pkg/io"
	"github.com/matzehuels/trombinoscope/pkg/source"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file|url>",
		Short: "Import employees from a JSON or YAML list",
		Long: `Import employees from a JSON or YAML list, keeping their ids.

Every record is validated before anything is written. With --replace the
directory is cleared first; otherwise ids already present are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], replace)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "clear the directory before importing")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, location string, replace bool) error {
	employees, err := source.NewClient().Load(ctx, location)
	if err != nil {
		return err
	}

	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	n, err := svc.Import(ctx, employees, replace)
	if err != nil {
		return fmt.Errorf("import %s: %w", location, err)
	}
	printSuccess("Imported %s employees from %s", StyleNumber.Render(strconv.Itoa(n)), location)
	return nil
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export employees as JSON or YAML",
		Long: `Export employees as JSON or YAML.

Without a file the list is written to stdout in --format. With a file the
format follows its extension (.yaml/.yml, anything else is JSON).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeSvc, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSvc()

			employees, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return writeEmployees(c.out(), employees, format)
			}
			if err := tio.ExportFile(args[0], employees); err != nil {
				return err
			}
			printSuccess("Exported %d employees", len(employees))
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", tio.FormatJSON, "output format: json, yaml")

	return cmd
}

// writeEmployees encodes employees to w in the named format.
func writeEmployees(w io.Writer, employees []directory.Employee, format string) error {
	return tio.WriteEmployees(w, employees, format)
}
