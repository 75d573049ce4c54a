package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/parser"
	"github.com/toyz/pystubgen/internal/utils/fileops"
)

func newServicesCommand(opts *rootOptions) *cobra.Command {
	var essential bool
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the services found in the models directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reporter := NewReporter(cmd.ErrOrStderr(), opts.verbose)
			v, err := opts.viper(cmd)
			if err != nil {
				reporter.ReportError(err)
				return reportedError{err}
			}
			modelsPath := v.GetString("models_path")

			files := fileops.NewOsFileOps()
			serviceNames, err := parser.NewLoader(files.Fs(), modelsPath).DiscoverServiceNames(models.NewServiceNameCatalog())
			if err != nil {
				reporter.ReportError(err)
				return reportedError{err}
			}
			if essential {
				serviceNames = models.FilterEssential(serviceNames)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SERVICE\tCLASS\tPACKAGE")
			for _, sn := range serviceNames {
				fmt.Fprintf(w, "%s\t%s\t%s\n", sn.Name, sn.ClassName, models.Boto3StubsPackageData.ServicePyPIName(sn))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&essential, "essential", false, "Only list services installed by default")
	return cmd
}
