package commands

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"list", "ls"},
	Short:   "List every known compute environment",
	Long: `List every compute environment envdetect can identify, in catalog order,
with its cloud provider, OpenTelemetry platform code, the hardware identity
substrings it matches and the number of environment variables it expects.`,
	Example: `  # Table of environments
  envdetect catalog

  # Full signatures as YAML
  envdetect catalog -o yaml

See Also: envdetect show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeCatalog(cmd.OutOrStdout())
	},
}

// catalogEntry describes one environment's signature.
type catalogEntry struct {
	Environment string   `json:"environment" yaml:"environment" toml:"environment"`
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Provider    string   `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	Platform    string   `json:"platform" yaml:"platform" toml:"platform"`
	BIOSVendor  string   `json:"bios_vendor,omitempty" yaml:"bios_vendor,omitempty" toml:"bios_vendor,omitempty"`
	ProductName string   `json:"product_name,omitempty" yaml:"product_name,omitempty" toml:"product_name,omitempty"`
	SysVendor   string   `json:"system_vendor,omitempty" yaml:"system_vendor,omitempty" toml:"system_vendor,omitempty"`
	EnvVars     []string `json:"env_vars" yaml:"env_vars" toml:"env_vars"`
}

func newCatalogEntry(e computeenv.Environment) catalogEntry {
	sig := e.Signature()
	entry := catalogEntry{
		Environment: e.Slug(),
		Name:        e.String(),
		Platform:    e.PlatformCode(),
		BIOSVendor:  sig.BIOSVendor,
		ProductName: sig.ProductName,
		SysVendor:   sig.SystemVendor,
		EnvVars:     sig.EnvVars,
	}
	if p, ok := e.CloudProvider(); ok {
		entry.Provider = p.Code()
	}
	if entry.EnvVars == nil {
		entry.EnvVars = []string{}
	}
	return entry
}

func writeCatalog(w io.Writer) error {
	all := computeenv.All()
	entries := make([]catalogEntry, 0, len(all))
	for _, e := range all {
		entries = append(entries, newCatalogEntry(e))
	}

	if done, err := output.Emit(w, outputFormat, entries); done {
		return err
	}

	table := output.NewTable("Environment", "Name", "Provider", "Platform", "BIOS Vendor", "Product", "System Vendor", "Vars")
	for _, e := range entries {
		table.AddRow(
			e.Environment,
			e.Name,
			orDash(e.Provider),
			e.Platform,
			orDash(e.BIOSVendor),
			orDash(e.ProductName),
			orDash(e.SysVendor),
			strconv.Itoa(len(e.EnvVars)),
		)
	}
	return table.Render(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
