package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zklinkprotocol/zklink-go-sdk/zklink/bindings"
)

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types [NAME]",
		Short: "Show how SDK types are written in flags and JSON output",
		Long: `List every SDK type that crosses the command line or JSON boundary,
grouped by representation: fixed-int (unsigned integer), decimal-string
(base-10 amount) or hex-string (0x-prefixed bytes). With NAME, print only
that type's representation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := bindings.DefaultRegistry()
			if len(args) == 1 {
				kind, ok := reg.Kind(args[0])
				if !ok {
					return fmt.Errorf("unknown type %q", args[0])
				}
				return writeResult(cmd.OutOrStdout(), rootOpts.Format, result{{"name", args[0]}, {"kind", kind.String()}})
			}
			var out result
			for _, kind := range []bindings.Kind{bindings.KindFixedInt, bindings.KindDecimalString, bindings.KindHexString} {
				out = append(out, field{kind.String(), strings.Join(reg.Names(kind), ", ")})
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, out)
		},
	}
}
