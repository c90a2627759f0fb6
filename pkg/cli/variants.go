package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"startup_valuation/pkg/core/valuation"
)

func (a *app) variantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the available valuation models",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, m := range valuation.Models() {
				if _, err := fmt.Fprintf(a.stdout, "%-8s %s\n", m.Variant(), m.Description()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
