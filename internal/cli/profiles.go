package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// newProfilesCommand creates the profiles command.
func newProfilesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List Firefox profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := a.profiles()
			if err != nil {
				return fmt.Errorf("discover profiles: %w", err)
			}
			if len(profiles) == 0 {
				return errors.New("no Firefox profiles found")
			}
			out := cmd.OutOrStdout()
			for _, p := range profiles {
				suffix := ""
				if p.IsDefault {
					suffix = " [default]"
				}
				if p.Name == a.cfg.Profile {
					suffix += " [selected]"
				}
				fmt.Fprintf(out, "%s (%s)%s\n", p.Name, p.Path, suffix)
			}
			return nil
		},
	}
}
