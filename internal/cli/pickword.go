package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPickWordCmd prints a random vocabulary word with its first meaning.
func NewPickWordCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pickword",
		Short: "Print a random word and its definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			entry, err := rt.service().PickWord(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Word: %s\n", entry.Word)
			fmt.Fprintf(out, "Part of speech: %s\n", entry.PartOfSpeech)
			fmt.Fprintf(out, "Definition: %s\n", entry.Definition)
			return nil
		},
	}
}
