package client

import (
	"fmt"

	"github.com/lightningsoon/KeyMinder/models"
	"github.com/spf13/cobra"
)

func (a *App) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate passwords and passphrases",
	}

	cmd.AddCommand(a.generatePasswordCommand(), a.generatePassphraseCommand())
	return cmd
}

func (a *App) generatePasswordCommand() *cobra.Command {
	options := models.DefaultGeneratorOptions()
	var copyResult bool

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Generate a random password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := a.server.GeneratePassword(cmd.Context(), options)
			if err != nil {
				return err
			}
			return a.printOrCopy(password, copyResult)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&options.Length, "length", "l", options.Length, "password length")
	flags.BoolVar(&options.IncludeUppercase, "uppercase", options.IncludeUppercase, "include A-Z")
	flags.BoolVar(&options.IncludeLowercase, "lowercase", options.IncludeLowercase, "include a-z")
	flags.BoolVar(&options.IncludeNumbers, "numbers", options.IncludeNumbers, "include 0-9")
	flags.BoolVar(&options.IncludeSymbols, "symbols", options.IncludeSymbols, "include symbols")
	flags.BoolVarP(&copyResult, "copy", "c", false, "copy to the clipboard instead of printing")
	return cmd
}

func (a *App) generatePassphraseCommand() *cobra.Command {
	options := models.DefaultPassphraseOptions()
	var copyResult bool

	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Generate a diceware passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			passphrase, err := a.server.GeneratePassphrase(cmd.Context(), options)
			if err != nil {
				return err
			}
			return a.printOrCopy(passphrase, copyResult)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&options.Words, "words", "w", options.Words, "number of words")
	flags.StringVar(&options.Separator, "separator", options.Separator, "word separator")
	flags.BoolVarP(&copyResult, "copy", "c", false, "copy to the clipboard instead of printing")
	return cmd
}

func (a *App) printOrCopy(secret string, copyResult bool) error {
	if copyResult {
		return a.copyToClipboard(secret)
	}
	fmt.Fprintln(a.out, secret)
	return nil
}
