package client

import (
	"fmt"
	"strings"

	"github.com/lightningsoon/KeyMinder/models"
	"github.com/spf13/cobra"
)

func (a *App) listCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries without their secrets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.server.ListEntries(cmd.Context())
			if err != nil {
				return err
			}

			if category != "" {
				filtered := entries[:0]
				for _, e := range entries {
					if strings.EqualFold(deref(e.Category), category) {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}

			renderEntries(a.out, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show entries of this category")
	return cmd
}

func (a *App) getCommand() *cobra.Command {
	var copyPassword bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an entry with its password and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.server.GetEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			renderEntry(a.out, entry, !copyPassword)
			if copyPassword {
				return a.copyToClipboard(entry.Password)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyPassword, "copy", "c", false, "copy the password to the clipboard instead of printing it")
	return cmd
}

// entryFlags are the fields shared by add and update.
type entryFlags struct {
	title, username, url, notes, category string
	tags                                  []string
	askPassword                           bool
	generate                              bool
	length                                int
}

func (f *entryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.title, "title", "t", "", "entry title")
	flags.StringVarP(&f.username, "username", "u", "", "account name stored in the entry")
	flags.StringVar(&f.url, "url", "", "site address")
	flags.StringVar(&f.notes, "notes", "", "notes, stored encrypted")
	flags.StringVar(&f.category, "category", "", "category")
	flags.StringSliceVar(&f.tags, "tags", nil, "comma separated tags")
	flags.BoolVarP(&f.generate, "generate", "g", false, "use a generated password")
	flags.IntVar(&f.length, "length", models.DefaultGeneratorOptions().Length, "length of a generated password")
}

// entryPassword returns a generated or prompted password.
func (a *App) entryPassword(cmd *cobra.Command, f *entryFlags) (string, error) {
	if f.generate {
		options := models.DefaultGeneratorOptions()
		options.Length = f.length
		options.IncludeUppercase = true
		options.IncludeSymbols = true
		return a.server.GeneratePassword(cmd.Context(), options)
	}
	return readNewPassword(a.prompter, "Entry password: ")
}

func (a *App) addCommand() *cobra.Command {
	f := &entryFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a new entry",
		Long: `Store a new entry.

The password is prompted for unless --generate is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := a.entryPassword(cmd, f)
			if err != nil {
				return err
			}

			entry := models.PasswordEntry{
				Title:    f.title,
				Username: f.username,
				Password: password,
				Tags:     f.tags,
			}
			flags := cmd.Flags()
			if flags.Changed("url") {
				entry.URL = &f.url
			}
			if flags.Changed("notes") {
				entry.Notes = &f.notes
			}
			if flags.Changed("category") {
				entry.Category = &f.category
			}

			created, err := a.server.CreateEntry(cmd.Context(), entry)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Entry %s created\n", created.ID)
			return nil
		},
	}

	f.register(cmd)
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("username")
	return cmd
}

func (a *App) updateCommand() *cobra.Command {
	f := &entryFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an entry",
		Long: `Change fields of an entry.

Only the given flags are changed. Use --password to be asked for a new
password or --generate for a generated one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update models.EntryUpdate
			flags := cmd.Flags()

			if flags.Changed("title") {
				update.Title = &f.title
			}
			if flags.Changed("username") {
				update.Username = &f.username
			}
			if flags.Changed("url") {
				update.URL = &f.url
			}
			if flags.Changed("notes") {
				update.Notes = &f.notes
			}
			if flags.Changed("category") {
				update.Category = &f.category
			}
			if flags.Changed("tags") {
				update.Tags = &f.tags
			}
			if f.askPassword || f.generate {
				password, err := a.entryPassword(cmd, f)
				if err != nil {
					return err
				}
				update.Password = &password
			}

			if update.IsEmpty() {
				return fmt.Errorf("%w: nothing to update", ErrEmptyInput)
			}

			updated, err := a.server.UpdateEntry(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Entry %s updated\n", updated.ID)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVarP(&f.askPassword, "password", "p", false, "prompt for a new password")
	return cmd
}

func (a *App) deleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer, err := a.prompter.Line(fmt.Sprintf("Delete entry %s? [y/N] ", args[0]))
				if err != nil {
					return err
				}
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					return ErrAborted
				}
			}

			if err := a.server.DeleteEntry(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Entry %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *App) copyToClipboard(text string) error {
	if err := a.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("error copying to clipboard: %w", err)
	}
	fmt.Fprintln(a.out, helpStyle.Render("password copied to clipboard"))
	return nil
}
