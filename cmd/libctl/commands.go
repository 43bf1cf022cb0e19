package main

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ybulut/liblend/internal/data"
	"github.com/ybulut/liblend/internal/validator"
)

// readPassword reads a password from the terminal without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

func setupCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the database schema and seed the first admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			models := data.NewModels(db)

			if _, err := models.Users.GetByUsername(username); err == nil {
				fmt.Printf("Schema ready. User %q already exists, nothing to seed.\n", username)
				return nil
			} else if !errors.Is(err, data.ErrRecordNotFound) {
				return err
			}

			password, err := readPassword(fmt.Sprintf("Password for %q: ", username))
			if err != nil {
				return err
			}
			if !validator.StrongPassword(password) {
				return errors.New("password must be at least 8 characters with an upper-case letter, a lower-case letter and a digit")
			}

			user := &data.User{Username: username, IsAdmin: true}
			if err := user.Password.Set(password); err != nil {
				return err
			}
			if err := models.Users.Insert(user); err != nil {
				return err
			}

			fmt.Printf("Schema ready. Admin user %q created (id %d).\n", username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "admin", "username for the seeded admin account")
	return cmd
}

func importClassicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-classics",
		Short: "Import the classic book catalogue, skipping books already present",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			inserted, err := data.NewModels(db).Books.ImportClassics()
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d book(s).\n", inserted)
			return nil
		},
	}
}

func dedupeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "dedupe {books|members}",
		Short:     "Merge duplicate books or members into their lowest-id record",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"books", "members"},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			models := data.NewModels(db)

			var removed int
			switch args[0] {
			case "books":
				removed, err = models.Books.MergeDuplicates()
			case "members":
				removed, err = models.Members.MergeDuplicates()
			default:
				return fmt.Errorf("unknown kind %q, want books or members", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Printf("Removed %d duplicate record(s).\n", removed)
			return nil
		},
	}
}
