package main

import (
	"errors"
	"fmt"
	"io"
	"net/mail"

	store "github.com/likearthian/recordstore"
	"github.com/spf13/cobra"
	"gopkg.in/guregu/null.v4"
)

// User is a row of the users table.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	CountryID null.Int
	Avatar    null.String
}

func (User) GetTableDef() store.TableDef {
	return store.TableDef{
		Name:     "users",
		KeyField: "id",
		Fields:   []string{"email", "firstName", "lastName", "countryId", "avatar"},
	}
}

func (u User) Validate() error {
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email %q", u.Email)
	}
	return nil
}

var errUserNotFound = errors.New("user not found")

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserCreateCommand(a),
		newUserShowCommand(a),
		newUserExistsCommand(a),
		newUserRenameCommand(a),
		newUserDeleteCommand(a),
		newUserListCommand(a),
	)

	return cmd
}

func newUserCreateCommand(a *app) *cobra.Command {
	var email, firstName, lastName string
	var countryID int64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs := map[string]any{
				"email":     email,
				"firstName": firstName,
				"lastName":  lastName,
			}
			if cmd.Flags().Changed("country-id") {
				attrs["countryId"] = countryID
			}

			rec, err := a.users.New(attrs)
			if err != nil {
				return err
			}

			if err := rec.Save(cmd.Context()); err != nil {
				if store.IsDuplicate(err) {
					return fmt.Errorf("user %s already exists", email)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %d\n", rec.Attributes.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().Int64Var(&countryID, "country-id", 0, "country id")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserShowCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.users.FindBy(cmd.Context(), store.Where("email", email))
			if err != nil {
				return err
			}
			if rec == nil {
				return errUserNotFound
			}

			printUser(cmd.OutOrStdout(), rec.Attributes)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserExistsCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "exists",
		Short: "Report whether a user with the email exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.users.Exist(cmd.Context(), store.Where("email", email))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserRenameCommand(a *app) *cobra.Command {
	var email, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Change a user's name",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.users.FindBy(cmd.Context(), store.Where("email", email))
			if err != nil {
				return err
			}
			if rec == nil {
				return errUserNotFound
			}

			attrs := map[string]any{}
			if cmd.Flags().Changed("first-name") {
				attrs["firstName"] = firstName
			}
			if cmd.Flags().Changed("last-name") {
				attrs["lastName"] = lastName
			}

			if _, err := rec.Load(attrs); err != nil {
				return err
			}

			if err := rec.Save(cmd.Context()); err != nil {
				return err
			}

			printUser(cmd.OutOrStdout(), rec.Attributes)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "new last name")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserDeleteCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.users.FindBy(cmd.Context(), store.Where("email", email))
			if err != nil {
				return err
			}
			if rec == nil {
				return errUserNotFound
			}

			if err := rec.Delete(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d\n", rec.Attributes.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserListCommand(a *app) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			cond := store.Condition{}.WithLimit(store.Page(limit, offset))
			recs, err := a.users.FindAll(cmd.Context(), cond)
			if err != nil {
				return err
			}

			for _, rec := range recs {
				printUser(cmd.OutOrStdout(), rec.Attributes)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", store.DefaultLimit.Count, "maximum number of users")
	cmd.Flags().IntVar(&offset, "offset", 0, "users to skip")

	return cmd
}

func printUser(w io.Writer, u User) {
	fmt.Fprintf(w, "%d\t%s\t%s\t%s", u.ID, u.Email, u.FirstName, u.LastName)
	if u.CountryID.Valid {
		fmt.Fprintf(w, "\tcountry=%d", u.CountryID.Int64)
	}
	if u.Avatar.Valid {
		fmt.Fprintf(w, "\tavatar=%s", u.Avatar.String)
	}
	fmt.Fprintln(w)
}
