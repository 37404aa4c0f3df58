package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

type userAddCmd struct {
	username string
	password string
}

func (*userAddCmd) Name() string     { return "useradd" }
func (*userAddCmd) Synopsis() string { return "create an operator account" }
func (*userAddCmd) Usage() string {
	return `fundctl useradd -u <username> -p <password>

  Creates an account that can sign in to the API. Usernames are case
  insensitive and must be unique.
`
}

func (c *userAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username.")
	f.StringVar(&c.password, "p", "", "Password.")
}

func (c *userAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ins, err := validation.ValidateRegister(request.CredentialsRequest{Username: c.username, Password: c.password})
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
			}
			return subcommands.ExitUsageError
		}
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	e, err := openEnv(ctx, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	users, err := e.userService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	user, err := users.Register(ctx, ins)
	if errors.Is(err, apperrors.ErrDuplicateEntry) {
		fmt.Fprintf(os.Stderr, "user %q already exists\n", ins.Username)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("created user %s (id %d)\n", user.Username, user.ID)
	return subcommands.ExitSuccess
}
