package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/elimuhub/elimu/core/identity"
	"github.com/elimuhub/elimu/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	provider   identity.Provider
	profileSvc *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addadmin -email EMAIL -name NAME - create an admin account; the password is prompted next")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAdminCmd := flag.NewFlagSet("addadmin", flag.ExitOnError)
	addAdminEmail := addAdminCmd.String("email", "", "The admin's email address.")
	addAdminName := addAdminCmd.String("name", "", "The admin's display name.")

	switch args[1] {
	case "addadmin":
		if err := addAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAdminEmail == "" || *addAdminName == "" {
			addAdminCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addAdminCmd.Usage()
			return errHelp
		}
		return cli.addAdmin(*addAdminEmail, *addAdminName, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
