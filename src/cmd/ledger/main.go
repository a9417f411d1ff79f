package main

import (
	"context"
	"fmt"
	"os"

	"github.com/api-sage/account-ledger/src/internal/bootstrap"
	"github.com/api-sage/account-ledger/src/internal/cli"
	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/api-sage/account-ledger/src/internal/logger"
	urfave "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = urfave.StringFlag{
		Name:   "datadir",
		Usage:  "directory holding accounts.db and transactions/",
		EnvVar: "LEDGER_DATA_DIR",
	}
	logFileFlag = urfave.StringFlag{
		Name:   "logfile",
		Usage:  "also write logs to this rotating file",
		EnvVar: "LOG_FILE",
	}

	menuCommand = urfave.Command{
		Name:   "menu",
		Usage:  "run the interactive banking menu",
		Action: menuAction,
	}
	accountsCommand = urfave.Command{
		Name:   "accounts",
		Usage:  "list every account and balance (asks for the admin password)",
		Action: accountsAction,
	}
)

func main() {
	app := urfave.NewApp()
	app.Name = "ledger"
	app.Usage = "single-node account ledger"
	app.Flags = []urfave.Flag{dataDirFlag, logFileFlag}
	app.Commands = []urfave.Command{menuCommand, accountsCommand}
	app.Action = menuAction

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func menuAction(c *urfave.Context) error {
	return withMenu(c, func(ctx context.Context, menu *cli.Menu) error {
		return menu.Run(ctx)
	})
}

func accountsAction(c *urfave.Context) error {
	return withMenu(c, func(ctx context.Context, menu *cli.Menu) error {
		return menu.ListAccounts(ctx)
	})
}

func withMenu(c *urfave.Context, run func(ctx context.Context, menu *cli.Menu) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dir := c.GlobalString(dataDirFlag.Name); dir != "" {
		cfg.DataDir = dir
	}
	if file := c.GlobalString(logFileFlag.Name); file != "" {
		cfg.LogFile = file
	}

	// The menu owns the terminal, so logs only go to the file when one is set.
	closer := logger.Configure(cfg.LogFile, nil)
	defer closer.Close()

	ctx := context.Background()
	ledger, err := bootstrap.OpenLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer ledger.Close()

	menu := cli.NewMenu(ledger.Engine, os.Stdin, os.Stdout,
		cli.WithPasswordReader(cli.TerminalPasswordReader(os.Stdin, os.Stdout)))
	return run(ctx, menu)
}
