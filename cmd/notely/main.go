package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:   "notely",
		Usage:  "Personal notes service with categories and archiving",
		Action: serve,
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
			loginCommand(),
			notesCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "notely:", err)
		os.Exit(1)
	}
}
