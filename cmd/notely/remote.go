package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"notely/pkg/client"
)

func apiFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "api",
		Usage:   "Base URL of the notely API",
		Value:   "http://localhost:3000",
		Sources: cli.EnvVars("NOTELY_API"),
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and print an access token",
		Flags: []cli.Flag{
			apiFlag(),
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("NOTELY_PASSWORD")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c := client.New(cmd.String("api"))
			tok, err := c.Login(ctx, cmd.String("email"), cmd.String("password"))
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
}

func notesCommand() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "List notes for the token's owner",
		Flags: []cli.Flag{
			apiFlag(),
			&cli.StringFlag{Name: "token", Required: true, Sources: cli.EnvVars("NOTELY_TOKEN")},
			&cli.BoolFlag{Name: "archived", Usage: "List archived notes instead of active ones"},
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "limit", Value: 10},
		},
		Action: listNotes,
	}
}

func listNotes(ctx context.Context, cmd *cli.Command) error {
	c := client.New(cmd.String("api"), client.WithToken(cmd.String("token")))

	list := c.ActiveNotes
	if cmd.Bool("archived") {
		list = c.ArchivedNotes
	}
	p, err := list(ctx, int(cmd.Int("page")), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORIES\tUPDATED")
	for _, n := range p.Data {
		names := make([]string, 0, len(n.Categories))
		for _, cat := range n.Categories {
			names = append(names, cat.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Title, strings.Join(names, ","), n.UpdatedAt.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("page %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
	return nil
}
