package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"notely/internal/category"
	"notely/internal/db"
	"notely/internal/logger"
	"notely/internal/note"
	"notely/internal/seed"
	"notely/internal/user"
)

func databaseURLFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "database-url",
		Usage:    "PostgreSQL connection string",
		Required: true,
		Sources:  cli.EnvVars("DATABASE_URL"),
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "Run database migrations",
		ArgsUsage: "[up|down|status]",
		Flags:     []cli.Flag{databaseURLFlag()},
		Action:    migrate,
	}
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	m, err := db.NewMigrator(cmd.String("database-url"))
	if err != nil {
		return err
	}
	defer m.Close()

	switch dir := cmd.Args().First(); dir {
	case "", "up":
		res, err := m.Up(ctx)
		for _, r := range res {
			fmt.Printf("applied %s (%s)\n", r.Source.Path, r.Duration)
		}
		if err != nil {
			return err
		}
		if len(res) == 0 {
			fmt.Println("no pending migrations")
		}
	case "down":
		res, err := m.Down(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("rolled back %s\n", res.Source.Path)
	case "status":
		st, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range st {
			fmt.Printf("%-8s %s\n", s.State, s.Source.Path)
		}
	default:
		return fmt.Errorf("unknown migrate direction %q", dir)
	}
	return nil
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the demo user, categories and note if missing",
		Flags: []cli.Flag{
			databaseURLFlag(),
			&cli.IntFlag{
				Name:    "bcrypt-cost",
				Value:   10,
				Sources: cli.EnvVars("BCRYPT_COST"),
			},
		},
		Action: runSeed,
	}
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	log := logger.Init(logger.Options{Level: "info", Pretty: true})
	dsn := cmd.String("database-url")

	if err := db.Migrate(ctx, dsn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	gdb, err := db.Connect(dsn, log)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	s := &seed.Seeder{
		Users:      user.NewService(&user.Store{DB: gdb}, int(cmd.Int("bcrypt-cost")), log),
		Categories: category.NewService(&category.Store{DB: gdb}, log),
		Notes:      note.NewService(&note.Store{DB: gdb}, log),
		Log:        log,
	}
	res, err := s.Run(ctx)
	if err != nil {
		return err
	}
	if res.Created {
		fmt.Printf("seeded %s / %s\n", seed.DemoEmail, seed.DemoPassword)
	} else {
		fmt.Println("demo data already present")
	}
	return nil
}
