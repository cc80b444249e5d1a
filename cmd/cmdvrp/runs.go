package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli"

	"depot-router/internal/report"
)

func runsCommand() cli.Command {
	return cli.Command{
		Name:  "runs",
		Usage: "inspect stored runs",
		Subcommands: []cli.Command{
			{
				Name:  "list",
				Usage: "list runs, newest first",
				Flags: []cli.Flag{
					cli.IntFlag{Name: "limit", Value: 20},
					cli.IntFlag{Name: "offset"},
				},
				Action: listRuns,
			},
			{
				Name:      "show",
				Usage:     "print a stored run",
				ArgsUsage: "<id>",
				Action:    showRun,
			},
			{
				Name:      "delete",
				Usage:     "delete a stored run",
				ArgsUsage: "<id>",
				Action:    deleteRun,
			},
		},
	}
}

func listRuns(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, total, err := db.Runs().List(context.Background(), c.Int("limit"), c.Int("offset"))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tDEPOTS\tCUSTOMERS\tGENERATIONS\tBEST")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.4f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Depots, r.Customers, r.Generations, r.BestFitness)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d of %d runs\n", len(runs), total)
	return nil
}

func showRun(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("run id is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.Runs().GetByID(context.Background(), id)
	if err != nil {
		return fmt.Errorf("run %s: %w", id, err)
	}
	return report.Text(os.Stdout, run)
}

func deleteRun(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("run id is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Runs().Delete(context.Background(), id); err != nil {
		return fmt.Errorf("run %s: %w", id, err)
	}
	fmt.Printf("Deleted run %s\n", id)
	return nil
}
