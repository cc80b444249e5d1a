package main

import (
	"log"
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "cmdvrp"
	app.Usage = "capacitated multi-depot vehicle routing by genetic search"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "path to a YAML config file"},
		cli.StringFlag{Name: "db", Usage: "run store path (*.json for the JSON store); overrides CMDVRP_DB"},
	}
	app.Commands = []cli.Command{
		solveCommand(),
		generateCommand(),
		runsCommand(),
	}
	return app
}
