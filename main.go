package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"nslook/hostname"
	"nslook/log"
	"nslook/resolver"
	"nslook/wire"
)

func main() {
	app := cli.NewApp()
	app.Name = "nslook"
	app.Usage = "resolve a hostname to its A records"
	app.ArgsUsage = "<hostname>"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "log-file",
			Usage: "write log output to `FILE`",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
		cli.BoolFlag{
			Name:  "json-log",
			Usage: "log in json format",
		},
	}
	app.Action = lookup

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func lookup(c *cli.Context) error {
	if err := initLog(c); err != nil {
		return err
	}
	defer func() { _ = log.Logger.Sync() }()

	if c.NArg() != 1 {
		return fmt.Errorf("usage: %s <hostname>", c.App.Name)
	}

	host := c.Args().First()
	if err := hostname.Validate(host); err != nil {
		return fmt.Errorf("%q: %w", host, err)
	}

	r, err := resolver.FromSystem()
	if err != nil {
		return err
	}

	return resolve(r, host, os.Stdout)
}

// resolve runs one query through the transport, parses the raw response and
// writes the rendered records to out.  Zero answers abort before anything
// is rendered.
func resolve(r *resolver.Resolver, host string, out io.Writer) error {
	fmt.Fprintf(out, "Resolving hostname %s\n", host)

	buf, err := r.Query(context.Background(), host)
	if err != nil {
		return err
	}

	var count int
	if count, err = wire.AnswerCount(buf); err != nil {
		return err
	}

	if count == 0 {
		return fmt.Errorf("no answers found for %s", host)
	}

	var rs *wire.RecordSet
	if rs, err = wire.Parse(buf, count); err != nil {
		return err
	}

	fmt.Fprintln(out, "Response:")
	for _, line := range rs.Render() {
		fmt.Fprintln(out, line)
	}

	return nil
}

func initLog(c *cli.Context) error {
	lc := log.Config{
		File:       c.String("log-file"),
		STDERR:     true,
		MaxAge:     2,
		MaxSize:    10,
		MaxBackups: 100,
		JsonFormat: c.Bool("json-log"),
	}

	if c.Bool("verbose") {
		lc.Level = -1
	}

	return log.Init(lc)
}
