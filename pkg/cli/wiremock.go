package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/mobile-login-tests/pkg/config"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wiremock"
)

var wireMockCommand = &cli.Command{
	Name:  "wiremock",
	Usage: "Manage stubs on the WireMock server",
	Flags: []cli.Flag{wireMockURLFlag, configDirFlag},
	Subcommands: []*cli.Command{
		{
			Name:      "load",
			Usage:     "Validate and register mapping files",
			ArgsUsage: "<mapping.json>...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return fmt.Errorf("at least one mapping file is required")
				}
				client, err := wireMockClient(c)
				if err != nil {
					return err
				}
				for _, path := range c.Args().Slice() {
					id, err := client.LoadMappingFromFile(path)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s  %s\n", id, path)
				}
				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List registered mappings",
			Action: func(c *cli.Context) error {
				client, err := wireMockClient(c)
				if err != nil {
					return err
				}
				mappings, err := client.Mappings()
				if err != nil {
					return err
				}
				for _, m := range mappings {
					fmt.Fprintf(c.App.Writer, "%s  %s\n", m.ID(), m.Name())
				}
				return nil
			},
		},
		{
			Name:  "reset",
			Usage: "Remove all stubs and clear the request journal",
			Action: func(c *cli.Context) error {
				client, err := wireMockClient(c)
				if err != nil {
					return err
				}
				if err := client.Reset(); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "reset %s\n", client.BaseURL())
				return nil
			},
		},
	},
}

// wireMockClient uses --wiremock-url, falling back to the shared settings.
func wireMockClient(c *cli.Context) (*wiremock.Client, error) {
	url := lineageString(c, "wiremock-url")
	if url == "" {
		dir := lineageString(c, "config-dir")
		if dir == "" {
			dir = config.GetConfigDir()
		}
		settings, err := config.LoadSettings(dir)
		if err != nil {
			return nil, err
		}
		url = settings.WireMockURL()
	}
	return wiremock.NewClient(url), nil
}

// lineageString reads a flag from the command or its parents.
func lineageString(c *cli.Context, name string) string {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx.String(name)
		}
	}
	return c.String(name)
}
