package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/mobile-login-tests/pkg/config"
)

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Inspect suite configuration",
	Subcommands: []*cli.Command{
		{
			Name:  "show",
			Usage: "Print the merged configuration for a platform",
			Flags: []cli.Flag{platformFlag, configDirFlag},
			Action: func(c *cli.Context) error {
				configDir := c.String("config-dir")
				if configDir == "" {
					configDir = config.GetConfigDir()
				}
				settings, err := config.LoadMerged(configDir, c.String("platform"))
				if err != nil {
					return err
				}

				data, err := yaml.Marshal(settings.Raw())
				if err != nil {
					return fmt.Errorf("marshal config: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "# %s (%s)\n", configDir, settings.Platform)
				_, err = c.App.Writer.Write(data)
				return err
			},
		},
	},
}
