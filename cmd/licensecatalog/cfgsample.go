package main

import (
	"io"
	"os"
	"time"

	"github.com/xakep666/licensecatalog/cmd/licensecatalog/app"

	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

var ConfigSample = app.Config{
	Debug: true,
	Catalog: app.Catalog{
		Source:            app.CatalogSourceFile,
		LicensesFile:      "/etc/licensecatalog/licenses.json",
		SynonymsFile:      "/etc/licensecatalog/synonyms.json",
		WatchFiles:        true,
		VersionConstraint: ">=3.20",
		ExtraSynonyms: []app.SynonymOverride{
			{
				LicenseID: "Apache-2.0",
				Names:     []string{"Apache Software License 2.0"},
				URLs:      []string{"https://www.example.org/legal/apache2"},
			},
		},
	},
	Cache: &app.Cache{
		Type:      app.CacheTypeMemLRU,
		SizeItems: 1024,
		Redis: app.Redis{
			TTL: 24 * time.Hour,
		},
	},
	Server: app.Server{
		ListenAddr:  ":8080",
		EnablePprof: true,
	},
	HealthServer: &app.Server{
		ListenAddr: ":8081",
	},
}

var configSampleOut io.Writer = os.Stdout // for mocking

func ConfigSampleCommand() *cli.Command {
	return &cli.Command{
		Name:        "sample-config",
		Description: "Prints sample config file to stdout",
		Action: func(ctx *cli.Context) error {
			return toml.NewEncoder(configSampleOut).Encode(ConfigSample)
		},
	}
}
