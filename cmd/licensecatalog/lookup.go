package main

import (
	"encoding/json"
	"io"
	"os"

	"go.uber.org/zap"
	"go.opentelemetry.io/otel/api/trace"

	"github.com/xakep666/licensecatalog/cmd/licensecatalog/app"
	"github.com/xakep666/licensecatalog/pkg/catalog"

	"github.com/urfave/cli/v2"
)

var lookupOut io.Writer = os.Stdout // for mocking

// LookupCommand does a one-shot query against the configured dataset.
// Intended for manifest-scanning tooling that doesn't need the server.
func LookupCommand() *cli.Command {
	idFlag := &cli.StringFlag{Name: "id", Usage: "Canonical SPDX identifier"}
	urlFlag := &cli.StringFlag{Name: "url", Usage: "License reference url"}
	nameFlag := &cli.StringFlag{Name: "name", Usage: "License display name"}

	return &cli.Command{
		Name:        "lookup",
		Description: "Resolves a license query and prints the matched record as json",
		Flags:       []cli.Flag{idFlag, urlFlag, nameFlag},
		Action: func(ctx *cli.Context) error {
			q := catalog.Query{
				ID:   ctx.String(idFlag.Name),
				URL:  ctx.String(urlFlag.Name),
				Name: ctx.String(nameFlag.Name),
			}
			if q == (catalog.Query{}) {
				return cli.Exit("at least one of --id, --url, --name required", 1)
			}

			cfg, err := app.ConfigFromFile(ctx.Path(configFileFlag.Name))
			if err != nil {
				return cli.Exit(err, 1)
			}

			logger := zap.NewNop()
			if cfg.Debug {
				logger, _ = zap.NewDevelopment()
			}

			idx, err := app.BuildCatalog(ctx.Context, logger, &cfg, trace.NoopTracer{})
			if err != nil {
				return cli.Exit(err, 1)
			}

			lic, found := idx.FindLicense(q)
			if !found {
				return cli.Exit("license not found", 2)
			}

			enc := json.NewEncoder(lookupOut)
			enc.SetIndent("", "  ")
			return enc.Encode(lic)
		},
	}
}
