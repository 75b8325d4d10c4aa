package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Masterminds/semver/v3"
	gh "github.com/google/go-github/v18/github"
	"go.opentelemetry.io/otel/api/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/xakep666/licensecatalog/pkg/catalog"
	"github.com/xakep666/licensecatalog/pkg/github"
	"github.com/xakep666/licensecatalog/pkg/observ"
	"github.com/xakep666/licensecatalog/pkg/spdx"
)

// BuildCatalog loads the configured dataset and builds the lookup index.
func BuildCatalog(ctx context.Context, logger *zap.Logger, cfg *Config, tracer trace.Tracer) (*catalog.Index, error) {
	list, syn, err := loadDataset(ctx, logger, cfg, tracer)
	if err != nil {
		return nil, err
	}

	if err := checkListVersion(cfg, list.Version); err != nil {
		return nil, err
	}

	mergeSynonymOverrides(&syn, cfg.Catalog.ExtraSynonyms)

	return catalog.NewIndex(list, syn)
}

func loadDataset(ctx context.Context, logger *zap.Logger, cfg *Config, tracer trace.Tracer) (spdx.LicenseList, spdx.SynonymList, error) {
	switch cfg.Catalog.Source {
	case CatalogSourceFile:
		return loadDatasetFiles(&cfg.Catalog)
	case CatalogSourceGithub:
		return githubClient(logger, cfg, tracer).Fetch(ctx)
	default:
		return spdx.LicenseList{}, spdx.SynonymList{}, fmt.Errorf("unknown catalog source %s", cfg.Catalog.Source)
	}
}

func loadDatasetFiles(cfg *Catalog) (spdx.LicenseList, spdx.SynonymList, error) {
	if cfg.LicensesFile == "" {
		return spdx.LicenseList{}, spdx.SynonymList{}, fmt.Errorf("licenses file path required for file source")
	}

	list, err := spdx.LicenseListFromFile(cfg.LicensesFile)
	if err != nil {
		return spdx.LicenseList{}, spdx.SynonymList{}, err
	}

	// synonym document is optional for file-sourced catalogs
	var syn spdx.SynonymList
	if cfg.SynonymsFile != "" {
		syn, err = spdx.SynonymListFromFile(cfg.SynonymsFile)
		if err != nil {
			return spdx.LicenseList{}, spdx.SynonymList{}, err
		}
	}

	return list, syn, nil
}

func githubClient(logger *zap.Logger, cfg *Config, tracer trace.Tracer) *github.Client {
	httpClient := &http.Client{}

	if cfg.Catalog.Github.AccessToken != "" {
		httpClient = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: string(cfg.Catalog.Github.AccessToken),
		}))
	}

	httpClient.Transport = &observ.TraceTransport{
		RoundTripper: httpClient.Transport,
		ServiceName:  "github",
		Tracer:       tracer,
	}

	ghClient := gh.NewClient(httpClient)
	if cfg.Catalog.Github.BaseURL != "" {
		if base, err := url.Parse(string(cfg.Catalog.Github.BaseURL)); err == nil {
			ghClient.BaseURL = base
		}
	}

	return github.NewClient(logger, github.ClientParams{
		Client:       ghClient,
		Owner:        cfg.Catalog.Github.Owner,
		Repo:         cfg.Catalog.Github.Repo,
		Ref:          cfg.Catalog.Github.Ref,
		LicensesPath: cfg.Catalog.Github.LicensesPath,
		SynonymsPath: cfg.Catalog.Github.SynonymsPath,
	})
}

func checkListVersion(cfg *Config, version string) error {
	if cfg.Catalog.VersionConstraint == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(cfg.Catalog.VersionConstraint)
	if err != nil {
		return fmt.Errorf("invalid catalog version constraint %s: %w", cfg.Catalog.VersionConstraint, err)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("license list version %q parse failed: %w", version, err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("license list version %s violates constraint %s", version, cfg.Catalog.VersionConstraint)
	}

	return nil
}

func mergeSynonymOverrides(syn *spdx.SynonymList, overrides []SynonymOverride) {
	if len(overrides) == 0 {
		return
	}

	if syn.Names == nil {
		syn.Names = make(map[string][]string)
	}
	if syn.URLs == nil {
		syn.URLs = make(map[string][]string)
	}

	for _, o := range overrides {
		syn.Names[o.LicenseID] = append(syn.Names[o.LicenseID], o.Names...)
		syn.URLs[o.LicenseID] = append(syn.URLs[o.LicenseID], o.URLs...)
	}
}
