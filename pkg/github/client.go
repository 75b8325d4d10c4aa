// Package github fetches the license list and the synonym list documents
// from a github repository laid out like spdx/license-list-data.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/go-github/v18/github"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xakep666/licensecatalog/pkg/spdx"
)

const (
	DefaultOwner        = "spdx"
	DefaultRepo         = "license-list-data"
	DefaultLicensesPath = "json/licenses.json"
	DefaultSynonymsPath = "json/synonyms.json"
)

type ClientParams struct {
	Client *github.Client

	// Owner and Repo locate the dataset repository.
	// Default is spdx/license-list-data.
	Owner string
	Repo  string

	// Ref is an optional git reference (tag or branch) to pin the dataset.
	Ref string

	// LicensesPath and SynonymsPath locate the documents inside the repo.
	LicensesPath string
	SynonymsPath string
}

type Client struct {
	ClientParams

	log *zap.Logger
}

func NewClient(logger *zap.Logger, clientParams ClientParams) *Client {
	if clientParams.Owner == "" {
		clientParams.Owner = DefaultOwner
	}
	if clientParams.Repo == "" {
		clientParams.Repo = DefaultRepo
	}
	if clientParams.LicensesPath == "" {
		clientParams.LicensesPath = DefaultLicensesPath
	}
	if clientParams.SynonymsPath == "" {
		clientParams.SynonymsPath = DefaultSynonymsPath
	}

	return &Client{
		ClientParams: clientParams,
		log:          logger.With(zap.String("component", "github-client")),
	}
}

// FetchLicenseList downloads and parses the license list document.
func (c *Client) FetchLicenseList(ctx context.Context) (spdx.LicenseList, error) {
	rd, err := c.download(ctx, c.LicensesPath)
	if err != nil {
		return spdx.LicenseList{}, err
	}

	defer rd.Close()

	return spdx.ParseLicenseList(rd)
}

// FetchSynonymList downloads and parses the synonym list document.
func (c *Client) FetchSynonymList(ctx context.Context) (spdx.SynonymList, error) {
	rd, err := c.download(ctx, c.SynonymsPath)
	if err != nil {
		return spdx.SynonymList{}, err
	}

	defer rd.Close()

	return spdx.ParseSynonymList(rd)
}

// Fetch retrieves both documents concurrently.
func (c *Client) Fetch(ctx context.Context) (spdx.LicenseList, spdx.SynonymList, error) {
	var (
		list spdx.LicenseList
		syn  spdx.SynonymList
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		list, err = c.FetchLicenseList(ctx)
		return err
	})
	eg.Go(func() (err error) {
		syn, err = c.FetchSynonymList(ctx)
		return err
	})

	if err := eg.Wait(); err != nil {
		return spdx.LicenseList{}, spdx.SynonymList{}, err
	}

	return list, syn, nil
}

func (c *Client) download(ctx context.Context, path string) (io.ReadCloser, error) {
	l := c.log.With(zap.String("path", path))

Retry:
	rd, err := c.Client.Repositories.DownloadContents(ctx, c.Owner, c.Repo, path, &github.RepositoryContentGetOptions{
		Ref: c.Ref,
	})
	var rateLimitErr *github.RateLimitError
	switch {
	case errors.Is(err, nil):
		return rd, nil
	case errors.As(err, &rateLimitErr):
		dur := time.Until(rateLimitErr.Rate.Reset.Time)
		l.Info("rate limit reached, wait", zap.Duration("wait", dur))
		timer := time.NewTimer(dur)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			// Context cancelled or ended so return early
			return nil, ctx.Err()

		case <-timer.C:
			// Rate limit should be up, retry
			goto Retry
		}

	default:
		return nil, fmt.Errorf("github failed: %w", err)
	}
}
