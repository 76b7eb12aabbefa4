// Package reportportal reads the launch and test item records needed to find
// the Magna logs of a failed ReportPortal test.
package reportportal

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DefaultProject is the ReportPortal project queried when none is configured.
const DefaultProject = "ocs"

// JSONFetcher performs an authenticated GET and decodes the JSON body.
type JSONFetcher interface {
	JSON(ctx context.Context, url, apiKey string, dst interface{}) error
}

// Client reads launches and items of a single ReportPortal project.
type Client struct {
	baseURL string
	apiKey  string
	project string
	fetcher JSONFetcher
}

// New creates a Client. An empty project falls back to DefaultProject.
func New(baseURL, apiKey, project string, fetcher JSONFetcher) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("reportportal: baseURL is required")
	}
	if fetcher == nil {
		return nil, errors.New("reportportal: fetcher is required")
	}
	if project == "" {
		project = DefaultProject
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		project: project,
		fetcher: fetcher,
	}, nil
}

func (c *Client) projectURL() string {
	return fmt.Sprintf("%s/api/v1/%s", c.baseURL, c.project)
}

// LaunchURL returns the launch listing URL filtered by launch ID. IDs are
// used as parsed from the UI URL.
func (c *Client) LaunchURL(launchID string) string {
	return c.projectURL() + "/launch?filter.eq.id=" + launchID
}

// ItemURL returns the URL of a single test item.
func (c *Client) ItemURL(testItemID string) string {
	return c.projectURL() + "/item/" + testItemID
}

// GetLaunch looks up a launch through the filtered listing endpoint.
func (c *Client) GetLaunch(ctx context.Context, launchID string) (*PagedLaunches, error) {
	var paged PagedLaunches
	if err := c.fetcher.JSON(ctx, c.LaunchURL(launchID), c.apiKey, &paged); err != nil {
		return nil, errors.Wrapf(err, "get launch %s", launchID)
	}
	return &paged, nil
}

// GetItem returns a single test item.
func (c *Client) GetItem(ctx context.Context, testItemID string) (*TestItemResource, error) {
	var item TestItemResource
	if err := c.fetcher.JSON(ctx, c.ItemURL(testItemID), c.apiKey, &item); err != nil {
		return nil, errors.Wrapf(err, "get item %s", testItemID)
	}
	return &item, nil
}
