// Package resolver turns a ReportPortal failed-test URL into the URL of the
// test's must-gather directory on Magna.
package resolver

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/magna"
	"github.com/redhat-openshift-ecosystem/rp-jump/internal/reportportal"
	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

// Fetcher is the HTTP surface the resolver needs.
type Fetcher interface {
	JSON(ctx context.Context, url, apiKey string, dst interface{}) error
	Lines(ctx context.Context, url, apiKey string) ([]string, error)
}

// Config is the read-only configuration of a Resolver.
type Config struct {
	APIKey  string
	BaseURL string
	// Project defaults to reportportal.DefaultProject.
	Project string
}

// Resolver is stateless beyond its configuration and safe for concurrent use.
type Resolver struct {
	config  Config
	fetcher Fetcher
}

func New(config Config, fetcher Fetcher) *Resolver {
	return &Resolver{config: config, fetcher: fetcher}
}

// Result carries the resolved URL with the intermediate locations.
type Result struct {
	reportportal.LogsLocation
	FailedTestcaseDir string
	TargetDir         string
	RegistryPrefix    string
	URL               string
}

// Resolve returns the must-gather URL of the failed test at uiURL.
func (r *Resolver) Resolve(ctx context.Context, uiURL string) (string, error) {
	res, err := r.ResolveDetailed(ctx, uiURL)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// ResolveDetailed runs the lookup and returns every intermediate location.
// The first failure aborts the lookup.
func (r *Resolver) ResolveDetailed(ctx context.Context, uiURL string) (*Result, error) {
	if r.config.APIKey == "" || r.config.BaseURL == "" {
		return nil, rperror.Generic("Missing configuration. Please set RP_API_KEY and RP_BASE_URL")
	}
	baseURL := CleanBaseURL(r.config.BaseURL)

	launchID, testItemID, err := reportportal.ExtractIDs(uiURL)
	if err != nil {
		return nil, err
	}

	rp, err := reportportal.New(baseURL, r.config.APIKey, r.config.Project, r.fetcher)
	if err != nil {
		return nil, rperror.Wrap(err, "Missing configuration")
	}

	loc, err := r.locateLogs(ctx, rp, launchID, testItemID)
	if err != nil {
		return nil, err
	}
	log.WithField("test", loc.TestName).Infof("Logs URL root: %s (cluster %s)", loc.LogsURLRoot, loc.ClusterName)

	failedDir, err := r.findFailedTestcaseDir(ctx, loc)
	if err != nil {
		return nil, err
	}

	targetDir := magna.JoinURL(
		loc.LogsURLRoot,
		failedDir,
		magna.TestLogsDirName(loc.TestName),
		loc.ClusterName,
		magna.MustGatherDir,
	)

	prefix, err := r.findRegistryPrefix(ctx, targetDir)
	if err != nil {
		return nil, err
	}

	return &Result{
		LogsLocation:      *loc,
		FailedTestcaseDir: failedDir,
		TargetDir:         targetDir,
		RegistryPrefix:    prefix,
		URL:               strings.TrimRight(targetDir, "/") + "/" + strings.TrimLeft(prefix, "/"),
	}, nil
}

// locateLogs fetches the launch and the item concurrently and waits for both.
func (r *Resolver) locateLogs(ctx context.Context, rp *reportportal.Client, launchID, testItemID string) (*reportportal.LogsLocation, error) {
	var (
		launches *reportportal.PagedLaunches
		item     *reportportal.TestItemResource
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		launches, err = rp.GetLaunch(egCtx, launchID)
		return err
	})
	eg.Go(func() error {
		var err error
		item, err = rp.GetItem(egCtx, testItemID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reportportal.LocateLogs(launches, item)
}

// findFailedTestcaseDir returns the first failed_testcase directory, in
// listing order, whose own listing mentions the test name.
func (r *Resolver) findFailedTestcaseDir(ctx context.Context, loc *reportportal.LogsLocation) (string, error) {
	lines, err := r.fetcher.Lines(ctx, loc.LogsURLRoot, r.config.APIKey)
	if err != nil {
		return "", errors.Wrap(err, "list logs root")
	}
	candidates := magna.ScanHrefs(lines, magna.Contains(magna.FailedTestcaseMarker))
	if len(candidates) == 0 {
		return "", rperror.Structure("No failed_testcase directories found on Magna.")
	}
	log.Debugf("failed_testcase candidates: %v", candidates)

	for _, dir := range candidates {
		dirURL := strings.TrimRight(loc.LogsURLRoot, "/") + "/" + dir
		dirLines, err := r.fetcher.Lines(ctx, dirURL, r.config.APIKey)
		if err != nil {
			return "", errors.Wrapf(err, "list %s", dir)
		}
		if magna.AnyLineContains(dirLines, loc.TestName) {
			return dir, nil
		}
	}
	return "", rperror.Structure("Test exists in RP but not in any failed_testcase directory on Magna.")
}

func (r *Resolver) findRegistryPrefix(ctx context.Context, targetDir string) (string, error) {
	lines, err := r.fetcher.Lines(ctx, targetDir, r.config.APIKey)
	if err != nil {
		return "", errors.Wrap(err, "list must-gather directory")
	}
	prefixes := magna.ScanHrefs(lines, magna.Contains(magna.RegistryMarkers...))
	if len(prefixes) == 0 {
		return "", rperror.Structure("Magna logs found, but no quay*/registry* directory exists.")
	}
	return prefixes[0], nil
}

// CleanBaseURL trims whitespace and one layer of surrounding quotes.
func CleanBaseURL(baseURL string) string {
	s := strings.TrimSpace(baseURL)
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
