package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/fetch"
	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

const (
	testLaunchID = "33195"
	testItemID   = "987654"
	testUIURL    = "https://rp.example.com/ui/#ocs/launches/all/" + testLaunchID + "/111/" + testItemID + "/log"
	testRunPath  = "/openshift-clusters/ocs-ci-c1/ocs-ci-c1_20240101T000000/logs"
)

// fakeUpstream serves both the ReportPortal API and the Magna listings and
// records every requested path.
type fakeUpstream struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	requests []string
	routes   map[string]func(w http.ResponseWriter)
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	f := &fakeUpstream{t: t, routes: map[string]func(w http.ResponseWriter){}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.EscapedPath()
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}
		f.mu.Lock()
		f.requests = append(f.requests, path)
		route, ok := f.routes[path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		route(w)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) body(path, body string) {
	f.routes[path] = func(w http.ResponseWriter) { fmt.Fprint(w, body) }
}

func (f *fakeUpstream) status(path string, code int) {
	f.routes[path] = func(w http.ResponseWriter) { w.WriteHeader(code) }
}

func (f *fakeUpstream) listing(path string, hrefs ...string) {
	var b strings.Builder
	b.WriteString("<html><body><pre>\n")
	b.WriteString(`<a href="../">../</a>` + "\n")
	for _, h := range hrefs {
		fmt.Fprintf(&b, "<a href=\"%s\">%s</a>   01-Jan-2024 00:00   -\n", h, h)
	}
	b.WriteString("</pre></body></html>\n")
	f.body(path, b.String())
}

func (f *fakeUpstream) logsRoot() string { return f.server.URL + testRunPath }

func (f *fakeUpstream) rp(testName string) {
	f.body("/api/v1/ocs/launch?filter.eq.id="+testLaunchID,
		fmt.Sprintf(`{"content":[{"id":33195,"description":"ODF 4.16 tier1 ... Logs URL: %s ..."}],"page":{"number":1}}`, f.logsRoot()))
	f.body("/api/v1/ocs/item/"+testItemID, fmt.Sprintf(`{"id":987654,"name":%q}`, testName))
}

func (f *fakeUpstream) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.requests...)
}

func (f *fakeUpstream) resolver() *Resolver {
	return New(Config{APIKey: "token", BaseURL: f.server.URL}, fetch.New())
}

func TestResolve(t *testing.T) {
	up := newFakeUpstream(t)
	up.rp("test_foo")
	up.listing(testRunPath, "failed_testcase_1/")
	up.listing(testRunPath+"/failed_testcase_1/", "test_foo_ocs_logs/")
	up.listing(testRunPath+"/failed_testcase_1/test_foo_ocs_logs/ocs-ci-c1/ocs_must_gather", "quay.io-repo/")

	got, err := up.resolver().Resolve(context.Background(), testUIURL)
	require.NoError(t, err)
	assert.Equal(t, up.logsRoot()+"/failed_testcase_1/test_foo_ocs_logs/ocs-ci-c1/ocs_must_gather/quay.io-repo/", got)
}

func TestResolveDetailed(t *testing.T) {
	up := newFakeUpstream(t)
	up.rp("test_rgw[data-1]")
	up.listing(testRunPath,
		"failed_testcase_ocs_logs_1/",
		"failed_testcase_ocs_logs_2/",
		"failed_testcase_ocs_logs_3/",
	)
	up.listing(testRunPath+"/failed_testcase_ocs_logs_1/", "test_other_ocs_logs/")
	up.listing(testRunPath+"/failed_testcase_ocs_logs_2/", "test_rgw[data-1]_ocs_logs/")
	up.listing(testRunPath+"/failed_testcase_ocs_logs_3/", "test_rgw[data-1]_ocs_logs/")
	up.listing(testRunPath+"/failed_testcase_ocs_logs_2/test_rgw[data-1]_ocs_logs/ocs-ci-c1/ocs_must_gather",
		"namespaces/", "registry-redhat-io-odf4-must-gather/", "quay-io-rhceph-dev/")

	res, err := up.resolver().ResolveDetailed(context.Background(), testUIURL)
	require.NoError(t, err)

	assert.Equal(t, "test_rgw[data-1]", res.TestName)
	assert.Equal(t, "ocs-ci-c1", res.ClusterName)
	assert.Equal(t, "failed_testcase_ocs_logs_2/", res.FailedTestcaseDir, "first matching directory in listing order wins")
	assert.Equal(t, "registry-redhat-io-odf4-must-gather/", res.RegistryPrefix)
	assert.Equal(t, up.logsRoot()+"/failed_testcase_ocs_logs_2/test_rgw[data-1]_ocs_logs/ocs-ci-c1/ocs_must_gather/registry-redhat-io-odf4-must-gather/", res.URL)

	for _, p := range up.requested() {
		assert.NotContains(t, p, "failed_testcase_ocs_logs_3", "search must stop at the first match")
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(up *fakeUpstream)
		url          string
		wantKind     rperror.Kind
		wantMessage  string
		wantRequests int
	}{
		{
			name:         "not a failed test page",
			setup:        func(up *fakeUpstream) { up.rp("test_foo") },
			url:          "https://rp.example.com/ui/#ocs/dashboard",
			wantKind:     rperror.KindUsage,
			wantMessage:  "Invalid ReportPortal URL format",
			wantRequests: 0,
		},
		{
			name: "launch lookup fails",
			setup: func(up *fakeUpstream) {
				up.rp("test_foo")
				up.status("/api/v1/ocs/launch?filter.eq.id="+testLaunchID, http.StatusUnauthorized)
			},
			wantKind:    rperror.KindGeneric,
			wantMessage: "status: 401",
			// the item lookup may be cancelled before it is sent
			wantRequests: -1,
		},
		{
			name: "missing description",
			setup: func(up *fakeUpstream) {
				up.rp("test_foo")
				up.body("/api/v1/ocs/launch?filter.eq.id="+testLaunchID, `{"content":[{"id":1}]}`)
			},
			wantKind:     rperror.KindStructure,
			wantMessage:  "Could not extract Magna logs location from RP",
			wantRequests: 2,
		},
		{
			name: "no failed_testcase directory",
			setup: func(up *fakeUpstream) {
				up.rp("test_foo")
				up.listing(testRunPath, "ocs_logs_1/", "quay-io/")
			},
			wantKind:     rperror.KindStructure,
			wantMessage:  "No failed_testcase directories found on Magna.",
			wantRequests: 3,
		},
		{
			name: "test missing from every failed_testcase directory",
			setup: func(up *fakeUpstream) {
				up.rp("test_foo")
				up.listing(testRunPath, "failed_testcase_1/", "failed_testcase_2/")
				up.listing(testRunPath+"/failed_testcase_1/", "test_bar_ocs_logs/")
				up.listing(testRunPath+"/failed_testcase_2/", "test_baz_ocs_logs/")
			},
			wantKind:     rperror.KindStructure,
			wantMessage:  "Test exists in RP but not in any failed_testcase directory on Magna.",
			wantRequests: 5,
		},
		{
			name: "no registry directory",
			setup: func(up *fakeUpstream) {
				up.rp("test_foo")
				up.listing(testRunPath, "failed_testcase_1/")
				up.listing(testRunPath+"/failed_testcase_1/", "test_foo_ocs_logs/")
				up.listing(testRunPath+"/failed_testcase_1/test_foo_ocs_logs/ocs-ci-c1/ocs_must_gather", "namespaces/")
			},
			wantKind:     rperror.KindStructure,
			wantMessage:  "Magna logs found, but no quay*/registry* directory exists.",
			wantRequests: 5,
		},
		{
			name: "must-gather directory missing",
			setup: func(up *fakeUpstream) {
				up.rp("test_foo")
				up.listing(testRunPath, "failed_testcase_1/")
				up.listing(testRunPath+"/failed_testcase_1/", "test_foo_ocs_logs/")
			},
			wantKind:     rperror.KindGeneric,
			wantMessage:  "status: 404",
			wantRequests: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newFakeUpstream(t)
			tt.setup(up)
			url := tt.url
			if url == "" {
				url = testUIURL
			}

			_, err := up.resolver().Resolve(context.Background(), url)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, rperror.KindOf(err), err.Error())
			assert.Contains(t, err.Error(), tt.wantMessage)
			if tt.wantRequests >= 0 {
				assert.Len(t, up.requested(), tt.wantRequests)
			}
		})
	}
}

func TestResolve_HTTPErrorCarriesStatus(t *testing.T) {
	up := newFakeUpstream(t)
	up.rp("test_foo")
	up.status("/api/v1/ocs/item/"+testItemID, http.StatusBadGateway)

	_, err := up.resolver().Resolve(context.Background(), testUIURL)
	var httpErr *fetch.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}

func TestResolve_MissingConfiguration(t *testing.T) {
	cases := map[string]Config{
		"no api key":  {BaseURL: "https://rp.example.com"},
		"no base url": {APIKey: "token"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg, fetch.New()).Resolve(context.Background(), testUIURL)
			require.Error(t, err)
			assert.Equal(t, rperror.KindGeneric, rperror.KindOf(err))
			assert.Contains(t, err.Error(), "Missing configuration")
		})
	}
}

func TestResolve_QuotedBaseURL(t *testing.T) {
	up := newFakeUpstream(t)
	up.rp("test_foo")
	up.listing(testRunPath, "failed_testcase_1/")
	up.listing(testRunPath+"/failed_testcase_1/", "test_foo_ocs_logs/")
	up.listing(testRunPath+"/failed_testcase_1/test_foo_ocs_logs/ocs-ci-c1/ocs_must_gather", "quay.io-repo/")

	r := New(Config{APIKey: "token", BaseURL: `  "` + up.server.URL + `"  `}, fetch.New())
	_, err := r.Resolve(context.Background(), testUIURL)
	require.NoError(t, err)
}

func TestResolve_Cancelled(t *testing.T) {
	up := newFakeUpstream(t)
	up.rp("test_foo")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := up.resolver().Resolve(ctx, testUIURL)
	assert.Error(t, err)
}

func TestCleanBaseURL(t *testing.T) {
	tests := map[string]string{
		"https://rp":          "https://rp",
		"  https://rp \n":     "https://rp",
		`"https://rp"`:        "https://rp",
		`'https://rp'`:        "https://rp",
		`""https://rp""`:      `"https://rp"`,
		`  "https://rp/api" `: "https://rp/api",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanBaseURL(in), in)
	}
}
