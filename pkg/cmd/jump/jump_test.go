package jump

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg"
)

const uiURL = "https://rp.example.com/ui/#ocs/launches/all/42/7/1001/log"

func newUpstream(t *testing.T) *httptest.Server {
	root := "/openshift-clusters/c1/c1_run/logs"
	mustGather := root + "/failed_testcase_1/test_bar_ocs_logs/c1/ocs_must_gather"
	pages := map[string]string{
		"/api/v1/ocs/item/1001":      `{"id":1001,"name":"test_bar"}`,
		root:                         `<a href="failed_testcase_1/">failed_testcase_1/</a>`,
		root + "/failed_testcase_1/": `<a href="test_bar_ocs_logs/">test_bar_ocs_logs/</a>`,
		mustGather:                   "<a href=\"quay-io-ocs/\">quay-io-ocs/</a>\n",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/ocs/launch" && r.URL.Query().Get("filter.eq.id") == "42" {
			fmt.Fprintf(w, `{"content":[{"id":42,"description":"Logs URL: http://%s%s"}]}`, r.Host, root)
			return
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, config *pkg.Config, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmdJump(config)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestJump(t *testing.T) {
	srv := newUpstream(t)
	config := &pkg.Config{APIKey: "token", BaseURL: srv.URL, Timeout: 5 * time.Second}

	out, err := execute(t, config, uiURL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/openshift-clusters/c1/c1_run/logs/failed_testcase_1/test_bar_ocs_logs/c1/ocs_must_gather/quay-io-ocs/\n", out)

	out, err = execute(t, config, "--details", uiURL)
	require.NoError(t, err)
	assert.Contains(t, out, "test_bar")
	assert.Contains(t, out, "quay-io-ocs/")
	assert.Contains(t, out, "failed_testcase_1/")
}

func TestJump_Errors(t *testing.T) {
	srv := newUpstream(t)

	_, err := execute(t, &pkg.Config{APIKey: "token", BaseURL: srv.URL}, "https://rp.example.com/ui/#ocs/dashboard")
	assert.True(t, rperror.IsUsage(err))

	_, err = execute(t, &pkg.Config{BaseURL: srv.URL}, uiURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing configuration")

	_, err = execute(t, &pkg.Config{APIKey: "token", BaseURL: srv.URL, Project: "other"}, uiURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 404")
}
