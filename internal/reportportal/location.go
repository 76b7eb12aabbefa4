package reportportal

import (
	"strings"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

const (
	logsURLMarker = "Logs URL:"
	clusterMarker = "openshift-clusters/"
)

// LogsLocation is where a failed test's logs live on Magna.
type LogsLocation struct {
	LogsURLRoot string
	ClusterName string
	TestName    string
}

// LocateLogs pulls the logs root and cluster name from the launch
// description and the test name from the item.
func LocateLogs(launches *PagedLaunches, item *TestItemResource) (*LogsLocation, error) {
	errMissing := rperror.Structure("Could not extract Magna logs location from RP " +
		"(missing description or name).")

	if launches == nil || len(launches.Content) == 0 || item == nil {
		return nil, errMissing
	}
	root, ok := LogsURLFromDescription(launches.Content[0].Description)
	if !ok {
		return nil, errMissing
	}
	cluster, ok := ClusterNameFromLogsURL(root)
	if !ok {
		return nil, errMissing
	}
	if item.Name == "" {
		return nil, errMissing
	}
	return &LogsLocation{
		LogsURLRoot: root,
		ClusterName: cluster,
		TestName:    item.Name,
	}, nil
}

// LogsURLFromDescription returns the first token following "Logs URL:".
func LogsURLFromDescription(description string) (string, bool) {
	_, after, found := strings.Cut(description, logsURLMarker)
	if !found {
		return "", false
	}
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// ClusterNameFromLogsURL returns the path segment following "openshift-clusters/".
func ClusterNameFromLogsURL(logsURL string) (string, bool) {
	_, after, found := strings.Cut(logsURL, clusterMarker)
	if !found {
		return "", false
	}
	name, _, _ := strings.Cut(after, "/")
	if name == "" {
		return "", false
	}
	return name, true
}
