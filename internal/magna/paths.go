package magna

import (
	"strings"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

const (
	// FailedTestcaseMarker names the per-failure directories under a logs root.
	FailedTestcaseMarker = "failed_testcase"
	// MustGatherDir is the must-gather directory under a cluster's test logs.
	MustGatherDir = "ocs_must_gather"
	// TestLogsSuffix is appended to the test name to get its logs directory.
	TestLogsSuffix = "_ocs_logs"
	// TestNameSafeChars are kept unescaped in the test logs directory name.
	TestNameSafeChars = "/[]-_.~"
)

// RegistryMarkers identify the image directory that roots a must-gather.
var RegistryMarkers = []string{"quay", "registry"}

// IsRegistrySegment reports whether a path segment is a must-gather image directory.
func IsRegistrySegment(segment string) bool {
	return Contains(RegistryMarkers...)(segment)
}

// TestLogsDirName returns the escaped logs directory name of a test.
func TestLogsDirName(testName string) string {
	return Quote(testName+TestLogsSuffix, TestNameSafeChars)
}

// JoinURL joins parts with a single "/" after trimming trailing slashes
// from every part.
func JoinURL(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed = append(trimmed, strings.TrimRight(p, "/"))
	}
	return strings.Join(trimmed, "/")
}

// registryIndex returns the index of the first registry segment of url split
// on "/", or -1.
func registryIndex(segments []string) int {
	for i, s := range segments {
		if IsRegistrySegment(s) {
			return i
		}
	}
	return -1
}

// MustGatherRootURL truncates url right after its first quay/registry segment.
func MustGatherRootURL(url string) (string, error) {
	segments := strings.Split(url, "/")
	idx := registryIndex(segments)
	if idx < 0 {
		return "", rperror.Structure("No quay*/registry* directory found in must-gather sub-path!")
	}
	return strings.Join(segments[:idx+1], "/"), nil
}

// SplitMustGatherURL splits url into its must-gather root and the relative
// path following it. ok is false when url has no quay/registry segment.
func SplitMustGatherURL(url string) (root, suffix string, ok bool) {
	segments := strings.Split(url, "/")
	idx := registryIndex(segments)
	if idx < 0 {
		return "", "", false
	}
	return strings.Join(segments[:idx+1], "/"), strings.Join(segments[idx+1:], "/"), true
}
