package reportportal

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

const (
	launchesMarker = "launches/"
	logMarker      = "log"

	// positions after "launches/", e.g. launches/all/<launch>/<suite>/<item>/log
	launchIDIndex   = 1
	testItemIDIndex = 3
)

// ExtractIDs parses the launch and test item IDs out of a ReportPortal UI URL
// of a failed test page. The IDs are taken positionally and are not
// validated: a malformed ID surfaces later as an API error.
func ExtractIDs(uiURL string) (launchID, testItemID string, err error) {
	if !strings.Contains(uiURL, launchesMarker) || !strings.Contains(uiURL, logMarker) {
		return "", "", rperror.Usage("Invalid ReportPortal URL format.\n" +
			"RP Jump only works on failed test pages of ReportPortal.")
	}

	_, rest, _ := strings.Cut(uiURL, launchesMarker)
	parts := strings.Split(rest, "/")
	if len(parts) <= testItemIDIndex {
		return "", "", rperror.Usage("Invalid ReportPortal URL format. " +
			"Expected .../launches/<filter>/<launch>/<suite>/<item>/log")
	}

	launchID = parts[launchIDIndex]
	testItemID = parts[testItemIDIndex]
	log.Infof("Launch ID: %s, Test Item ID: %s", launchID, testItemID)
	return launchID, testItemID, nil
}
