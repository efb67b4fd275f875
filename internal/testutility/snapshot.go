package testutility

import (
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/tidwall/pretty"
)

type Snapshot struct{}

// NewSnapshot creates a snapshot that can be passed around within tests
func NewSnapshot() Snapshot {
	return Snapshot{}
}

// MatchJSON asserts the existing snapshot matches what was gotten in the test,
// after being marshalled as indented JSON
func (s Snapshot) MatchJSON(t *testing.T, got any) {
	t.Helper()

	j, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %s", err)
	}

	s.MatchText(t, string(pretty.PrettyOptions(j, &pretty.Options{Indent: "  "})))
}

// MatchText asserts the existing snapshot matches what was gotten in the test
func (s Snapshot) MatchText(t *testing.T, got string) {
	t.Helper()

	snaps.MatchSnapshot(t, got)
}

// CleanSnapshots reports obsolete snapshots and sorts the rest, and must be
// called from TestMain after the tests have run
func CleanSnapshots(m *testing.M) {
	_, _ = snaps.Clean(m, snaps.CleanOpts{Sort: true})
}
