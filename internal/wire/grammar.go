package wire

import (
	"regexp"
	"sync"

	"github.com/hyprwatch/hyprwatch/pkg/types"
)

// pattern binds one event kind to its line regexp. The regexps are kept
// byte-for-byte compatible with the compositor's observed wire format:
// unanchored, with a word boundary guarding the bare "workspace" prefix
// so it cannot fire inside "createworkspace" or "destroyworkspace".
type pattern struct {
	kind types.EventType
	re   *regexp.Regexp
}

// grammar returns the compiled pattern set. Compilation happens once, on
// first use; the result is immutable process-wide state.
var grammar = sync.OnceValue(func() []pattern {
	return []pattern{
		{types.WorkspaceChanged, regexp.MustCompile(`\bworkspace>>(?P<workspace>[0-9]{1,2}|)`)},
		{types.WorkspaceDeleted, regexp.MustCompile(`destroyworkspace>>(?P<workspace>[0-9]{1,2})`)},
		{types.WorkspaceAdded, regexp.MustCompile(`createworkspace>>(?P<workspace>[0-9]{1,2})`)},
		{types.ActiveMonitorChanged, regexp.MustCompile(`activemon>>(?P<monitor>.*),(?P<workspace>[0-9]{1,2})`)},
		{types.ActiveWindowChanged, regexp.MustCompile(`activewindow>>(?P<class>.*),(?P<title>.*)`)},
		{types.FullscreenStateChanged, regexp.MustCompile(`fullscreen>>(?P<state>0|1)`)},
		{types.MonitorRemoved, regexp.MustCompile(`monitorremoved>>(?P<monitor>.*)`)},
		{types.MonitorAdded, regexp.MustCompile(`monitoradded>>(?P<monitor>.*)`)},
	}
})

// capture extracts the named group from a FindStringSubmatch result.
func (p pattern) capture(submatches []string, name string) string {
	i := p.re.SubexpIndex(name)
	if i < 0 || i >= len(submatches) {
		return ""
	}
	return submatches[i]
}
