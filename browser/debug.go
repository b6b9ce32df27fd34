package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/BrowseKit/page"
)

// SetDebug sets the debug mode (off by default). When active, failed form
// and link lookups dump diagnostics and open the offending page in an
// external viewer before the error propagates.
func (b *StatefulBrowser) SetDebug(debug bool) {
	b.debug = debug
}

// Debug returns the debug mode.
func (b *StatefulBrowser) Debug() bool {
	return b.debug
}

// SetVerbose sets the verbosity level: 0 silent, 1 one marker per Open,
// >= 2 the full URL per Open.
func (b *StatefulBrowser) SetVerbose(verbose int) {
	b.verbose = verbose
}

// Verbose returns the verbosity level.
func (b *StatefulBrowser) Verbose() int {
	return b.verbose
}

// progressMark emits verbosity output for one Open call. Purely
// observational; failures here never affect navigation.
func (b *StatefulBrowser) progressMark(url string) {
	switch {
	case b.verbose == 1:
		fmt.Fprint(b.progress, ".")
	case b.verbose >= 2:
		fmt.Fprintln(b.progress, url)
	}
}

// LaunchBrowser writes the page to a temporary file and opens it in the
// OS viewer, for debugging. A nil doc means the current page. The dump is
// sanitized so no live scripts run locally. Errors are logged, not
// returned: the viewer is a best-effort aid.
func (b *StatefulBrowser) LaunchBrowser(doc *page.Document) {
	if doc == nil {
		doc = b.state.page
	}
	if doc == nil {
		return
	}

	content, err := doc.SanitizedHTML()
	if err != nil {
		b.log.Warn("Failed to render page for viewer", zap.Error(err))
		return
	}

	path := filepath.Join(os.TempDir(), "browsekit-"+uuid.NewString()+".html")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		b.log.Warn("Failed to write viewer dump", zap.Error(err))
		return
	}

	if err := openViewer(path); err != nil {
		b.log.Warn("Failed to launch viewer", zap.String("path", path), zap.Error(err))
		return
	}
	b.log.Info("Launched viewer", zap.String("path", path))
}

func openViewer(path string) error {
	if cmd := os.Getenv("BROWSER"); cmd != "" {
		return exec.Command(cmd, path).Start()
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
