package wrap

import (
	"path/filepath"
	"strings"
)

// pluginArgs builds the flags that load the analysis plugin into the
// wrapped compiler, handing it the database path and the source root.
// The GCC plugin convention keys per-plugin arguments by the plugin's
// base name without extension.
func (r *Runner) pluginArgs() []string {
	if r.cfg.Plugin == "" {
		return nil
	}
	name := strings.TrimSuffix(filepath.Base(r.cfg.Plugin), filepath.Ext(r.cfg.Plugin))
	return []string{
		"-fplugin=" + r.cfg.Plugin,
		"-fplugin-arg-" + name + "-db=" + r.cfg.Database,
		"-fplugin-arg-" + name + "-source-root=" + r.cfg.SourceRoot,
	}
}
