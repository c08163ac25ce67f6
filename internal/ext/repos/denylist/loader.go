package denylist

import (
	"os"

	"github.com/haukened/extguard/internal/ext/common/clock"
	logpkg "github.com/haukened/extguard/internal/ext/common/log"
	"github.com/haukened/extguard/internal/ext/domain"
	"github.com/haukened/extguard/internal/ext/repos/denylist/parsers"
)

// LoadFile reads the denylist at path into canonical, de-duplicated rules.
// Any failure to open or read the file is returned as a *LoadError.
// The file handle is always released before LoadFile returns.
func LoadFile(path string, logger logpkg.Logger, clk clock.Clock) ([]domain.DenyRule, error) {
	f, err := os.Open(path)
	if err != nil {
		logger.Debug(map[string]any{"path": path, "error": err.Error()}, "denylist_open_failed")
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	rules, err := parsers.ParseExtensionList(f, path, logger, clk.Now())
	if err != nil {
		logger.Debug(map[string]any{"path": path, "error": err.Error()}, "denylist_read_failed")
		return nil, &LoadError{Path: path, Err: err}
	}

	logger.Info(map[string]any{"path": path, "extensions": len(rules)}, "denylist_loaded")
	return rules, nil
}
