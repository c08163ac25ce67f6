package classifier

import (
	logpkg "github.com/haukened/extguard/internal/ext/common/log"
	"github.com/haukened/extguard/internal/ext/common/utils"
	"github.com/haukened/extguard/internal/ext/domain"
)

// Classifier decides whether filenames carry a denylisted extension.
// It holds no mutable state; results depend only on the filename and the denylist.
type Classifier struct {
	denylist Denylist
	logger   logpkg.Logger
}

// Options configures a Classifier.
type Options struct {
	Denylist Denylist
	Logger   logpkg.Logger
}

// Result pairs a filename with its decision.
type Result struct {
	Filename string
	Decision domain.Decision
}

// New builds a Classifier. A nil Logger falls back to a no-op logger.
func New(opts Options) *Classifier {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNoopLogger()
	}
	return &Classifier{denylist: opts.Denylist, logger: logger}
}

// Classify extracts the extension of filename, lowercases its ASCII letters and
// checks it against the denylist. Whitespace in the extension is significant.
// A filename without an extension is always safe, even if the denylist somehow
// contains "".
func (c *Classifier) Classify(filename string) domain.Decision {
	ext := utils.LowerExtension(utils.ExtensionOf(filename))
	if ext == "" {
		c.logger.Debug(map[string]any{"filename": filename}, "classify_no_extension")
		return domain.SafeDecision()
	}

	d := c.denylist.Decide(ext)
	c.logger.Debug(map[string]any{
		"filename":  filename,
		"extension": ext,
		"malicious": d.Malicious,
	}, "classify")
	return d
}

// IsMalicious reports whether filename has a denylisted extension.
func (c *Classifier) IsMalicious(filename string) bool {
	return c.Classify(filename).Malicious
}

// ClassifyAll classifies filenames in order.
func (c *Classifier) ClassifyAll(filenames []string) []Result {
	out := make([]Result, 0, len(filenames))
	for _, f := range filenames {
		out = append(out, Result{Filename: f, Decision: c.Classify(f)})
	}
	return out
}
