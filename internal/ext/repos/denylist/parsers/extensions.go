package parsers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	logpkg "github.com/haukened/extguard/internal/ext/common/log"
	"github.com/haukened/extguard/internal/ext/common/utils"
	"github.com/haukened/extguard/internal/ext/domain"
)

// Errors returned by ParseExtensionList before any input is read.
var (
	ErrEmptySource   = errors.New("parsers: source must not be empty")
	ErrZeroTimestamp = errors.New("parsers: timestamp must not be zero")
)

// ParseExtensionList parses a newline-delimited list of extensions into DenyRule values.
//
// Behavior:
// - Trims surrounding space, tab, CR and LF, then lowercases ASCII letters
// - Skips lines that are empty after trimming
// - Keeps every other token verbatim: there is no comment syntax and a leading
//   dot stays part of the token
// - De-duplicates by canonical extension while preserving first-seen order
// - Each rule is attributed to the provided source and timestamped with now
//
// An empty source or a zero now is rejected before any input is read.
//
// Lines are read with bufio.Reader so no line length limit applies.
func ParseExtensionList(r io.Reader, source string, logger logpkg.Logger, now time.Time) ([]domain.DenyRule, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	if now.IsZero() {
		return nil, ErrZeroTimestamp
	}
	br := bufio.NewReader(r)

	seen := make(map[string]struct{})
	out := make([]domain.DenyRule, 0, 32)
	logger.Debug(map[string]any{"source": source}, "parse_extension_list_start")

	lineNum := 0
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			logger.Debug(map[string]any{"source": source, "line": lineNum + 1, "error": readErr.Error()}, "parse_extension_list_read_error")
			return nil, readErr
		}
		if line == "" && readErr != nil {
			break
		}
		lineNum++

		ext := utils.CanonicalExtension(line)
		if ext == "" {
			logger.Debug(map[string]any{"line": lineNum}, "skip_empty")
		} else if _, ok := seen[ext]; ok {
			logger.Debug(map[string]any{"line": lineNum, "extension": ext}, "skip_duplicate")
		} else if rule, err := domain.NewDenyRule(ext, source, now); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		} else {
			out = append(out, rule)
			seen[ext] = struct{}{}
			logger.Debug(map[string]any{"line": lineNum, "extension": ext}, "emit_rule")
		}

		if readErr != nil {
			break
		}
	}

	logger.Debug(map[string]any{"source": source, "count": len(out)}, "parse_extension_list_done")
	return out, nil
}
