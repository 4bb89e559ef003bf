// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// maxConfigFileSize bounds config files so a corrupt or hostile file
// cannot exhaust memory during CUE compilation.
const maxConfigFileSize = 1 << 20 // 1 MiB

// checkFileSize rejects oversized config files before compilation.
func checkFileSize(data []byte, path string) error {
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: config file too large (%d bytes, max %d)", path, len(data), maxConfigFileSize)
	}
	return nil
}

// formatCUEError formats a CUE error as <file-path>: <cue-path>: <message>
// so schema violations point at the offending field, e.g.:
//
//	hazmat.cue: ui.color_scheme: 2 errors in empty disjunction
func formatCUEError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	var lines []string
	for _, e := range cueErrs {
		path := strings.Join(cueerrors.Path(e), ".")
		msg := e.Error()
		// CUE sometimes repeats the path inside the message; avoid
		// printing it twice.
		if path != "" && !strings.Contains(msg, path) {
			lines = append(lines, fmt.Sprintf("%s: %s: %s", filePath, path, msg))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", filePath, msg))
		}
	}

	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
