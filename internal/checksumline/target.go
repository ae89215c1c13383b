package checksumline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoFilename is returned when a bare digest line names no file and none
// can be derived from the list file's name.
var ErrNoFilename = errors.New("couldn't guess a filename")

// TargetFromListName derives the file a bare digest refers to by dropping
// the list file's extension: "pip-1.3.1.tar.gz.sha1" names
// "pip-1.3.1.tar.gz". Leading dots of the base name do not start an
// extension.
func TargetFromListName(listName string) (string, error) {
	base := filepath.Base(listName)
	ext := filepath.Ext(strings.TrimLeft(base, "."))
	target := strings.TrimSuffix(listName, ext)
	if target == "" || target == listName {
		return "", fmt.Errorf("%w from %s", ErrNoFilename, listName)
	}
	return target, nil
}
