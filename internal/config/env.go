package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// EnvKey is the environment variable consulted for a flag:
// prefix "FANCYHASH" and flag "ignore-missing" give FANCYHASH_IGNORE_MISSING.
func EnvKey(prefix, flag string) string {
	return prefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// SetFlagsFromEnv fills every flag of fs that was not set on the command
// line from its environment variable, see EnvKey. Flags set this way count
// as changed, so a config file applied afterwards does not override them.
func SetFlagsFromEnv(fs *pflag.FlagSet, prefix string) (err error) {
	alreadySet := make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) {
		alreadySet[f.Name] = true
	})
	fs.VisitAll(func(f *pflag.Flag) {
		if alreadySet[f.Name] {
			return
		}
		key := EnvKey(prefix, f.Name)
		val := os.Getenv(key)
		if val == "" {
			return
		}
		if serr := fs.Set(f.Name, val); serr != nil && err == nil {
			err = fmt.Errorf("invalid value %q for %s: %w", val, key, serr)
		}
	})
	return err
}
