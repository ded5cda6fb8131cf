// Package flagx lets several components share one command line: each picks
// out only the flags it owns and parses them with its own flag.FlagSet.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the arguments in args that belong to one of names,
// together with their values. Both "-f value" and "-f=value" forms are
// recognised; a token starting with "-" is never taken as a value.
//
// The result is never nil.
func FilterArgs(args []string, names ...string) []string {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// stringFlag parses a single string flag known under several names. The last
// occurrence wins.
func stringFlag(args []string, usage string, names ...string) string {
	var value string

	fs := flag.NewFlagSet(names[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", usage)
	}

	prefixed := make([]string, 0, 2*len(names))
	for _, n := range names {
		prefixed = append(prefixed, "-"+n, "--"+n)
	}
	_ = fs.Parse(FilterArgs(args, prefixed...))

	return value
}

// ConfigPath returns the JSON config file named by -c or -config, or "".
func ConfigPath(args []string) string {
	return stringFlag(args, "path to config file", "c", "config")
}

// EnvFilePath returns the dotenv file named by -env, or "".
func EnvFilePath(args []string) string {
	return stringFlag(args, "path to .env file", "env")
}
