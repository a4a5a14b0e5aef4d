// Package flagx lets several flag sets share one argv. Configuration loaders
// pick out the flags they own with FilterArgs; command parsers drop those
// same flags with StripArgs before parsing their own.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns only the allowed flags (and their values) from args.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//
// A separate value is consumed only if it does not itself look like a flag.
func FilterArgs(args []string, allowedFlags []string) []string {
	kept, _ := split(args, allowedFlags)
	return kept
}

// StripArgs is the complement of FilterArgs: it returns args with the listed
// flags and their values removed, preserving the order of everything else.
func StripArgs(args []string, flags []string) []string {
	_, rest := split(args, flags)
	return rest
}

func split(args []string, names []string) (matched, rest []string) {
	set := make(map[string]struct{}, len(names))
	for _, f := range names {
		set[f] = struct{}{}
	}

	matched = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := set[name]; ok {
				matched = append(matched, arg)
			} else {
				rest = append(rest, arg)
			}
			continue
		}

		if _, ok := set[arg]; !ok {
			rest = append(rest, arg)
			continue
		}

		matched = append(matched, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			matched = append(matched, args[i+1])
			i++
		}
	}

	return matched, rest
}

// ConfigFileFlags are the flags that name a JSON configuration file.
var ConfigFileFlags = []string{"-c", "-config"}

// JsonConfigFlags returns the path given with -c or -config, or "" if neither
// is present. Other arguments are ignored.
func JsonConfigFlags() string {
	return jsonConfigFrom(os.Args[1:])
}

func jsonConfigFrom(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFileFlags))

	return config
}
