// Package commands implements the widgetdemo subcommands.
package commands

import (
	"fmt"
	"strings"
)

// options holds the flags shared by the subcommands.
type options struct {
	configPath string
	addr       string
	dev        bool
	rest       []string
}

// parseArgs reads --config, --addr and --dev in either "--flag value" or
// "--flag=value" form. Anything else is returned in rest.
func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		switch name {
		case "--config", "-c", "--addr":
			if !hasValue {
				if i+1 >= len(args) {
					return opts, fmt.Errorf("%s requires a value", name)
				}
				i++
				value = args[i]
			}
			if name == "--addr" {
				opts.addr = value
			} else {
				opts.configPath = value
			}
		case "--dev":
			opts.dev = !hasValue || value == "true"
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag: %s", arg)
			}
			opts.rest = append(opts.rest, arg)
		}
	}
	return opts, nil
}
