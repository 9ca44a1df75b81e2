package main

import (
	"os"
	"strings"

	"sortable-cli/internal/cli"
)

// isItemID accepts "item-<n>" only; bare numbers stay positional so they are
// never mistaken for subcommands.
func isItemID(s string) bool {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, "item-")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// rewriteItemShortcut turns `sortable [flags] item-3` into
// `sortable [flags] items show item-3`. Cobra treats the first positional
// token as a subcommand, so argv is rewritten before parsing.
func rewriteItemShortcut(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	valueFlags := map[string]bool{
		"--dir":    true,
		"--config": true,
		"--format": true,
	}

	insert := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "items", "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isItemID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isItemID(a):
			return insert(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteItemShortcut(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
