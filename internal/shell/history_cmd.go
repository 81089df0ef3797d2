package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"matrixterm/internal/history"
)

const historyTimeLayout = "15:04:05"

func runHistory(_ context.Context, env *Env, args []string) (Output, error) {
	ledger := env.Ledger

	if len(args) == 0 {
		return Output{Lines: renderEntries("Command history:", ledger.All())}, nil
	}

	switch args[0] {
	case "-n":
		if len(args) != 2 {
			return Output{}, syntaxError("history", "usage: history -n N")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return Output{}, syntaxError("history", "invalid count %q", args[1])
		}
		return Output{Lines: renderEntries("Command history:", ledger.Recent(n))}, nil

	case "-c":
		if len(args) != 1 {
			return Output{}, syntaxError("history", "-c takes no arguments")
		}
		ledger.Clear()
		return Output{Lines: []string{"History cleared"}}, nil

	case "-s":
		if len(args) != 1 {
			return Output{}, syntaxError("history", "-s takes no arguments")
		}
		return Output{Lines: renderStats(ledger.Stats())}, nil

	case "-g":
		pattern := strings.Join(args[1:], " ")
		if pattern == "" {
			return Output{Lines: []string{"Usage: history -g <pattern>"}}, nil
		}
		matches := ledger.Search(pattern)
		if len(matches) == 0 {
			return Output{Lines: []string{fmt.Sprintf("No commands matching '%s'", pattern)}}, nil
		}
		return Output{Lines: renderEntries(fmt.Sprintf("Results for '%s':", pattern), matches)}, nil

	default:
		return Output{}, syntaxError("history", "invalid option %q", args[0])
	}
}

func renderEntries(title string, entries []history.Entry) []string {
	if len(entries) == 0 {
		return []string{"No commands in history"}
	}
	lines := []string{title}
	for i, e := range entries {
		status := "ok "
		if !e.Success {
			status = "err"
		}
		lines = append(lines, fmt.Sprintf("%4d  [%s] %s %s", i+1, e.Timestamp.Format(historyTimeLayout), status, e.Command))
		if e.ErrorMessage != "" {
			lines = append(lines, "      "+e.ErrorMessage)
		}
	}
	return lines
}

func renderStats(s history.Stats) []string {
	return []string{
		"History statistics:",
		fmt.Sprintf("  Total commands: %d", s.Total),
		fmt.Sprintf("  Successful:     %d", s.Successful),
		fmt.Sprintf("  Failed:         %d", s.Failed),
		fmt.Sprintf("  Success rate:   %.1f%%", s.SuccessRate),
	}
}
