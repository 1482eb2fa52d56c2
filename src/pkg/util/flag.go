package util

import (
	"os"
	"sort"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

var requiredFlags = map[*string]string{}

// RequiredFlag(senderPtr, "--sender"), also accepts -sender and sender
func RequiredFlag(flagPointer *string, cliName string) {
	requiredFlags[flagPointer] = normalizeFlagName(cliName)
}

func normalizeFlagName(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "--") {
		return s
	}
	if strings.HasPrefix(s, "-") {
		// single dash → double dash
		return "-" + s
	}
	return "--" + s
}

/*
EnsureFlags logs every registered flag still empty after flag.Parse, in a
stable order, and exits(1) if any were missing.
*/
func EnsureFlags() {
	missing := missingFlagNames()
	for _, cliName := range missing {
		tl.Log(tl.Warning, palette.YellowBold, "%s parameter is %s", cliName, "required")
	}
	if len(missing) > 0 {
		os.Exit(1)
	}
}

func missingFlagNames() []string {
	missing := make([]string, 0)
	for flagPointer, cliName := range requiredFlags {
		if flagPointer == nil || strings.TrimSpace(*flagPointer) == "" {
			missing = append(missing, cliName)
		}
	}
	sort.Strings(missing)
	return missing
}
