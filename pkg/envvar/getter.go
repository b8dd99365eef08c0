package envvar

import (
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Prefix is prepended to every variable name looked up by this package.
const Prefix = "FASTIND_"

func lookup(n string) (string, bool) {
	str, ok := os.LookupEnv(Prefix + n)
	if !ok {
		return "", false
	}

	str = strings.TrimSpace(str)
	return str, str != ""
}

// String returns the value of FASTIND_<n>, or the optional default when it is unset or blank.
func String(n string, args ...string) (string, bool) {
	defaultValue := ""
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := lookup(n)
	if !ok {
		return defaultValue, false
	}

	return str, true
}

func Int(n string, args ...int) (int, bool) {
	defaultValue := 0
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := lookup(n)
	if !ok {
		return defaultValue, false
	}

	num, err := strconv.Atoi(str)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %s%s=%q as int, incorrect format", Prefix, n, str)
		return defaultValue, false
	}

	return num, true
}

func Bool(n string, args ...bool) (bool, bool) {
	defaultValue := false
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := lookup(n)
	if !ok {
		return defaultValue, false
	}

	b, err := strconv.ParseBool(str)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %s%s=%q as bool, incorrect format", Prefix, n, str)
		return defaultValue, false
	}

	return b, true
}

// Environment returns the lower-cased FASTIND_ENV, "development" when unset.
func Environment() string {
	env, _ := String("ENV", "development")
	return strings.ToLower(env)
}

func IsProduction() bool {
	switch Environment() {
	case "production", "prod":
		return true
	}
	return false
}
