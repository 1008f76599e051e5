// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/invowk/declcli/pkg/decl"
)

const (
	// EnvCommand holds the resolved command name.
	EnvCommand = "DECLCLI_COMMAND"
	// EnvInvocationID holds the invocation ID.
	EnvInvocationID = "DECLCLI_INVOCATION_ID"

	argPrefix = "DECLCLI_ARG_"
	optPrefix = "DECLCLI_OPT_"
)

// EnvName converts a value key to an environment variable suffix:
// "maxCount" becomes "MAX_COUNT".
func EnvName(key string) string {
	var sb strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}

// InvocationEnv returns the variables exported to scripts for inv.
// Absent values are not exported; missing values export an empty string.
func InvocationEnv(inv *decl.Invocation) map[string]string {
	env := map[string]string{
		EnvCommand:      inv.Command,
		EnvInvocationID: inv.ID,
	}
	for _, key := range inv.Args.Keys() {
		exportValue(env, argPrefix+EnvName(key), inv.Args.Get(key))
	}
	for _, key := range inv.Options.Keys() {
		exportValue(env, optPrefix+EnvName(key), inv.Options.Get(key))
	}
	return env
}

func exportValue(env map[string]string, name string, v decl.Value) {
	switch v.Kind() {
	case decl.KindAbsent:
		return
	case decl.KindList:
		items := v.Items()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = scalarString(item)
			env[name+"_"+strconv.Itoa(i+1)] = parts[i]
		}
		env[name+"_COUNT"] = strconv.Itoa(len(items))
		env[name] = strings.Join(parts, " ")
	default:
		env[name] = scalarString(v)
	}
}

func scalarString(v decl.Value) string {
	if v.IsMissing() || v.IsAbsent() {
		return ""
	}
	return v.String()
}

// PositionalArgs returns the bound argument values in declaration order,
// with rest lists expanded in place.
func PositionalArgs(inv *decl.Invocation) []string {
	var out []string
	for _, key := range inv.Args.Keys() {
		out = append(out, inv.Args.Strings(key)...)
	}
	return out
}

// FilterEnv drops variables exported by a parent declcli invocation so a
// script that runs declcli again does not leak its own arguments.
func FilterEnv(environ []string) []string {
	result := make([]string, 0, len(environ))
	for _, e := range environ {
		name, _, ok := strings.Cut(e, "=")
		if ok && shouldFilterEnvVar(name) {
			continue
		}
		result = append(result, e)
	}
	return result
}

func shouldFilterEnvVar(name string) bool {
	return name == EnvCommand ||
		name == EnvInvocationID ||
		strings.HasPrefix(name, argPrefix) ||
		strings.HasPrefix(name, optPrefix)
}

// EnvToSlice converts an environment map to sorted "KEY=VALUE" entries.
func EnvToSlice(env map[string]string) []string {
	keys := slices.Sorted(maps.Keys(env))
	result := make([]string, len(keys))
	for i, k := range keys {
		result[i] = k + "=" + env[k]
	}
	return result
}
