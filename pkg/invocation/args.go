// Package invocation parses raw command tokens and snapshots the
// environment for one orchestration run.
package invocation

import "strings"

// ParsedArgs holds the classified invocation tokens.
// Parsing is permissive: no token is ever rejected, unknown flags
// simply become ignorable metadata for tasks that never query them.
type ParsedArgs struct {
	Positional []string
	Named      map[string]string
	Flags      map[string]bool
}

// ParseArgs classifies the raw token sequence following the module name.
//
// A token containing '=' (optionally prefixed with "--") is a named
// argument; the portion before '=' is the key with any "--" stripped.
// A token prefixed with "--" and containing no '=' is a flag. Any other
// token is positional, order preserved. On duplicate named keys the
// later occurrence wins.
func ParseArgs(tokens []string) ParsedArgs {
	parsed := ParsedArgs{
		Named: make(map[string]string),
		Flags: make(map[string]bool),
	}

	for _, token := range tokens {
		if key, value, ok := strings.Cut(token, "="); ok {
			key = strings.TrimPrefix(key, "--")
			if key == "" {
				// Tokens like "=v" carry no key; keep them positional
				// rather than rejecting the input.
				parsed.Positional = append(parsed.Positional, token)
				continue
			}
			parsed.Named[key] = value
			continue
		}

		if strings.HasPrefix(token, "--") && len(token) > 2 {
			parsed.Flags[strings.TrimPrefix(token, "--")] = true
			continue
		}

		parsed.Positional = append(parsed.Positional, token)
	}

	return parsed
}
