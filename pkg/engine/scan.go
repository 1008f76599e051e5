// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/invowk/declcli/pkg/decl"
)

type (
	// occurrence is one appearance of an option on the command line.
	occurrence struct {
		opt *decl.Option
		// value is a flag, a raw string scalar, or Missing.
		value decl.Value
		token string
	}

	// scanned splits the tokens following the command name.
	scanned struct {
		positionals []string
		occurrences []occurrence
	}

	// scanner walks the tokens of one command. In lenient mode unknown options
	// and unexpected values are skipped instead of reported.
	scanner struct {
		cmd     *decl.Command
		lenient bool
		out     scanned
	}
)

// isValueToken reports whether tok is a value rather than an option:
// anything not starting with '-', a lone "-", or a negative number.
func isValueToken(tok string) bool {
	if tok == "-" || !strings.HasPrefix(tok, "-") {
		return true
	}
	if c := tok[1]; c != '.' && (c < '0' || c > '9') {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

func scanTokens(cmd *decl.Command, tokens []string, lenient bool) (*scanned, error) {
	s := &scanner{cmd: cmd, lenient: lenient}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "--":
			s.out.positionals = append(s.out.positionals, tokens[i+1:]...)
			return &s.out, nil
		case isValueToken(tok):
			s.out.positionals = append(s.out.positionals, tok)
		case strings.HasPrefix(tok, "--"):
			consumed, err := s.long(tok, tokens[i+1:])
			if err != nil {
				return nil, err
			}
			i += consumed
		default:
			consumed, err := s.short(tok, tokens[i+1:])
			if err != nil {
				return nil, err
			}
			i += consumed
		}
	}
	return &s.out, nil
}

func (s *scanner) add(opt *decl.Option, value decl.Value, token string) {
	s.out.occurrences = append(s.out.occurrences, occurrence{opt: opt, value: value, token: token})
}

// long handles "--name", "--name=value", "--name value" and "--no-name".
// It returns how many following tokens it consumed.
func (s *scanner) long(tok string, next []string) (int, error) {
	name, value, hasValue := strings.Cut(tok[2:], "=")
	display := "--" + name

	opt, ok := s.cmd.LongOption(name)
	if !ok {
		if negated, found := strings.CutPrefix(name, "no-"); found && !hasValue {
			if neg, ok := s.cmd.LongOption(negated); ok && !neg.TakesValue() {
				s.add(neg, decl.FlagValue(false), display)
				return 0, nil
			}
		}
		if s.lenient {
			return 0, nil
		}
		return 0, newError(CodeUnknownOption, s.cmd.Name, display, "unknown option %q", display)
	}

	if !opt.TakesValue() {
		if hasValue {
			if s.lenient {
				return 0, nil
			}
			return 0, newError(CodeOptionValueUnexpected, s.cmd.Name, display,
				"option %s does not take a value", display)
		}
		s.add(opt, decl.FlagValue(true), display)
		return 0, nil
	}

	switch {
	case hasValue:
		s.add(opt, decl.ScalarValue(value), display)
		return 0, nil
	case len(next) > 0 && isValueToken(next[0]):
		s.add(opt, decl.ScalarValue(next[0]), display)
		return 1, nil
	default:
		s.add(opt, decl.Missing(), display)
		return 0, nil
	}
}

// short handles "-x", clusters such as "-ds", and values given as "-o value",
// "-o=value" or "-ovalue". A value-taking letter consumes the rest of the cluster.
func (s *scanner) short(tok string, next []string) (int, error) {
	body := tok[1:]
	for j := 0; j < len(body); {
		r, size := utf8.DecodeRuneInString(body[j:])
		letter := string(r)
		display := "-" + letter
		j += size

		opt, ok := s.cmd.ShortOption(letter)
		if !ok {
			if s.lenient {
				continue
			}
			return 0, newError(CodeUnknownOption, s.cmd.Name, display, "unknown option %q", display)
		}

		rest := body[j:]
		if !opt.TakesValue() {
			if strings.HasPrefix(rest, "=") {
				if s.lenient {
					return 0, nil
				}
				return 0, newError(CodeOptionValueUnexpected, s.cmd.Name, display,
					"option %s does not take a value", display)
			}
			s.add(opt, decl.FlagValue(true), display)
			continue
		}

		switch {
		case rest != "":
			s.add(opt, decl.ScalarValue(strings.TrimPrefix(rest, "=")), display)
			return 0, nil
		case len(next) > 0 && isValueToken(next[0]):
			s.add(opt, decl.ScalarValue(next[0]), display)
			return 1, nil
		default:
			s.add(opt, decl.Missing(), display)
			return 0, nil
		}
	}
	return 0, nil
}
