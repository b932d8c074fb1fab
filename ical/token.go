// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// property is one decoded content line: NAME;PARAM=VALUE;PARAM=VALUE:VALUE.
type property struct {
	Name   string
	Params map[string]string
	Value  string
}

// unfold reads r and reverses RFC 5545 §3.1 line folding: a CRLF
// followed by a single space or tab is a continuation of the previous
// line, not a line break. It also tolerates bare LF line endings.
func unfold(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var lines []string
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		if raw == "" {
			continue
		}
		if (raw[0] == ' ' || raw[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += raw[1:]
			continue
		}
		lines = append(lines, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// parseProperty splits one unfolded content line into its name,
// parameters and value. The name is whatever precedes the first
// unquoted ';' or ':'; parameters are ';'-separated NAME=VALUE pairs
// between the name and the first unquoted ':'; the value is everything
// after that colon.
func parseProperty(line string) (property, error) {
	colon := findUnquotedColon(line)
	if colon == -1 {
		return property{}, fmt.Errorf("%w: %s", ErrInvalidParamForm, line)
	}
	head, value := line[:colon], line[colon+1:]

	name := head
	params := make(map[string]string)
	if semi := strings.IndexByte(head, ';'); semi != -1 {
		name = head[:semi]
		for _, tok := range splitUnquoted(head[semi+1:], ';') {
			k, v, found := strings.Cut(tok, "=")
			if !found {
				return property{}, fmt.Errorf("%w: %s", ErrInvalidParamForm, tok)
			}
			params[strings.ToUpper(k)] = strings.Trim(v, `"`)
		}
	}
	return property{Name: strings.ToUpper(name), Params: params, Value: value}, nil
}

func findUnquotedColon(s string) int {
	inQuotes := false
	for i, c := range s {
		switch c {
		case '"':
			inQuotes = !inQuotes
		case ':':
			if !inQuotes {
				return i
			}
		}
	}
	return -1
}

func splitUnquoted(s string, sep byte) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == sep && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// unescapeText reverses RFC 5545 §3.3.11 TEXT escaping: \\, \;, \,, \N
// and \n become their literal characters.
func unescapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n', 'N':
				b.WriteByte('\n')
				i++
				continue
			case '\\', ';', ',':
				b.WriteByte(s[i+1])
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeText applies RFC 5545 §3.3.11 TEXT escaping.
func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, "\n", `\n`)
	return r.Replace(s)
}

// foldLine wraps a rendered content line at 75 octets per RFC 5545
// §3.1, continuing with a single leading space.
func foldLine(line string) string {
	const limit = 75
	if len(line) <= limit {
		return line + "\r\n"
	}
	var b strings.Builder
	for len(line) > limit {
		b.WriteString(line[:limit])
		b.WriteString("\r\n ")
		line = line[limit:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
	return b.String()
}
