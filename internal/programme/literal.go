/*
Copyright 2025 The Session Planner Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package programme

import (
	"fmt"
	"strconv"
	"strings"
)

// parseListLiteral parses a list literal as written by the programme export,
// e.g. ['Scheduling', "Integer Programming"] or [12, 7]. Elements are returned
// as text; numbers keep their literal spelling.
func parseListLiteral(s string) ([]string, error) {
	p := &listParser{src: strings.TrimSpace(s)}
	return p.parse()
}

type listParser struct {
	src string
	pos int
}

func (p *listParser) parse() ([]string, error) {
	if !p.consume('[') {
		return nil, p.errorf("expected '['")
	}
	items := []string{}
	for {
		p.skipSpace()
		if p.consume(']') {
			break
		}
		item, err := p.item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			break
		}
		return nil, p.errorf("expected ',' or ']'")
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input")
	}
	return items, nil
}

func (p *listParser) item() (string, error) {
	if p.pos >= len(p.src) {
		return "", p.errorf("unterminated list")
	}
	switch quote := p.src[p.pos]; quote {
	case '\'', '"':
		p.pos++
		return p.quoted(quote)
	default:
		return p.number()
	}
}

func (p *listParser) quoted(quote byte) (string, error) {
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		switch {
		case c == quote:
			return b.String(), nil
		case c == '\\' && p.pos < len(p.src):
			next := p.src[p.pos]
			p.pos++
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(next)
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *listParser) number() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(", ]\t", rune(p.src[p.pos])) {
		p.pos++
	}
	token := p.src[start:p.pos]
	if _, err := strconv.ParseFloat(token, 64); err != nil {
		return "", p.errorf("invalid element %q", token)
	}
	return token, nil
}

func (p *listParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *listParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *listParser) errorf(format string, args ...any) error {
	return fmt.Errorf("invalid list literal %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}
