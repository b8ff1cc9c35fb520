/*
	Copyright 2024 The nextreports-engine Authors
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package labelformat renders category keys as display labels.  A label
// pattern is optional; its interpretation depends on the key's type:
//
//   - numbers accept decimal patterns built from '#', '0', ',', '.' and an
//     optional trailing '%', such as "#", "0.00", "#,##0.00" or "0.00%";
//   - times accept date patterns such as "yyyy-MM-dd HH:mm:ss" or "MMM yyyy";
//   - all other keys ignore the pattern.
package labelformat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gostafie/nextreports-engine/cursor"
)

// DefaultTimeLayout is used for time keys with no pattern.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// Formatter formats category keys with a language-specific number printer.
type Formatter struct {
	printer *message.Printer
	// Decimal patterns are parsed once per Formatter.
	decimals map[string]*decimalPattern
	// Date patterns are converted once per Formatter.
	layouts map[string]string
}

// New returns a new Formatter printing numbers for the provided language.
func New(tag language.Tag) *Formatter {
	return &Formatter{
		printer:  message.NewPrinter(tag),
		decimals: map[string]*decimalPattern{},
		layouts:  map[string]string{},
	}
}

// Format returns the label for the provided key under the provided pattern.
// A nil key formats as the empty string.
func (f *Formatter) Format(v any, pattern string) (string, error) {
	if v == nil {
		return "", nil
	}
	if t, ok := v.(time.Time); ok {
		if pattern == "" {
			return t.Format(DefaultTimeLayout), nil
		}
		return t.Format(f.layout(pattern)), nil
	}
	if n, ok := cursor.Numeric(v); ok {
		if pattern == "" {
			return plainNumber(v, n), nil
		}
		dp, err := f.decimal(pattern)
		if err != nil {
			return "", err
		}
		return dp.format(f.printer, n), nil
	}
	switch tv := v.(type) {
	case string:
		return tv, nil
	case []byte:
		return string(tv), nil
	}
	return fmt.Sprint(v), nil
}

func plainNumber(v any, n float64) string {
	switch v.(type) {
	case float32, float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func (f *Formatter) decimal(pattern string) (*decimalPattern, error) {
	if dp, ok := f.decimals[pattern]; ok {
		return dp, nil
	}
	dp, err := parseDecimalPattern(pattern)
	if err != nil {
		return nil, err
	}
	f.decimals[pattern] = dp
	return dp, nil
}

func (f *Formatter) layout(pattern string) string {
	if l, ok := f.layouts[pattern]; ok {
		return l
	}
	l := GoLayout(pattern)
	f.layouts[pattern] = l
	return l
}

// CheckDecimal returns an error if the provided decimal pattern is malformed.
func CheckDecimal(pattern string) error {
	_, err := parseDecimalPattern(pattern)
	return err
}

type decimalPattern struct {
	grouping          bool
	percent           bool
	minIntegerDigits  int
	minFractionDigits int
	maxFractionDigits int
}

func parseDecimalPattern(pattern string) (*decimalPattern, error) {
	dp := &decimalPattern{}
	body := pattern
	if strings.HasSuffix(body, "%") {
		dp.percent = true
		body = strings.TrimSuffix(body, "%")
	}
	intPart, fracPart, hasPoint := strings.Cut(body, ".")
	if intPart == "" && !hasPoint {
		return nil, fmt.Errorf("empty decimal pattern '%s'", pattern)
	}
	for _, r := range intPart {
		switch r {
		case '#':
		case '0':
			dp.minIntegerDigits++
		case ',':
			dp.grouping = true
		default:
			return nil, fmt.Errorf("unsupported character %q in decimal pattern '%s'", r, pattern)
		}
	}
	seenHash := false
	for _, r := range fracPart {
		switch r {
		case '0':
			if seenHash {
				return nil, fmt.Errorf("'0' after '#' in fraction of decimal pattern '%s'", pattern)
			}
			dp.minFractionDigits++
			dp.maxFractionDigits++
		case '#':
			seenHash = true
			dp.maxFractionDigits++
		default:
			return nil, fmt.Errorf("unsupported character %q in decimal pattern '%s'", r, pattern)
		}
	}
	return dp, nil
}

func (dp *decimalPattern) format(p *message.Printer, n float64) string {
	if dp.percent {
		n *= 100
	}
	opts := []number.Option{
		number.MinFractionDigits(dp.minFractionDigits),
		number.MaxFractionDigits(dp.maxFractionDigits),
	}
	if dp.minIntegerDigits > 1 {
		opts = append(opts, number.MinIntegerDigits(dp.minIntegerDigits))
	}
	if !dp.grouping {
		opts = append(opts, number.NoSeparator())
	}
	ret := p.Sprint(number.Decimal(n, opts...))
	if dp.percent {
		ret += "%"
	}
	return ret
}

// dateTokens maps date pattern letters, longest first, to Go layout elements.
var dateTokens = []struct {
	token, layout string
}{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dd", "02"},
	{"d", "2"},
	{"EEEE", "Monday"},
	{"EEE", "Mon"},
	{"HH", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"SSS", "000"},
	{"a", "PM"},
	{"Z", "-0700"},
	{"z", "MST"},
}

// GoLayout converts a date pattern into a Go time layout.  Text between
// single quotes is copied literally, and "''" denotes a single quote.
func GoLayout(pattern string) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			if strings.HasPrefix(pattern[i:], "''") {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				sb.WriteString(pattern[i+1:])
				break
			}
			sb.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}
		matched := false
		for _, dt := range dateTokens {
			if strings.HasPrefix(pattern[i:], dt.token) {
				sb.WriteString(dt.layout)
				i += len(dt.token)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(pattern[i])
			i++
		}
	}
	return sb.String()
}
