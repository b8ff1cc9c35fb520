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

// Package disambiguator keeps repeated category labels distinct within a
// chart.  The first occurrence of a label under a key is returned unchanged;
// later occurrences are suffixed " (1)", " (2)", and so on.
package disambiguator

import "fmt"

type labelKey struct {
	key   string
	label string
}

// Disambiguator counts label occurrences per key.  It is not safe for
// concurrent use; each chart build owns its own.
type Disambiguator struct {
	seen map[labelKey]int
}

// New returns a new, empty Disambiguator.
func New() *Disambiguator {
	return &Disambiguator{
		seen: map[labelKey]int{},
	}
}

// Disambiguate returns the display label for the provided raw label under the
// provided key.
func (d *Disambiguator) Disambiguate(key, label string) string {
	lk := labelKey{key, label}
	n, ok := d.seen[lk]
	if !ok {
		d.seen[lk] = 0
		return label
	}
	n++
	d.seen[lk] = n
	return fmt.Sprintf("%s (%d)", label, n)
}
