/*
	Copyright 2023 Google Inc.
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

// Package style supports attaching presentation attributes to chart data.
//
// A Style maps attribute names, such as 'background' or 'font-family', to
// values, both strings.  Which attributes a renderer honors is up to the
// renderer, but names and values should follow CSS conventions.  Styles are
// attached to a Datum via Define, and are emitted in attribute name order.
package style

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/gostafie/nextreports-engine/util"
)

const (
	keyPrefix = "style_"

	// Background is the chart background attribute.
	Background = "background"
)

var attrRE = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Style defines a set of styles that can be attached to a Datum.
type Style struct {
	attrs map[string]string
}

// New returns a new, empty Style.
func New() *Style {
	return &Style{
		attrs: map[string]string{},
	}
}

// FromMap returns a Style holding the provided attributes, or an error if any
// attribute name is malformed.
func FromMap(attrs map[string]string) (*Style, error) {
	s := New()
	for attr, val := range attrs {
		if !attrRE.MatchString(attr) {
			return nil, fmt.Errorf("malformed style attribute '%s'", attr)
		}
		s.With(attr, val)
	}
	return s, nil
}

// Empty returns true if the receiver has no attributes.  A nil Style is
// empty.
func (s *Style) Empty() bool {
	return s == nil || len(s.attrs) == 0
}

// Get returns the value of the provided attribute, and whether it is set.
func (s *Style) Get(attr string) (string, bool) {
	if s == nil {
		return "", false
	}
	val, ok := s.attrs[attr]
	return val, ok
}

// Define returns a PropertyUpdate defining the receiver into a Datum.
func (s *Style) Define() util.PropertyUpdate {
	if s.Empty() {
		return util.EmptyUpdate
	}
	attrs := make([]string, 0, len(s.attrs))
	for attr := range s.attrs {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	ret := make([]util.PropertyUpdate, 0, len(attrs))
	for _, attr := range attrs {
		ret = append(ret, util.StringProperty(keyPrefix+attr, s.attrs[attr]))
	}
	return util.Chain(ret...)
}

// Px formats the provided value as a pixel specifier.
func Px(valPx float64) string {
	return fmt.Sprintf("%.2fpx", valPx)
}

// With sets the specified attribute type and value in the receiver.
func (s *Style) With(attrType string, attrVal string) *Style {
	s.attrs[attrType] = attrVal
	return s
}
