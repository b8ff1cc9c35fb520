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

// Package label supports labeling chart items with their formatted values.
package label

import (
	"golang.org/x/text/language"

	labelformat "github.com/gostafie/nextreports-engine/label_format"
	"github.com/gostafie/nextreports-engine/util"
)

const (
	valueLabelKey   = "value_label"
	percentLabelKey = "percent_label"

	// DefaultValuePattern formats values when no pattern is given.
	DefaultValuePattern = "#"
	// DefaultPercentPattern formats proportions when no pattern is given.
	DefaultPercentPattern = "0.00%"
)

// Values labels chart items with their values.  A nil Values labels nothing.
// Values is not safe for concurrent use.
type Values struct {
	valuePattern, percentPattern string
	formatter                    *labelformat.Formatter
}

// NewValues returns a new Values formatting with the provided decimal
// pattern.  An empty pattern formats values with DefaultValuePattern and
// proportions with DefaultPercentPattern; otherwise both use the pattern.
func NewValues(pattern string) (*Values, error) {
	ret := &Values{
		valuePattern:   DefaultValuePattern,
		percentPattern: DefaultPercentPattern,
		formatter:      labelformat.New(language.English),
	}
	if pattern != "" {
		if err := labelformat.CheckDecimal(pattern); err != nil {
			return nil, err
		}
		ret.valuePattern, ret.percentPattern = pattern, pattern
	}
	return ret, nil
}

func (v *Values) label(key string, val float64, pattern string) util.PropertyUpdate {
	if v == nil {
		return util.EmptyUpdate
	}
	str, err := v.formatter.Format(val, pattern)
	if err != nil {
		return util.ErrorProperty(err)
	}
	return util.StringProperty(key, str)
}

// Value labels a Datum with the provided value.
func (v *Values) Value(val float64) util.PropertyUpdate {
	if v == nil {
		return util.EmptyUpdate
	}
	return v.label(valueLabelKey, val, v.valuePattern)
}

// Percent labels a Datum with the provided proportion, where 1 is the whole.
func (v *Values) Percent(fraction float64) util.PropertyUpdate {
	if v == nil {
		return util.EmptyUpdate
	}
	return v.label(percentLabelKey, fraction, v.percentPattern)
}
