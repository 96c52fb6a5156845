//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fastyaml

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fastyaml/fastyaml/internal/yamlh"
)

// resolveScalar decides the native type of a raw scalar. Empty and quoted
// scalars are always strings; everything else goes through the implicit
// core-schema rules below, in order. Integer and float parses must consume
// the whole text, so strings like "123abc" or "0x1G" never half-match a
// numeric form. The numeric grammar deliberately leaves out underscore
// separators, comma grouping, and sexagesimal notation.
func resolveScalar(value []byte, style yamlh.YamlScalarStyle) (any, error) {
	if len(value) == 0 || style&(yamlh.SINGLE_QUOTED_SCALAR_STYLE|yamlh.DOUBLE_QUOTED_SCALAR_STYLE) != 0 {
		return decodeString(value)
	}

	text := string(value)
	numeric := text

	switch text[0] {
	case '.':
		switch text {
		case ".NaN", ".nan":
			return math.NaN(), nil
		case ".Inf", ".inf":
			return math.Inf(1), nil
		}
	case '0':
		if len(text) > 1 && text[1] == 'x' {
			if i, err := strconv.ParseInt(text[2:], 16, 64); err == nil {
				return i, nil
			}
			if u, err := strconv.ParseUint(text[2:], 16, 64); err == nil {
				return u, nil
			}
		} else if len(text) > 1 && text[1] >= '0' && text[1] <= '8' {
			if i, err := strconv.ParseInt(text[1:], 8, 64); err == nil {
				return i, nil
			}
			if u, err := strconv.ParseUint(text[1:], 8, 64); err == nil {
				return u, nil
			}
		} else if len(text) == 1 {
			return int64(0), nil
		}
	case '-':
		if text == "-.Inf" || text == "-.inf" {
			return math.Inf(-1), nil
		}
		numeric = text[1:]
	case '+':
		if text == "+.Inf" || text == "+.inf" {
			return math.Inf(1), nil
		}
		numeric = text[1:]
	case 'n':
		if text == "null" {
			return nil, nil
		}
		return decodeString(value)
	case 't':
		if text == "true" {
			return true, nil
		}
		return decodeString(value)
	case 'f':
		if text == "false" {
			return false, nil
		}
		return decodeString(value)
	}

	if numeric != "" && (numeric[0] == '.' || numeric[0] >= '0' && numeric[0] <= '9') {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(text, 10, 64); err == nil {
			return u, nil
		}
		// ParseFloat understands hex floats and '_' grouping; the scalar
		// grammar here does not. A range error still consumed the whole
		// text, so the IEEE overflow value stands.
		if !strings.ContainsAny(text, "xX_") {
			f, err := strconv.ParseFloat(text, 64)
			if err == nil || errors.Is(err, strconv.ErrRange) {
				return f, nil
			}
		}
	}

	return decodeString(value)
}

func decodeString(value []byte) (any, error) {
	if !utf8.Valid(value) {
		return nil, &DecodeError{}
	}
	return string(value), nil
}
