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
	"strings"

	"github.com/elliotchance/orderedmap"
)

// Sequence is a materialized YAML sequence. It is always handled through a
// pointer: anchors are registered before children are appended, so an alias
// taken while the sequence is still being built must observe later appends.
type Sequence struct {
	Items []any
}

// Len returns the number of items in the sequence.
func (s *Sequence) Len() int { return len(s.Items) }

// Mapping is a materialized YAML mapping. Lookup is by key equality, while
// Keys and Front iterate in document order.
type Mapping struct {
	*orderedmap.OrderedMap
}

// NewMapping returns an empty Mapping.
func NewMapping() Mapping {
	return Mapping{OrderedMap: orderedmap.NewOrderedMap()}
}

// OrderedMapping is the container built for sequences tagged !!omap. It
// behaves like Mapping but is a distinct type so callers can tell an omap
// apart from a plain mapping.
type OrderedMapping struct {
	*orderedmap.OrderedMap
}

// NewOrderedMapping returns an empty OrderedMapping.
func NewOrderedMapping() OrderedMapping {
	return OrderedMapping{OrderedMap: orderedmap.NewOrderedMap()}
}

// OrderedMap is the contract for containers built from !!omap sequences:
// keyed insertion that preserves insertion order. OrderedMapping satisfies
// it; callers may substitute their own container via WithOrderedMapFunc.
type OrderedMap interface {
	Set(key, value any) bool
}

// Tagged wraps a value whose explicit tag had no native representation.
// It is produced by DefaultTag; a custom TagFunc may return anything.
type Tagged struct {
	Tag   string
	Value any
}

const coreTagPrefix = "tag:yaml.org,2002:"

// omapTag on a sequence start event triggers the ordered-mapping form.
const omapTag = coreTagPrefix + "omap"

// DefaultTag is the tag hook used when none is injected. Core-schema tags
// pass through untouched; any other tag wraps the value in a Tagged.
func DefaultTag(tag string, value any) (any, error) {
	if strings.HasPrefix(tag, coreTagPrefix) {
		return value, nil
	}
	return &Tagged{Tag: tag, Value: value}, nil
}
