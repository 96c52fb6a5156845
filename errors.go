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

import "fmt"

// StructuralError reports an event observed where the stream, document, or
// node grammar required a different one. All errors abort the Parse call;
// there is no recovery or partial result.
type StructuralError struct {
	Expected string // event kind the grammar required
	Found    string // event kind observed
	Line     int    // 1-based line of the offending event, 0 if unknown
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("yaml: line %d: expected %s event but found %s", e.Line, e.Expected, e.Found)
	}
	return fmt.Sprintf("yaml: expected %s event but found %s", e.Expected, e.Found)
}

// UndefinedAnchorError reports an alias referencing an anchor never
// registered in the current document.
type UndefinedAnchorError struct {
	Anchor string
}

func (e *UndefinedAnchorError) Error() string {
	return fmt.Sprintf("yaml: unknown anchor '%s' referenced", e.Anchor)
}

// KeyError reports a mapping key of an uncomparable type. The built-in
// containers never produce one; a caller-injected TagFunc can, by rewriting
// a node in key position into a slice, map, or function value.
type KeyError struct {
	Key any
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("yaml: invalid mapping key of uncomparable type %T", e.Key)
}

// TagError reports a failure of the tag hook for a tagged node.
type TagError struct {
	Tag string
	Err error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("yaml: cannot resolve tag %s: %v", e.Tag, e.Err)
}

func (e *TagError) Unwrap() error { return e.Err }

// DecodeError reports a scalar whose bytes are not valid UTF-8.
type DecodeError struct {
	Line   int
	Column int
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("yaml: line %d: scalar is not valid UTF-8", e.Line)
	}
	return "yaml: scalar is not valid UTF-8"
}
