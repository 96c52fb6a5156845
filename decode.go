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
	"reflect"

	"github.com/fastyaml/fastyaml/internal/parserc"
	"github.com/fastyaml/fastyaml/internal/yamlh"
)

// ----------------------------------------------------------------------------
// Loader, materializes values out of a libyaml event stream.

// eventSource supplies the loader with one event at a time. The production
// source wraps the scanner; tests feed canned streams.
type eventSource interface {
	next() (*yamlh.Event, error)
}

type streamSource struct {
	parser *parserc.YamlParser
}

func (s *streamSource) next() (*yamlh.Event, error) {
	return parserc.Parse(s.parser)
}

type loader struct {
	source  eventSource
	event   *yamlh.Event // single-event lookahead
	anchors map[string]any
	tagFn   TagFunc
	omapFn  OrderedMapFunc
}

func newLoader(source eventSource, opts ...Option) *loader {
	l := &loader{
		source: source,
		tagFn:  DefaultTag,
		omapFn: func() OrderedMap { return NewOrderedMapping() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// peek fills the lookahead slot if needed and returns the next event's type.
// Tail comment events are discarded here: comments are not materialized.
func (l *loader) peek() (yamlh.EventType, error) {
	if l.event != nil {
		return l.event.Type, nil
	}
	for {
		event, err := l.source.next()
		if err != nil {
			return yamlh.NO_EVENT, err
		}
		if event.Type == yamlh.TAIL_COMMENT_EVENT {
			continue
		}
		l.event = event
		return event.Type, nil
	}
}

// expect consumes the next event, failing if it is not of the wanted type.
func (l *loader) expect(want yamlh.EventType) error {
	typ, err := l.peek()
	if err != nil {
		return err
	}
	if typ != want {
		return l.structural(want.String())
	}
	l.event = nil
	return nil
}

// structural reports the event in the lookahead slot as a grammar violation.
func (l *loader) structural(expected string) error {
	e := &StructuralError{Expected: expected, Found: yamlh.NO_EVENT.String()}
	if l.event != nil {
		e.Found = l.event.Type.String()
		e.Line = l.event.Start_mark.Line + 1
	}
	return e
}

// applyTag routes a non-empty tag through the tag hook. The hook runs before
// anchor registration so an alias always resolves to the tagged form.
func (l *loader) applyTag(tag string, v any) (any, error) {
	if tag == "" {
		return v, nil
	}
	out, err := l.tagFn(tag, v)
	if err != nil {
		return nil, &TagError{Tag: tag, Err: err}
	}
	return out, nil
}

// key builds the next node and verifies it can serve as a mapping key.
// Every value the builder produces itself is comparable, but a tag hook may
// rewrite a key node into something that would panic the map insert.
func (l *loader) key() (any, error) {
	k, err := l.node()
	if err != nil {
		return nil, err
	}
	if k != nil && !reflect.ValueOf(k).Comparable() {
		return nil, &KeyError{Key: k}
	}
	return k, nil
}

// anchor registers v under name. Re-registering overwrites: an alias sees
// the most recently registered value. A registered nil (null scalar) is
// still distinguishable from an unknown anchor.
func (l *loader) anchor(name string, v any) {
	if name != "" {
		l.anchors[name] = v
	}
}

// load runs the outer stream grammar: stream start, document start, one root
// node, document end. Only the first document is materialized; a second
// document start after that is a scope boundary, not an error, and is left
// unread.
func (l *loader) load() (any, error) {
	if err := l.expect(yamlh.STREAM_START_EVENT); err != nil {
		return nil, err
	}
	if err := l.expect(yamlh.DOCUMENT_START_EVENT); err != nil {
		return nil, err
	}
	l.anchors = make(map[string]any)
	root, err := l.node()
	if err != nil {
		return nil, err
	}
	if err := l.expect(yamlh.DOCUMENT_END_EVENT); err != nil {
		return nil, err
	}
	l.anchors = nil
	typ, err := l.peek()
	if err != nil {
		return nil, err
	}
	if typ != yamlh.STREAM_END_EVENT && typ != yamlh.DOCUMENT_START_EVENT {
		return nil, l.structural(yamlh.STREAM_END_EVENT.String())
	}
	return root, nil
}

// node builds the next node from the stream. Callers looping over container
// children check for the matching end sentinel before calling it.
func (l *loader) node() (any, error) {
	typ, err := l.peek()
	if err != nil {
		return nil, err
	}
	switch typ {
	case yamlh.ALIAS_EVENT:
		return l.alias()
	case yamlh.SCALAR_EVENT:
		return l.scalar()
	case yamlh.SEQUENCE_START_EVENT:
		return l.sequence()
	case yamlh.MAPPING_START_EVENT:
		return l.mapping()
	default:
		return nil, l.structural("node")
	}
}

func (l *loader) alias() (any, error) {
	name := string(l.event.Anchor)
	v, ok := l.anchors[name]
	if !ok {
		return nil, &UndefinedAnchorError{Anchor: name}
	}
	if err := l.expect(yamlh.ALIAS_EVENT); err != nil {
		return nil, err
	}
	return v, nil
}

func (l *loader) scalar() (any, error) {
	event := l.event
	v, err := resolveScalar(event.Value, event.Scalar_style())
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Line = event.Start_mark.Line + 1
			decodeErr.Column = event.Start_mark.Column + 1
		}
		return nil, err
	}
	v, err = l.applyTag(string(event.Tag), v)
	if err != nil {
		return nil, err
	}
	l.anchor(string(event.Anchor), v)
	if err := l.expect(yamlh.SCALAR_EVENT); err != nil {
		return nil, err
	}
	return v, nil
}

func (l *loader) sequence() (any, error) {
	event := l.event
	if string(event.Tag) == omapTag {
		return l.orderedMapping()
	}
	seq := &Sequence{}
	v, err := l.applyTag(string(event.Tag), seq)
	if err != nil {
		return nil, err
	}
	// Register before the children exist so a child may alias the container.
	l.anchor(string(event.Anchor), v)
	if err := l.expect(yamlh.SEQUENCE_START_EVENT); err != nil {
		return nil, err
	}
	for {
		typ, err := l.peek()
		if err != nil {
			return nil, err
		}
		if typ == yamlh.SEQUENCE_END_EVENT {
			break
		}
		item, err := l.node()
		if err != nil {
			return nil, err
		}
		seq.Items = append(seq.Items, item)
	}
	if err := l.expect(yamlh.SEQUENCE_END_EVENT); err != nil {
		return nil, err
	}
	return v, nil
}

func (l *loader) mapping() (any, error) {
	event := l.event
	m := NewMapping()
	v, err := l.applyTag(string(event.Tag), m)
	if err != nil {
		return nil, err
	}
	l.anchor(string(event.Anchor), v)
	if err := l.expect(yamlh.MAPPING_START_EVENT); err != nil {
		return nil, err
	}
	for {
		typ, err := l.peek()
		if err != nil {
			return nil, err
		}
		if typ == yamlh.MAPPING_END_EVENT {
			break
		}
		key, err := l.key()
		if err != nil {
			return nil, err
		}
		value, err := l.node()
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
	}
	if err := l.expect(yamlh.MAPPING_END_EVENT); err != nil {
		return nil, err
	}
	return v, nil
}

// orderedMapping builds the container for a sequence tagged !!omap, which is
// encoded on the wire as a sequence of single-entry mappings. That shape is
// load-bearing: anything other than a single-entry mapping per sequence item
// is a structural error.
func (l *loader) orderedMapping() (any, error) {
	event := l.event
	om := l.omapFn()
	v, err := l.applyTag(string(event.Tag), om)
	if err != nil {
		return nil, err
	}
	l.anchor(string(event.Anchor), v)
	if err := l.expect(yamlh.SEQUENCE_START_EVENT); err != nil {
		return nil, err
	}
	for {
		typ, err := l.peek()
		if err != nil {
			return nil, err
		}
		if typ == yamlh.SEQUENCE_END_EVENT {
			break
		}
		if err := l.expect(yamlh.MAPPING_START_EVENT); err != nil {
			return nil, err
		}
		key, err := l.key()
		if err != nil {
			return nil, err
		}
		value, err := l.node()
		if err != nil {
			return nil, err
		}
		om.Set(key, value)
		if err := l.expect(yamlh.MAPPING_END_EVENT); err != nil {
			return nil, err
		}
	}
	if err := l.expect(yamlh.SEQUENCE_END_EVENT); err != nil {
		return nil, err
	}
	return v, nil
}
