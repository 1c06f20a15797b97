package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the variant held by a Document.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
)

// Document is a tagged tree value representing one nested result document
// from the store: string keys, scalar/null leaves, lists and sub-objects.
// Modelling results as a closed union (rather than raw JSON blobs) lets the
// shaper check its projection contract instead of trusting the wire.
//
// The zero value is the null document.
type Document struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Document
	obj  map[string]Document
}

// Null returns the null document.
func Null() Document { return Document{} }

// NewString wraps a string leaf.
func NewString(s string) Document { return Document{kind: KindString, str: s} }

// NewNumber wraps a numeric leaf.
func NewNumber(n float64) Document { return Document{kind: KindNumber, num: n} }

// NewBool wraps a boolean leaf.
func NewBool(v bool) Document { return Document{kind: KindBool, b: v} }

// NewList wraps a list of documents.
func NewList(items ...Document) Document { return Document{kind: KindList, list: items} }

// NewObject wraps a string-keyed object.
func NewObject(fields map[string]Document) Document { return Document{kind: KindObject, obj: fields} }

// Kind reports which variant the document holds.
func (d Document) Kind() Kind { return d.kind }

// IsNull reports whether the document is the null document.
func (d Document) IsNull() bool { return d.kind == KindNull }

// Str returns the string value, if the document is a string leaf.
func (d Document) Str() (string, bool) { return d.str, d.kind == KindString }

// Num returns the numeric value, if the document is a number leaf.
func (d Document) Num() (float64, bool) { return d.num, d.kind == KindNumber }

// Boolean returns the boolean value, if the document is a bool leaf.
func (d Document) Boolean() (bool, bool) { return d.b, d.kind == KindBool }

// List returns the elements, if the document is a list.
func (d Document) List() ([]Document, bool) { return d.list, d.kind == KindList }

// Object returns the fields, if the document is an object. The map is the
// document's own storage; callers must not mutate it.
func (d Document) Object() (map[string]Document, bool) { return d.obj, d.kind == KindObject }

// Field returns the named field of an object document. The second result is
// false when the document is not an object or the key is absent; an explicit
// null field returns (Null(), true).
func (d Document) Field(key string) (Document, bool) {
	if d.kind != KindObject {
		return Document{}, false
	}
	v, ok := d.obj[key]
	return v, ok
}

// MarshalJSON renders the document in its natural JSON form.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.native())
}

// UnmarshalJSON parses arbitrary JSON into the tagged form.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	doc, err := fromNative(v)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func (d Document) native() interface{} {
	switch d.kind {
	case KindNull:
		return nil
	case KindString:
		return d.str
	case KindNumber:
		return d.num
	case KindBool:
		return d.b
	case KindList:
		out := make([]interface{}, len(d.list))
		for i, item := range d.list {
			out[i] = item.native()
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, len(d.obj))
		for k, v := range d.obj {
			out[k] = v.native()
		}
		return out
	}
	return nil
}

func fromNative(v interface{}) (Document, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return NewString(val), nil
	case bool:
		return NewBool(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Document{}, fmt.Errorf("store: unrepresentable number %q: %w", val.String(), err)
		}
		return NewNumber(f), nil
	case []interface{}:
		items := make([]Document, len(val))
		for i, item := range val {
			doc, err := fromNative(item)
			if err != nil {
				return Document{}, err
			}
			items[i] = doc
		}
		return Document{kind: KindList, list: items}, nil
	case map[string]interface{}:
		fields := make(map[string]Document, len(val))
		for k, item := range val {
			doc, err := fromNative(item)
			if err != nil {
				return Document{}, err
			}
			fields[k] = doc
		}
		return NewObject(fields), nil
	}
	return Document{}, fmt.Errorf("store: unsupported JSON value of type %T", v)
}
