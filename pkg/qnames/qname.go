/*
 * Copyright (c) 2023-present Sigma-Soft, Ltd.
 */

package qnames

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	// Used as delimiter between segments of a qualified name
	QNameQualifierChar = "."
)

// Null (empty) QName
var NullQName = QName{}

// QName is a dotted, multi-segment name of a catalog object.
//
// A QName with two or more segments names a relation inside the namespace
// formed by all segments but the last; a QName may also name a namespace
// itself. The canonical string form joins segments with QNameQualifierChar.
//
// QName is an immutable value type and can be used as a map key.
type QName struct {
	path string
}

// Builds a qualified name from segments.
//
// Segments must not be empty and must not contain the delimiter, so that
// String() and Parse() stay exact inverses.
func New(parts ...string) (QName, error) {
	if len(parts) == 0 {
		return NullQName, fmt.Errorf("%w: no segments", ErrMalformedName)
	}
	for _, p := range parts {
		if err := validSegment(p); err != nil {
			return NullQName, err
		}
	}
	return QName{path: strings.Join(parts, QNameQualifierChar)}, nil
}

// Parse a qualified name from string
func Parse(val string) (QName, error) {
	if val == "" {
		return NullQName, fmt.Errorf("%w: empty string", ErrMalformedName)
	}
	for _, p := range strings.Split(val, QNameQualifierChar) {
		if p == "" {
			return NullQName, fmt.Errorf("%w: empty segment in «%s»", ErrMalformedName, val)
		}
	}
	return QName{path: val}, nil
}

// Parse a qualified name from string.
//
// # Panics:
//   - if string is not a valid qualified name
func MustParse(val string) QName {
	q, err := Parse(val)
	if err != nil {
		panic(err)
	}
	return q
}

// Returns QName as string
func (qn QName) String() string { return qn.path }

// Returns true for NullQName
func (qn QName) IsNull() bool { return qn == NullQName }

// Returns name segments. NullQName has no segments
func (qn QName) Parts() []string {
	if qn.IsNull() {
		return nil
	}
	return strings.Split(qn.path, QNameQualifierChar)
}

// Returns segments count
func (qn QName) NumParts() int {
	if qn.IsNull() {
		return 0
	}
	return strings.Count(qn.path, QNameQualifierChar) + 1
}

// Returns the final segment, the relation (or leaf namespace) name
func (qn QName) Entity() string {
	if i := strings.LastIndex(qn.path, QNameQualifierChar); i >= 0 {
		return qn.path[i+1:]
	}
	return qn.path
}

// Returns the name without its final segment.
//
// Single-segment names belong to the top level, their namespace is NullQName.
func (qn QName) Namespace() QName {
	if i := strings.LastIndex(qn.path, QNameQualifierChar); i >= 0 {
		return QName{path: qn.path[:i]}
	}
	return NullQName
}

// Returns the qualified name of leaf inside namespace qn.
//
// Appending to NullQName makes a top-level single-segment name.
func (qn QName) Append(leaf string) (QName, error) {
	if err := validSegment(leaf); err != nil {
		return NullQName, err
	}
	if qn.IsNull() {
		return QName{path: leaf}, nil
	}
	return QName{path: qn.path + QNameQualifierChar + leaf}, nil
}

// Compare two qualified names segment-wise
func Compare(a, b QName) int {
	if a == b {
		return 0
	}
	ap, bp := a.Parts(), b.Parts()
	for i := 0; i < len(ap) && i < len(bp); i++ {
		if c := strings.Compare(ap[i], bp[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ap) < len(bp):
		return -1
	case len(ap) > len(bp):
		return 1
	}
	return 0
}

// JSON marshaling support
func (qn QName) MarshalJSON() ([]byte, error) {
	return json.Marshal(qn.path)
}

// need to marshal map[QName]any
func (qn QName) MarshalText() (text []byte, err error) {
	var js []byte
	if js, err = json.Marshal(qn.path); err == nil {
		var res string
		if res, err = strconv.Unquote(string(js)); err == nil {
			text = []byte(res)
		}
	}
	return text, err
}

// JSON unmarshaling support
func (qn *QName) UnmarshalJSON(text []byte) (err error) {
	*qn = QName{}

	str, err := strconv.Unquote(string(text))
	if err != nil {
		return err
	}
	*qn, err = Parse(str)
	return err
}

// need unmarshal map[QName]any
// golang json looks on UnmarshalText presence only on unmarshal map[QName]any. UnmarshalJSON() will be used anyway
// but no UnmarshalText -> fail to unmarshal map[QName]any
// see https://github.com/golang/go/issues/29732
func (qn *QName) UnmarshalText(text []byte) (err error) {
	return nil
}

func validSegment(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty segment", ErrMalformedName)
	}
	if strings.Contains(s, QNameQualifierChar) {
		return fmt.Errorf("%w: segment «%s» contains «%s»", ErrMalformedName, s, QNameQualifierChar)
	}
	return nil
}

// Slice of QNames.
//
// Slice is sorted and has no duplicates.
//
// Use QNamesFrom() to create QNames slice from variadic arguments.
// Use Add() to add QNames to slice.
// Use Contains() and Find() to search for QName in slice.
type QNames []QName

// Returns slice of QNames from variadic arguments.
//
// Result slice is sorted and has no duplicates.
func QNamesFrom(n ...QName) QNames {
	qq := QNames{}
	qq.Add(n...)
	return qq
}

// Returns slice of QNames from map keys.
//
// Result slice is sorted and has no duplicates.
func QNamesFromMap[V any, M ~map[QName]V](m M) QNames {
	qq := QNames{}
	for k := range m {
		qq.Add(k)
	}
	return qq
}

// Adds QNames to slice. Duplicate values are ignored. Result slice is sorted.
func (qns *QNames) Add(n ...QName) {
	for _, q := range n {
		if i, ok := qns.Find(q); !ok {
			*qns = slices.Insert(*qns, i, q)
		}
	}
}

// Returns true if slice contains specified QName
func (qns QNames) Contains(n QName) bool {
	_, ok := qns.Find(n)
	return ok
}

// Returns index of QName in slice and true if found.
func (qns QNames) Find(n QName) (int, bool) {
	return slices.BinarySearchFunc(qns, n, Compare)
}

// JSON unmarshaling support. Result slice is sorted and has no duplicates.
func (qns *QNames) UnmarshalJSON(text []byte) error {
	names := []QName{}
	if err := json.Unmarshal(text, &names); err != nil {
		return err
	}
	*qns = QNamesFrom(names...)
	return nil
}
