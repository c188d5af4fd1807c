package jsonrepair

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNotObject   = errors.New("json value is not an object")
	ErrUnparseable = errors.New("json could not be repaired")
)

// Pass names the repair step that produced a parseable document.
type Pass string

const (
	PassRepair       Pass = "repair"
	PassRepairTwice  Pass = "repair_twice"
	PassRepairStrict Pass = "repair_strict"
)

// Decode extracts, repairs and parses an object out of raw model output.
// Numbers stay json.Number so re-encoding keeps their exact text.
func Decode(raw string) (map[string]any, Pass, error) {
	candidate := Repair(Extract(raw))

	doc, err := ParseObject(candidate)
	if err == nil {
		return doc, PassRepair, nil
	}

	again := Repair(candidate)
	if doc, err = ParseObject(again); err == nil {
		return doc, PassRepairTwice, nil
	}

	if doc, err = ParseObject(RepairStrict(fromFirstBrace(again))); err == nil {
		return doc, PassRepairStrict, nil
	}

	return nil, "", fmt.Errorf("%w: %v", ErrUnparseable, err)
}

// fromFirstBrace drops any fence or prose before the first {. Extract keeps
// such a prefix when a truncated reply has no closing brace at all.
func fromFirstBrace(text string) string {
	if i := strings.IndexByte(text, '{'); i > 0 {
		return text[i:]
	}
	return text
}

// ParseObject parses exactly one JSON object with nothing but whitespace
// after it.
func ParseObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}
