package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var errEmptyResponse = errors.New("empty response")

// LastLine isolates the final newline-delimited line of a transport response.
// coap-client prints diagnostic lines before the payload.
func LastLine(raw []byte) string {
	s := strings.TrimRight(string(raw), "\r\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// DecodeResponse parses the last line of a response as JSON
func DecodeResponse(raw []byte) (any, error) {
	line := LastLine(raw)
	if line == "" {
		return nil, &DecodeError{Err: errEmptyResponse}
	}

	var v any
	if err := json.Unmarshal([]byte(line), &v); err != nil {
		return nil, &DecodeError{Line: line, Err: err}
	}
	return v, nil
}

// decodeObject parses the last line and requires a JSON object
func decodeObject(raw []byte) (map[string]any, string, error) {
	v, err := DecodeResponse(raw)
	if err != nil {
		return nil, "", err
	}
	line := LastLine(raw)
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, line, &DecodeError{Line: line, Err: fmt.Errorf("expected object, got %T", v)}
	}
	return obj, line, nil
}

// project copies a loose gateway object into a typed resource struct
func project(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// DecodeIDs decodes a collection response (15001, 15004) into instance IDs
func DecodeIDs(raw []byte) ([]int, error) {
	v, err := DecodeResponse(raw)
	if err != nil {
		return nil, err
	}
	line := LastLine(raw)

	list, ok := v.([]any)
	if !ok {
		return nil, &DecodeError{Line: line, Err: fmt.Errorf("expected array, got %T", v)}
	}

	ids := make([]int, 0, len(list))
	if err := project(list, &ids); err != nil {
		return nil, &DecodeError{Line: line, Err: err}
	}
	return ids, nil
}

// DecodeAuthResponse extracts the issued API key from an authentication response
func DecodeAuthResponse(raw []byte) (string, error) {
	line := LastLine(raw)

	var resp map[string]any
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return "", &AuthError{Response: line}
	}

	key, ok := resp[KeyPreSharedKey].(string)
	if !ok || key == "" {
		return "", &AuthError{Response: line}
	}
	return key, nil
}
