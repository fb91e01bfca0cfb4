package codec

import (
	"encoding/json"
	"errors"
)

// Gateway resource keys
const (
	KeyLightControl   = "3311"
	KeyDeviceInfo     = "3"
	KeyName           = "9001"
	KeyInstanceID     = "9003"
	KeyOnOff          = "5850"
	KeyDimmer         = "5851"
	KeyColorHex       = "5706"
	KeyColorMired     = "5711"
	KeyTransitionTime = "5712"
	KeyIdentity       = "9090"
	KeyPreSharedKey   = "9091"
)

// ErrEmptyControl is returned when a control payload would carry no fields
var ErrEmptyControl = errors.New("control payload has no fields")

// LightControlFields are the writable fields of a bulb's light control block.
// Nil fields are omitted from the payload.
type LightControlFields struct {
	Power          *int    `json:"5850,omitempty"`
	Brightness     *int    `json:"5851,omitempty"`
	ColorHex       *string `json:"5706,omitempty"`
	TransitionTime *int    `json:"5712,omitempty"`
}

// GroupControlFields are the writable fields of a group
type GroupControlFields struct {
	Power      *int `json:"5850,omitempty"`
	Brightness *int `json:"5851,omitempty"`
}

type lightControlPayload struct {
	LightControl []LightControlFields `json:"3311"`
}

type authPayload struct {
	Identity string `json:"9090"`
}

// EncodeLightControl wraps the fields in the light control array of a device
func EncodeLightControl(f LightControlFields) ([]byte, error) {
	if f.Power == nil && f.Brightness == nil && f.ColorHex == nil && f.TransitionTime == nil {
		return nil, ErrEmptyControl
	}
	return json.Marshal(lightControlPayload{LightControl: []LightControlFields{f}})
}

// EncodeGroupControl encodes the flat group control fields
func EncodeGroupControl(f GroupControlFields) ([]byte, error) {
	if f.Power == nil && f.Brightness == nil {
		return nil, ErrEmptyControl
	}
	return json.Marshal(f)
}

// EncodeAuthRequest encodes the identity claim sent during authentication
func EncodeAuthRequest(identity string) ([]byte, error) {
	return json.Marshal(authPayload{Identity: identity})
}

// Int returns a pointer to v, for building control fields
func Int(v int) *int {
	return &v
}

// String returns a pointer to v, for building control fields
func String(v string) *string {
	return &v
}
