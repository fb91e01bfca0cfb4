package codec

import (
	"errors"

	"github.com/angristan/tradfri-tui/internal/models"
)

var errMissingID = errors.New("missing instance id (9003)")

// deviceInfoResource is the device information block (3)
type deviceInfoResource struct {
	Manufacturer string `mapstructure:"0"`
	Model        string `mapstructure:"1"`
	Firmware     string `mapstructure:"3"`
}

// lightControlResource is one entry of the light control array (3311)
type lightControlResource struct {
	Power      *int    `mapstructure:"5850"`
	Brightness *int    `mapstructure:"5851"`
	ColorHex   *string `mapstructure:"5706"`
	Mired      *int    `mapstructure:"5711"`
}

// deviceResource is the device object returned by 15001/{id}
type deviceResource struct {
	Name         string                 `mapstructure:"9001"`
	ID           *int                   `mapstructure:"9003"`
	Info         *deviceInfoResource    `mapstructure:"3"`
	LightControl []lightControlResource `mapstructure:"3311"`
}

func (r *deviceResource) toModel() *models.Device {
	device := &models.Device{
		ID:   *r.ID,
		Name: r.Name,
	}
	if r.Info != nil {
		device.Manufacturer = r.Info.Manufacturer
		device.Model = r.Info.Model
		device.Firmware = r.Info.Firmware
	}

	// Only the first light control entry is meaningful for bulbs
	if len(r.LightControl) > 0 {
		lc := r.LightControl[0]
		light := &models.LightControl{
			ColorHex:     lc.ColorHex,
			Mired:        lc.Mired,
			ColorCapable: models.IsColorModel(device.Model),
		}
		if lc.Power != nil {
			light.Power = models.PowerState(*lc.Power)
		}
		if lc.Brightness != nil {
			light.Brightness = *lc.Brightness
		} else {
			light.BrightnessUnknown = true
		}
		device.LightControl = light
	}

	return device
}

// groupMembersResource is the member block (9018) of a group
type groupMembersResource struct {
	Devices *struct {
		IDs []int `mapstructure:"9003"`
	} `mapstructure:"15002"`
}

// groupResource is the group object returned by 15004/{id}
type groupResource struct {
	Name       string                `mapstructure:"9001"`
	ID         *int                  `mapstructure:"9003"`
	Power      *int                  `mapstructure:"5850"`
	Brightness *int                  `mapstructure:"5851"`
	Members    *groupMembersResource `mapstructure:"9018"`
}

func (r *groupResource) toModel() *models.Group {
	group := &models.Group{
		ID:         *r.ID,
		Name:       r.Name,
		Brightness: r.Brightness,
	}
	if r.Power != nil {
		group.Power = models.PowerState(*r.Power)
	}
	if r.Members != nil && r.Members.Devices != nil {
		group.DeviceIDs = r.Members.Devices.IDs
	}
	return group
}

// DecodeDevice decodes a device response into the typed model
func DecodeDevice(raw []byte) (*models.Device, error) {
	obj, line, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	var res deviceResource
	if err := project(obj, &res); err != nil {
		return nil, &DecodeError{Line: line, Err: err}
	}
	if res.ID == nil {
		return nil, &DecodeError{Line: line, Err: errMissingID}
	}
	return res.toModel(), nil
}

// DecodeGroup decodes a group response into the typed model
func DecodeGroup(raw []byte) (*models.Group, error) {
	obj, line, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	var res groupResource
	if err := project(obj, &res); err != nil {
		return nil, &DecodeError{Line: line, Err: err}
	}
	if res.ID == nil {
		return nil, &DecodeError{Line: line, Err: errMissingID}
	}
	return res.toModel(), nil
}
