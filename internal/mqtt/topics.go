package mqtt

import (
	"fmt"
	"strings"
)

// Topics builds the topic hierarchy under a root:
//
//	<root>/status
//	<root>/device/<id>/state
//	<root>/group/<id>/state
type Topics struct {
	Root string
}

func (t Topics) root() string {
	return strings.TrimSuffix(t.Root, "/")
}

// Status is the retained online/offline topic, also used as the last will
func (t Topics) Status() string {
	return t.root() + "/status"
}

// DeviceState is the retained state topic of a device
func (t Topics) DeviceState(id int) string {
	return fmt.Sprintf("%s/device/%d/state", t.root(), id)
}

// GroupState is the retained state topic of a group
func (t Topics) GroupState(id int) string {
	return fmt.Sprintf("%s/group/%d/state", t.root(), id)
}
