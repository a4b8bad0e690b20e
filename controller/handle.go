package controller

import (
	"encoding/json"

	"github.com/anthillplatform/gameserver-go/protocol"
)

// registerStatusHandler installs the status handler. The engine keeps one
// handler per method, so a repeated registration replaces the previous one.
func (c *Controller) registerStatusHandler() {
	c.rpc.AddHandler(protocol.Status, c.handleRequestWithStatus)
	c.statusRegistered = true
}

func (c *Controller) handleRequestWithStatus(json.RawMessage) (interface{}, error) {
	return protocol.NewStatusResult(c.status()), nil
}
