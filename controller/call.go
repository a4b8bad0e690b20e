package controller

import (
	"encoding/json"
	"fmt"

	"github.com/anthillplatform/gameserver-go/pkg"
	"github.com/anthillplatform/gameserver-go/protocol"
)

// Every call below reports its outcome through done exactly once, after the
// Controller Service replies, from inside Poll. A returned error means the
// call was never issued and done will not be invoked. done may be nil.

// Initialize tells the Controller Service the server is ready to accept
// players, optionally publishing the initial room settings. The status
// handler is installed before the call goes out.
func (c *Controller) Initialize(settings protocol.RoomSettings, done func(success bool)) error {
	c.registerStatusHandler()
	c.phase = PhaseInitializing

	return c.rpc.Request(protocol.Inited, protocol.NewInitedRequest(settings),
		func(result json.RawMessage) {
			c.logger.Infof("inited: %s", result)
			c.phase = PhaseActive
			resolve(done, true)
		},
		func(code int, message string, data string) {
			c.logger.Errorf("error while inited: %d %s %s", code, message, data)
			resolve(done, false)
		})
}

// Joined admits a player by registration key without token extension.
func (c *Controller) Joined(key string, done func(AdmissionResult)) error {
	return c.AdmitPlayer(AdmissionRequest{Key: key}, done)
}

// AdmitPlayer asks the Controller Service to admit a player. It fails
// immediately with pkg.ErrNoLoginService when no login service was supplied.
func (c *Controller) AdmitPlayer(req AdmissionRequest, done func(AdmissionResult)) error {
	if c.login == nil {
		return pkg.ErrNoLoginService
	}
	if req.Key == "" {
		return fmt.Errorf("%w: registration key is required", pkg.ErrRequestInvalid)
	}

	service := c.login
	return c.rpc.Request(protocol.Joined, req.params(),
		func(raw json.RawMessage) {
			result, err := decodeAdmission(service, raw)
			if err != nil {
				c.logger.Errorf("error while joining: %v", err)
				resolveAdmission(done, AdmissionResult{})
				return
			}
			resolveAdmission(done, result)
		},
		func(code int, message string, data string) {
			c.logger.Errorf("error while joining: %d %s %s", code, message, data)
			resolveAdmission(done, AdmissionResult{})
		})
}

// RemovePlayer tells the Controller Service a player has left.
func (c *Controller) RemovePlayer(key string, done func(success bool)) error {
	if key == "" {
		return fmt.Errorf("%w: registration key is required", pkg.ErrRequestInvalid)
	}

	return c.rpc.Request(protocol.Left, protocol.NewLeftRequest(key),
		func(json.RawMessage) {
			resolve(done, true)
		},
		func(code int, message string, data string) {
			c.logger.Errorf("error to leave the player: %d %s %s", code, message, data)
			resolve(done, false)
		})
}

// UpdateRoomSettings replaces the room settings the Controller Service
// advertises. settings is only read.
func (c *Controller) UpdateRoomSettings(settings protocol.RoomSettings, done func(success bool)) error {
	return c.rpc.Request(protocol.UpdateSettings, protocol.NewUpdateSettingsRequest(settings),
		func(json.RawMessage) {
			resolve(done, true)
		},
		func(code int, message string, data string) {
			c.logger.Errorf("error to update settings: %d %s %s", code, message, data)
			resolve(done, false)
		})
}

// CheckDeployment asks whether this server still runs the current game
// version. A failure usually means the server should drain and exit.
func (c *Controller) CheckDeployment(done func(upToDate bool)) error {
	return c.rpc.Request(protocol.CheckDeployment, protocol.NewCheckDeploymentRequest(),
		func(json.RawMessage) {
			c.logger.Infof("deployment is up to date")
			resolve(done, true)
		},
		func(code int, message string, data string) {
			c.logger.Errorf("deployment check failed: %d %s %s", code, message, data)
			resolve(done, false)
		})
}

func resolve(done func(bool), success bool) {
	if done != nil {
		done(success)
	}
}

func resolveAdmission(done func(AdmissionResult), result AdmissionResult) {
	if done != nil {
		done(result)
	}
}
