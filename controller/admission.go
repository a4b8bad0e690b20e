package controller

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/anthillplatform/gameserver-go/login"
	"github.com/anthillplatform/gameserver-go/pkg"
	"github.com/anthillplatform/gameserver-go/protocol"
)

// AdmissionRequest describes a player asking to join the room.
//
// ExtendToken and ExtendScopes only take effect together: the player's token
// is extended with ExtendScopes using ExtendToken as the master token. If
// either one is missing or empty, no extension is requested at all.
type AdmissionRequest struct {
	Key          string
	ExtendToken  *login.AccessToken
	ExtendScopes login.Scopes
}

func (r AdmissionRequest) params() *protocol.JoinedRequest {
	params := protocol.NewJoinedRequest(r.Key)
	if r.ExtendToken.Get() != "" && r.ExtendScopes.Len() > 0 {
		params.WithExtension(r.ExtendToken.Get(), r.ExtendScopes.String())
	}
	return params
}

// AdmissionResult is the outcome of AdmitPlayer. When Success is false every
// other field is nil.
type AdmissionResult struct {
	Success bool

	Token  *login.AccessToken
	Scopes login.Scopes

	// Account and Credential are nil when the Controller Service omits them.
	Account    *string
	Credential *string

	// Info is nil unless the reply carries a JSON object under "info".
	Info map[string]interface{}
}

func decodeAdmission(service login.Service, raw json.RawMessage) (AdmissionResult, error) {
	if !gjson.ValidBytes(raw) {
		return AdmissionResult{}, fmt.Errorf("%w: reply is not json", pkg.ErrDecodeResponse)
	}

	token := gjson.GetBytes(raw, protocol.JoinedAccessToken)
	if token.Type != gjson.String {
		return AdmissionResult{}, fmt.Errorf("%w: %s must be a string", pkg.ErrDecodeResponse, protocol.JoinedAccessToken)
	}

	scopes, err := decodeScopes(gjson.GetBytes(raw, protocol.JoinedScopes))
	if err != nil {
		return AdmissionResult{}, err
	}

	result := AdmissionResult{
		Success:    true,
		Token:      service.NewAccessToken(token.Str),
		Scopes:     scopes,
		Account:    optionalString(gjson.GetBytes(raw, protocol.JoinedAccount)),
		Credential: optionalString(gjson.GetBytes(raw, protocol.JoinedCredential)),
	}

	if info := gjson.GetBytes(raw, protocol.JoinedInfo); info.IsObject() {
		if err := pkg.JSONUnmarshal([]byte(info.Raw), &result.Info); err != nil {
			return AdmissionResult{}, fmt.Errorf("%w: %s: %v", pkg.ErrDecodeResponse, protocol.JoinedInfo, err)
		}
	}
	return result, nil
}

// A reply without a scope list breaks the joined contract and is rejected
// rather than read as an empty set.
func decodeScopes(value gjson.Result) (login.Scopes, error) {
	if !value.IsArray() {
		return nil, fmt.Errorf("%w: %s must be an array", pkg.ErrDecodeResponse, protocol.JoinedScopes)
	}

	scopes := login.NewScopes()
	for _, item := range value.Array() {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("%w: %s must hold strings, got %s", pkg.ErrDecodeResponse, protocol.JoinedScopes, item.Raw)
		}
		scopes.Add(item.Str)
	}
	return scopes, nil
}

func optionalString(value gjson.Result) *string {
	switch value.Type {
	case gjson.String, gjson.Number:
		s := value.String()
		return &s
	default:
		return nil
	}
}
