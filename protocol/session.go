package protocol

// RoomSettings is the free-form settings object of a room. It is only ever
// serialized, never modified.
type RoomSettings map[string]interface{}

type InitedRequest struct {
	Settings RoomSettings `json:"settings,omitempty"`
}

func NewInitedRequest(settings RoomSettings) *InitedRequest {
	return &InitedRequest{Settings: settings}
}

// JoinedRequest asks the Controller Service to admit a player by its
// registration key. ExtendToken and ExtendScopes are either both set or both
// empty.
type JoinedRequest struct {
	Key          string `json:"key"`
	ExtendToken  string `json:"extend_token,omitempty"`
	ExtendScopes string `json:"extend_scopes,omitempty"`
}

func NewJoinedRequest(key string) *JoinedRequest {
	return &JoinedRequest{Key: key}
}

// WithExtension sets both extension fields at once.
func (r *JoinedRequest) WithExtension(token string, scopes string) *JoinedRequest {
	r.ExtendToken = token
	r.ExtendScopes = scopes
	return r
}

// Field names of the joined reply.
const (
	JoinedAccessToken = "access_token"
	JoinedScopes      = "scopes"
	JoinedAccount     = "account"
	JoinedCredential  = "credential"
	JoinedInfo        = "info"
)

type LeftRequest struct {
	Key string `json:"key"`
}

func NewLeftRequest(key string) *LeftRequest {
	return &LeftRequest{Key: key}
}

type UpdateSettingsRequest struct {
	Settings RoomSettings `json:"settings"`
}

func NewUpdateSettingsRequest(settings RoomSettings) *UpdateSettingsRequest {
	return &UpdateSettingsRequest{Settings: settings}
}

type CheckDeploymentRequest struct{}

func NewCheckDeploymentRequest() *CheckDeploymentRequest {
	return &CheckDeploymentRequest{}
}

type StatusResult struct {
	Status string `json:"status"`
}

func NewStatusResult(status string) *StatusResult {
	return &StatusResult{Status: status}
}
