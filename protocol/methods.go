package protocol

type Method string

// Calls issued by the game server to the Controller Service.
const (
	Inited          Method = "inited"
	Joined          Method = "joined"
	Left            Method = "left"
	UpdateSettings  Method = "update_settings"
	CheckDeployment Method = "check_deployment"
)

// Calls issued by the Controller Service to the game server.
const (
	Status Method = "status"
)
