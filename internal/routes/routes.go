package routes

const (
	// Health
	Health = "/health"

	// Display registry
	Displays         = "/api/v1/displays"
	DisplayHeartbeat = "/api/v1/displays/{displayID}/heartbeat"

	// Kiosk read surface (public)
	KioskView    = "/api/v1/kiosk/{buildingID}"
	KioskRefresh = "/api/v1/kiosk/{buildingID}/refresh"

	// Live assembly management (operator JWT required)
	AgendaItemStart      = "/api/v1/kiosk/{buildingID}/assembly/agenda/{order}/start"
	AgendaItemComplete   = "/api/v1/kiosk/{buildingID}/assembly/agenda/{order}/complete"
	AgendaItemSuggestion = "/api/v1/kiosk/{buildingID}/assembly/agenda/{order}/suggested-decision"
	AssemblyEnd          = "/api/v1/kiosk/{buildingID}/assembly/end"
)
