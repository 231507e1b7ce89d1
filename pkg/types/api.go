package types

// ModelsResponse wraps the list of model identifiers returned by GET /models.
type ModelsResponse struct {
	// Identifiers known to the artifact store.
	// example: ["house-price-v1","demand-forecast-v3"]
	Models []string `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unknown model: house-price-v9
	Error string `json:"error" example:"unknown model: house-price-v9"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// SlotStatus summarizes one resident model for /status.
type SlotStatus struct {
	// Identifier of the model occupying this slot.
	// example: house-price-v1
	ModelID string `json:"model_id" example:"house-price-v1"`
	// Lifecycle state of the slot (ready, evicting).
	// example: ready
	State string `json:"state" example:"ready"`
	// Number of in-flight invocations borrowing this slot.
	// example: 2
	Refs int `json:"refs" example:"2"`
	// Artifact size in bytes (1 when the store reports no size).
	// example: 4096
	SizeBytes int64 `json:"size_bytes" example:"4096"`
	// Last time an invocation acquired this slot (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Resident model slots.
	Slots []SlotStatus `json:"slots"`
	// Configured byte budget (0 = unlimited).
	// example: 1073741824
	CapacityBytes int64 `json:"capacity_bytes" example:"1073741824"`
	// Bytes currently resident.
	// example: 8192
	UsedBytes int64 `json:"used_bytes" example:"8192"`
	// Configured slot-count budget (0 = unlimited).
	// example: 100
	CapacitySlots int `json:"capacity_slots" example:"100"`
	// Whether eviction is enabled.
	// example: true
	EvictionEnabled bool `json:"eviction_enabled" example:"true"`
	// Number of loads waiting on in-flight tickets.
	// example: 0
	PendingLoads int `json:"pending_loads" example:"0"`
	// Total number of successful model loads since start.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Total number of evictions performed to free capacity.
	// example: 5
	EvictionsTotal uint64 `json:"evictions_total" example:"5"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// True once the engine accepts invocations (false while draining).
	// example: true
	Ready bool `json:"ready" example:"true"`
}
