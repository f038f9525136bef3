package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Engine Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryBuilder,
		Message:  "Unknown node type",
		Detail:   "CreateNode accepts a tag name (string) or a *ComponentType created with DefineComponent.",
	},
	"E002": {
		Category: CategoryMount,
		Message:  "Invalid event handler",
		Detail:   "Attributes named on<Event> must hold a func(), a func(host.Event) or a host.Handler.",
	},
	"E003": {
		Category: CategoryLifecycle,
		Message:  "Lifecycle violation",
		Detail:   "State was updated on a component that is not mounted.",
	},
	"E004": {
		Category: CategoryReconcile,
		Message:  "Unsupported shrink",
		Detail:   "The new render has fewer children than the mounted one and the shrink policy rejects it.",
	},
	"E005": {
		Category: CategoryMount,
		Message:  "Host mutation failed",
		Detail:   "The host document rejected a mutation requested by the engine.",
	},
	"E006": {
		Category: CategoryMount,
		Message:  "Range out of bounds",
		Detail:   "A range addressed offsets outside its parent's current children.",
	},

	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is outside its allowed set.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "The configuration file exists but could not be read or parsed.",
	},

	// ============================================
	// Surface Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategorySnapshot,
		Message:  "Snapshot store failure",
		Detail:   "The rendered document could not be written to the snapshot store.",
	},
	"E202": {
		Category: CategoryLive,
		Message:  "Live session not found",
		Detail:   "The session ID is unknown or the session has been closed.",
	},
	"E203": {
		Category: CategoryLive,
		Message:  "Event target not found",
		Detail:   "The event named a node that has no registered listener in this document.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
