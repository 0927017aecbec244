package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed",
		Detail:   "Hooks must be called unconditionally and in the same order on every render of an instance.",
	},
	"E010": {
		Category: CategoryRuntime,
		Message:  "Hook slot type mismatch",
		Detail:   "The hook slot at this position holds a different hook kind or state type than the one requested. This usually means a hook was called conditionally.",
	},
	"E011": {
		Category: CategoryRuntime,
		Message:  "Hook called outside render",
		Detail:   "Hooks read and write per-instance slots, which only exist while an owner is rendering.",
	},
	"E012": {
		Category: CategoryRuntime,
		Message:  "Render loop detected",
		Detail:   "Instances kept marking themselves dirty during flush. A component is probably updating its own state unconditionally while rendering.",
	},
	"E013": {
		Category: CategoryRuntime,
		Message:  "Instance disposed",
		Detail:   "The instance has been unmounted and can no longer render.",
	},

	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or not recognised.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration could not be read",
		Detail:   "The configuration file exists but could not be read or decoded.",
	},

	// ============================================
	// Scenario Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryScenario,
		Message:  "Scenario could not be parsed",
		Detail:   "Scenario files are JSON (.json) or YAML (.yaml, .yml) documents with a list of steps.",
	},
	"E121": {
		Category: CategoryScenario,
		Message:  "Unknown producer",
		Detail:   "Known producers are increment, double, keep and reset.",
	},
	"E122": {
		Category: CategoryScenario,
		Message:  "Invalid scenario step",
		Detail:   "Each step must contain exactly one of render, set, update or unmount.",
	},
	"E123": {
		Category: CategoryScenario,
		Message:  "Expectation failed",
		Detail:   "The observed state or render count differs from the step's expectation.",
	},
	"E124": {
		Category: CategoryScenario,
		Message:  "Scenario could not be read",
		Detail:   "The scenario file does not exist or is not readable.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "An argument could not be decoded.",
	},
}
