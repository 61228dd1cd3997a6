package config

// defaults returns the values every other layer overrides.
func defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "text",

		"document.format_version": "0.2",

		"output.color": true,
	}
}
