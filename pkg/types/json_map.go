package types

// JSONMap is a free-form jsonb payload.
type JSONMap map[string]any
