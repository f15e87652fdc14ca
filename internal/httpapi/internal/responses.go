package internal

import (
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// FailureResponse is returned for connection and execution errors.
type FailureResponse struct {
	Success     bool           `json:"success"`
	DebugSQL    string         `json:"debugSql"`
	OriginalSQL string         `json:"originalSql"`
	BindParams  map[string]any `json:"bindParams"`
	Error       string         `json:"error"`
	Details     string         `json:"details"`
}

type StatusResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Timestamp string   `json:"timestamp"`
	Features  []string `json:"features"`
}

type TablesData struct {
	Tables []string `json:"tables"`
}

type DescribeData struct {
	Table   string      `json:"table"`
	Columns []db.Column `json:"columns"`
}
