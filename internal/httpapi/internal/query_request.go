package internal

import (
	"encoding/json"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

// QueryRequest is the body of /query, /operation, /tables and /describe.
// Params may be a JSON object or a string holding one.
type QueryRequest struct {
	Driver        string          `json:"driver,omitempty"`
	User          string          `json:"user"`
	Password      string          `json:"password"`
	ConnectString string          `json:"connectString"`
	SQL           string          `json:"sql,omitempty"`
	Query         string          `json:"query,omitempty"`
	Params        json.RawMessage `json:"params,omitempty"`
	Table         string          `json:"table,omitempty"`
}

func (r QueryRequest) Descriptor() db.Descriptor {
	return db.Descriptor{
		Driver:        r.Driver,
		User:          r.User,
		Password:      r.Password,
		ConnectTarget: r.ConnectString,
	}
}

// Statement prefers sql and falls back to the legacy query field.
func (r QueryRequest) Statement() string {
	if r.SQL != "" {
		return r.SQL
	}
	return r.Query
}
