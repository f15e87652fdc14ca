package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/httpapi/internal"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/httpserver"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/query"
)

const (
	invalidBodyErrMessage = "invalid request body"
	timestampLayout       = "2006-01-02T15:04:05.000Z07:00"
)

// Executor is the part of query.Gateway the controller needs.
type Executor interface {
	Execute(ctx context.Context, d db.Descriptor, stmt query.Statement) (query.Result, error)
	Tables(ctx context.Context, d db.Descriptor) ([]string, error)
	Describe(ctx context.Context, d db.Descriptor, table string) ([]db.Column, error)
}

var _ Executor = (*query.Gateway)(nil)

type Options struct {
	ServiceName string
	EchoEnabled bool
	Logger      logger.Logger
	// Now is used for /status timestamps.
	Now func() time.Time
}

func NewQueryController(executor Executor, opts Options) *QueryController {
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &QueryController{
		executor: executor,
		opts:     opts,
	}
}

var _ httpserver.Controller = &QueryController{}

type QueryController struct {
	executor Executor
	opts     Options
}

func (c *QueryController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /query", c.execute())
	router.Handle("POST /operation", c.execute())
	router.Handle("POST /tables", c.tables())
	router.Handle("POST /describe", c.describe())
	router.Handle("GET /status", c.status())
	if c.opts.EchoEnabled {
		router.Handle("POST /echo", c.echo())
	}
}

// Features lists the routes this controller serves.
func (c *QueryController) Features() []string {
	features := []string{"query", "operation", "tables", "describe"}
	if c.opts.EchoEnabled {
		features = append(features, "echo")
	}
	return features
}

func (c *QueryController) execute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.QueryRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		params, err := query.ParseRawParams(body.Params)
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		// a client that goes away must not abort a statement mid-flight
		ctx := context.WithoutCancel(r.Context())
		result, err := c.executor.Execute(ctx, body.Descriptor(), query.Statement{
			SQL:    body.Statement(),
			Params: params,
		})
		if err != nil {
			c.replyWithFailure(w, r, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.SuccessResponse{Success: true, Data: result})
	}
}

func (c *QueryController) tables() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.QueryRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		tables, err := c.executor.Tables(context.WithoutCancel(r.Context()), body.Descriptor())
		if err != nil {
			c.replyWithFailure(w, r, err)
			return
		}
		if tables == nil {
			tables = []string{}
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.SuccessResponse{
			Success: true,
			Data:    internal.TablesData{Tables: tables},
		})
	}
}

func (c *QueryController) describe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.QueryRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		columns, err := c.executor.Describe(context.WithoutCancel(r.Context()), body.Descriptor(), body.Table)
		if err != nil {
			c.replyWithFailure(w, r, err)
			return
		}
		if columns == nil {
			columns = []db.Column{}
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.SuccessResponse{
			Success: true,
			Data:    internal.DescribeData{Table: body.Table, Columns: columns},
		})
	}
}

func (c *QueryController) status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.StatusResponse{
			Status:    "online",
			Service:   c.opts.ServiceName,
			Timestamp: c.opts.Now().UTC().Format(timestampLayout),
			Features:  c.Features(),
		})
	}
}

func (c *QueryController) echo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := httpserver.ReadBody(r)
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			c.opts.Logger.Errorw("writing echo response", "error", err, "bytes", len(body))
		}
	}
}

func (c *QueryController) replyWithFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, query.ErrValidation) || errors.Is(err, query.ErrParameterParse) {
		httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := internal.FailureResponse{
		Error:      err.Error(),
		Details:    err.Error(),
		BindParams: map[string]any{},
	}

	var execErr *query.ExecutionError
	if errors.As(err, &execErr) {
		response.Details = execErr.Details()
		response.DebugSQL = execErr.Context.DebugSQL
		response.OriginalSQL = execErr.Context.OriginalSQL
		if execErr.Context.Params != nil {
			response.BindParams = execErr.Context.Params
		}
	}

	c.opts.Logger.Errorw("request failed",
		"request_id", httpserver.RequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	httpserver.ReplyJSONResponse(w, http.StatusInternalServerError, response)
}
