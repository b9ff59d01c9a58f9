package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gosentry "github.com/getsentry/sentry-go"
	"github.com/jmoiron/sqlx"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/sentry"
)

// QueryTracer logs one query with its duration and reports it as a sentry span
type QueryTracer struct {
	logger *logger.Logger
	span   *gosentry.Span
	query  string
	params interface{}
	start  time.Time
}

func NewQueryTracer(ctx context.Context, log *logger.Logger, sentrySvc *sentry.Service, operation, query string, params interface{}) (*QueryTracer, context.Context) {
	span, ctx := sentrySvc.StartDBSpan(ctx, "postgres."+operation, map[string]interface{}{
		"query": query,
	})
	return &QueryTracer{
		logger: log,
		span:   span,
		query:  query,
		params: params,
		start:  time.Now(),
	}, ctx
}

// Done logs the query completion
func (qt *QueryTracer) Done(err error) {
	duration := time.Since(qt.start)
	fields := []interface{}{
		"duration_ms", duration.Milliseconds(),
		"query", qt.query,
		"params", fmt.Sprintf("%+v", qt.params),
	}

	if qt.span != nil {
		defer qt.span.Finish()
		qt.span.Status = gosentry.SpanStatusOK
	}

	if err != nil && err != sql.ErrNoRows {
		if qt.span != nil {
			qt.span.Status = gosentry.SpanStatusInternalError
		}
		fields = append(fields, "error", err.Error())
		qt.logger.Errorw("database query failed", fields...)
		return
	}
	qt.logger.Debugw("database query completed", fields...)
}

// TracedQuerier wraps a Querier with tracing
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	sentry *sentry.Service
}

func NewTracedQuerier(q Querier, log *logger.Logger, sentrySvc *sentry.Service) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  log,
		sentry:  sentrySvc,
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	tracer, ctx := NewQueryTracer(ctx, tq.logger, tq.sentry, "exec", query, args)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	tracer.Done(err)
	return result, err
}

func (tq *TracedQuerier) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	tracer, ctx := NewQueryTracer(ctx, tq.logger, tq.sentry, "query", query, args)
	rows, err := tq.Querier.QueryxContext(ctx, query, args...)
	tracer.Done(err)
	return rows, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	tracer, ctx := NewQueryTracer(ctx, tq.logger, tq.sentry, "get", query, args)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	tracer.Done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	tracer, ctx := NewQueryTracer(ctx, tq.logger, tq.sentry, "select", query, args)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	tracer.Done(err)
	return err
}
