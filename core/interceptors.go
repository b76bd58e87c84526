package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ######################################################
//
//	REQUEST/RESPONSE INTERCEPTORS
//
// ######################################################

// doBeforeRequest stamps a request id, logs the request and runs the
// user-defined BeforeRequestFn. An error aborts the request.
func doBeforeRequest(ctx context.Context, config *CocConfig, r *http.Request, verb, url string) error {
	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, uuid.NewString())
	}
	beforeRequestLog(loggerOf(config), r.Header.Get(HeaderRequestID), verb, url)
	if config.BeforeRequestFn != nil {
		return config.BeforeRequestFn(ctx, r, verb, url)
	}
	return nil
}

// doAfterRequest logs the result and runs the user-defined AfterRequestFn.
func doAfterRequest(ctx context.Context, config *CocConfig, response Result) (Result, error) {
	afterRequestLog(loggerOf(config), response)
	if config.AfterRequestFn != nil {
		mutated, err := config.AfterRequestFn(ctx, response)
		if err != nil {
			return nil, err
		}
		if mutated == nil {
			return nil, fmt.Errorf("AfterRequestFn returned a nil result")
		}
		return mutated, nil
	}
	return response, nil
}

// ######################################################
//
//	REQUEST/RESPONSE LOGGING
//
// ######################################################

// newLogger builds the logger selected by COC_LOG: "debug", "info" or empty (disabled).
func newLogger(level string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return zap.NewNop(), nil
	case "debug":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	case "info":
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	return nil, fmt.Errorf("unsupported log level %q (expected debug or info)", level)
}

func loggerOf(config *CocConfig) *zap.Logger {
	if config == nil || config.Logger == nil {
		return zap.NewNop()
	}
	return config.Logger
}

func beforeRequestLog(logger *zap.Logger, requestID, verb, url string) {
	logger.Info("http request start",
		zap.String("request_id", requestID),
		zap.String("method", verb),
		zap.String("url", url),
	)
}

// afterRequestLog logs a summary at info level and the full body at debug level.
func afterRequestLog(logger *zap.Logger, response Result) {
	fields := []zap.Field{
		zap.Int("status", response.StatusCode()),
		zap.Stringer("kind", response.Kind()),
	}
	switch typed := response.(type) {
	case *ListResult:
		fields = append(fields, zap.Int("items", len(typed.Items)), zap.Bool("has_next", typed.Next() != nil))
	case *MalformedResult:
		fields = append(fields, zap.Error(typed.Err))
	}
	if msg, ok := response.ErrorMessage(); ok {
		fields = append(fields, zap.String("error_message", msg))
	}
	logger.Info("http response", fields...)
	if ce := logger.Check(zapcore.DebugLevel, "http response body"); ce != nil {
		ce.Write(zap.String("body", response.PrettyJson("  ")))
	}
}
