// Package net holds transport-neutral request scope helpers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const (
	keyTeamID ctxKey = "team_id"
	keyUserID ctxKey = "user_id"
)

// WithRequest annotates context with the request id and the caller's team
func WithRequest(ctx context.Context, reqID, teamID string) context.Context {
	if reqID != "" {
		// chi's key so chimw.GetReqID keeps working downstream
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if teamID != "" {
		ctx = context.WithValue(ctx, keyTeamID, teamID)
	}
	return ctx
}

// WithUser annotates context with the authenticated user id
func WithUser(ctx context.Context, userID string) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, keyUserID, userID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// TeamID returns the team id on the context if present
func TeamID(ctx context.Context) string {
	v, _ := ctx.Value(keyTeamID).(string)
	return v
}

// UserID returns the user id on the context if present
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(keyUserID).(string)
	return v
}
