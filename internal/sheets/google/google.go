// Package google mirrors user summaries into a Google spreadsheet, either
// through a service account or with a user OAuth token.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cofrinho/internal/core"
	"cofrinho/internal/reports"
	"cofrinho/internal/sheets"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var errNoCredentials = errors.New("missing Google credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, GOOGLE_APPLICATION_CREDENTIALS, or the GOOGLE_OAUTH_* pair)")

type Config struct {
	SpreadsheetID string
	GoalsSheet    string
	WeeksSheet    string

	// Service account credentials. JSON wins over File.
	CredentialsJSON string
	CredentialsFile string

	// User OAuth credentials, used when no service account is set. The token
	// is produced by cmd/cofrinho-sheets-auth.
	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenJSON  string
	OAuthTokenFile  string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	goalsSheet    string
	weeksSheet    string
}

var _ sheets.Exporter = (*Client)(nil)

// New builds an authenticated client. Extra options are appended after the
// credentials.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	auth, err := authOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newClient(ctx, cfg, append(auth, opts...)...)
}

func newClient(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	c := &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		goalsSheet:    cfg.GoalsSheet,
		weeksSheet:    cfg.WeeksSheet,
	}
	if c.goalsSheet == "" {
		c.goalsSheet = "Metas"
	}
	if c.weeksSheet == "" {
		c.weeksSheet = "Semanas"
	}
	return c, nil
}

// authOptions prefers a service account and falls back to a user OAuth token.
func authOptions(ctx context.Context, cfg Config) ([]goption.ClientOption, error) {
	credentials, err := readSecret(cfg.CredentialsJSON, cfg.CredentialsFile, "service account")
	if err != nil {
		return nil, err
	}
	if credentials != nil {
		slog.InfoContext(ctx, "Using service account credentials", "size", len(credentials))
		return []goption.ClientOption{
			goption.WithCredentialsJSON(credentials),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}, nil
	}

	ts, err := oauthTokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Using user OAuth credentials")
	return []goption.ClientOption{goption.WithTokenSource(ts)}, nil
}

// oauthTokenSource refreshes the stored user token with the OAuth client.
func oauthTokenSource(ctx context.Context, cfg Config) (oauth2.TokenSource, error) {
	client, err := readSecret(cfg.OAuthClientJSON, cfg.OAuthClientFile, "oauth client")
	if err != nil {
		return nil, err
	}
	token, err := readSecret(cfg.OAuthTokenJSON, cfg.OAuthTokenFile, "oauth token")
	if err != nil {
		return nil, err
	}
	if client == nil && token == nil {
		return nil, errNoCredentials
	}
	if client == nil {
		return nil, errors.New("missing oauth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	}
	if token == nil {
		return nil, errors.New("missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE)")
	}

	oc, err := oauthgoogle.ConfigFromJSON(client, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(token, &tok); err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}
	return oc.TokenSource(ctx, &tok), nil
}

// readSecret returns inline wins over file; nil when neither is set.
func readSecret(inline, file, what string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if strings.TrimSpace(file) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", what, err)
	}
	return b, nil
}

func (c *Client) ExportGoals(ctx context.Context, userID string, goals []core.Goal, today core.Date) error {
	return c.replaceUserRows(ctx, c.goalsSheet, sheets.GoalsHeader(), userID, sheets.GoalRows(userID, goals, today))
}

func (c *Client) ExportWeeklyTotals(ctx context.Context, userID string, weeks []reports.WeekTotal) error {
	return c.replaceUserRows(ctx, c.weeksSheet, sheets.WeeksHeader(), userID, sheets.WeekRows(userID, weeks))
}

// replaceUserRows rewrites the whole sheet with userID's rows swapped out.
// Concurrent exports for different users can race; the worker consumes one
// event at a time.
func (c *Client) replaceUserRows(ctx context.Context, sheet string, header []string, userID string, rows [][]string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	existing := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		existing[i] = toStrings(row)
	}
	merged := sheets.MergeUserRows(existing, header, userID, rows)

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	target := fmt.Sprintf("%s!A1", sheet)
	vr := &gsheet.ValueRange{Values: toValues(merged)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", target, err)
	}

	slog.DebugContext(ctx, "Sheet rows replaced", "sheet", sheet, "user_id", userID, "rows", len(rows), "total_rows", len(merged))
	return nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func toValues(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		out[i] = vals
	}
	return out
}
